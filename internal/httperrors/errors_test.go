package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type statusErr int

func (s statusErr) Error() string   { return fmt.Sprintf("status %d", int(s)) }
func (s statusErr) StatusCode() int { return int(s) }

func TestClassify(t *testing.T) {
	refused := &url.Error{Op: "Post", URL: "http://localhost:8080", Err: &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}}
	dns := &url.Error{Op: "Post", URL: "http://nope.invalid", Err: &net.DNSError{Err: "no such host", Name: "nope.invalid"}}

	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"nil", nil, NotNetwork},
		{"plain", errors.New("unknown parameter"), NotNetwork},
		{"client error status", statusErr(400), NotNetwork},
		{"server error status", fmt.Errorf("fetch: %w", statusErr(503)), Server},
		{"deadline", fmt.Errorf("list objects: %w", context.DeadlineExceeded), Timeout},
		{"dns", dns, DNS},
		{"refused", refused, ConnectionRefused},
		{"tls", &url.Error{Op: "Post", URL: "https://x", Err: errors.New("x509: certificate signed by unknown authority")}, TLS},
		{"other transport", &url.Error{Op: "Post", URL: "http://x", Err: errors.New("EOF")}, Generic},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestFormatNetworkErrorPassesThroughNonNetwork(t *testing.T) {
	err := errors.New("bad input")
	assert.Same(t, err, FormatNetworkError(err, "listing objects", "http://localhost:8080"))
}

func TestExplainMentionsHost(t *testing.T) {
	lines := Explain(ConnectionRefused, "logging in", "localhost:8080")
	assert.Contains(t, lines[0], "logging in")
	assert.Contains(t, lines[2], "localhost:8080")
	assert.Nil(t, Explain(NotNetwork, "x", "y"))
}

func TestExtractHostFromURL(t *testing.T) {
	assert.Equal(t, "localhost:8080", ExtractHostFromURL("http://localhost:8080/api"))
	assert.Equal(t, "server", ExtractHostFromURL("::"))
}
