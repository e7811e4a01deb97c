// Copyright (c) 2025 Chartviz
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly error handling for HTTP requests
// to the chart backend.
package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Category is the kind of transport failure.
type Category int

const (
	// NotNetwork means the request reached the backend and got a 4xx answer, or
	// the error has nothing to do with the network.
	NotNetwork Category = iota
	Timeout
	DNS
	ConnectionRefused
	TLS
	Server
	Generic
)

// statusCoder is implemented by backend API errors.
type statusCoder interface {
	StatusCode() int
}

// Classify maps an error to a transport failure category.
func Classify(err error) Category {
	if err == nil {
		return NotNetwork
	}

	var sc statusCoder
	if errors.As(err, &sc) {
		if sc.StatusCode() >= 500 {
			return Server
		}
		return NotNetwork
	}

	switch {
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return ConnectionRefused
	case isSSLError(err):
		return TLS
	}

	var urlErr *url.Error
	var opErr *net.OpError
	if errors.As(err, &urlErr) || errors.As(err, &opErr) {
		return Generic
	}
	return NotNetwork
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	return Classify(err) != NotNetwork
}

// FormatNetworkError prints a user-friendly explanation of a transport failure
// and returns the wrapped error for logging. Errors that are not transport
// failures are returned unchanged and nothing is printed.
func FormatNetworkError(err error, action, apiURL string) error {
	cat := Classify(err)
	if cat == NotNetwork {
		return err
	}
	for _, line := range Explain(cat, action, ExtractHostFromURL(apiURL)) {
		pterm.Println(line)
	}
	return fmt.Errorf("network error: %w", err)
}

// Explain returns the lines shown for a category.
func Explain(cat Category, action, host string) []string {
	switch cat {
	case Timeout:
		return []string{
			fmt.Sprintf("⏱️  Connection timeout while %s", action),
			"",
			"The backend took longer than 30 seconds to respond. This could mean:",
			"  • The database behind the backend is slow or locked",
			"  • The data object returns a very large result",
			"  • Network firewall is blocking the connection",
			"",
		}
	case DNS:
		return []string{
			fmt.Sprintf("🌐 Cannot resolve server address while %s", action),
			"",
			fmt.Sprintf("Unable to look up %s. Please check:", host),
			"  • The api_url in your config or CHARTVIZ_API_URL",
			"  • DNS settings are correct",
			"",
		}
	case ConnectionRefused:
		return []string{
			fmt.Sprintf("🚫 Connection refused while %s", action),
			"",
			fmt.Sprintf("Nothing is listening at %s. This could mean:", host),
			"  • The chart backend is not running",
			"  • Wrong server address or port",
			"  • Firewall is blocking the connection",
			"",
		}
	case TLS:
		return []string{
			fmt.Sprintf("🔒 Secure connection failed while %s", action),
			"",
			"Cannot establish a secure HTTPS connection. This could mean:",
			"  • SSL/TLS certificate issue",
			"  • Network proxy interfering with HTTPS",
			"  • System clock is incorrect",
			"",
		}
	case Server:
		return []string{
			fmt.Sprintf("⚠️  Server error while %s", action),
			"",
			fmt.Sprintf("The backend at %s failed while handling the request.", host),
			"  • Check the backend logs",
			"  • Please try again in a few moments",
			"",
		}
	case Generic:
		return []string{
			fmt.Sprintf("❌ Cannot reach the chart backend while %s", action),
			"",
			"Please check:",
			fmt.Sprintf("  • Whether %s is reachable from your network", host),
			"  • Proxy and firewall settings",
			"",
		}
	}
	return nil
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
