package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"chartviz/cli/internal/charts"
	"chartviz/cli/internal/config"
	"chartviz/cli/internal/keychain"
	"chartviz/cli/internal/session"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestInlineSpinnerStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t)

	var out syncBuffer
	stop := startInlineSpinner(&out, "working", spinnerFrames, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	stop()
	stop()

	s := out.String()
	assert.Contains(t, s, "working")
	assert.True(t, strings.HasSuffix(s, "\r"), "line should be cleared on stop")
}

func TestParseParamFlags(t *testing.T) {
	got, err := parseParamFlags([]string{"city=Lyon", "note=a=b", "empty="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"city": "Lyon", "note": "a=b", "empty": ""}, got)

	_, err = parseParamFlags([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseParamFlags([]string{"=x"})
	assert.Error(t, err)
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t, "postgresql://bob:***@db:5432/sales", maskPassword("postgresql://bob:s3cret@db:5432/sales"))
	assert.Equal(t, "postgresql://bob@db:5432/sales", maskPassword("postgresql://bob@db:5432/sales"))
}

func withTestApp(t *testing.T) {
	t.Helper()
	cfg := config.DefaultConfig()
	prev := app
	app = &appContext{cfg: cfg, log: zap.NewNop()}
	t.Cleanup(func() { app = prev })
}

func TestResolveConnection(t *testing.T) {
	withTestApp(t)
	t.Run("defaults from config", func(t *testing.T) {
		conn, err := resolveConnection(connFlags{}, nil, false)
		require.NoError(t, err)
		assert.Equal(t, "localhost", conn.Host)
		assert.Equal(t, "chart_visualizer_db", conn.DBName)
		assert.Equal(t, "postgres", conn.User)
	})

	t.Run("dsn then flags", func(t *testing.T) {
		conn, err := resolveConnection(connFlags{
			dsn:  "postgres://alice:pw@db.internal:6543/sales",
			user: "bob",
		}, nil, false)
		require.NoError(t, err)
		assert.Equal(t, "db.internal", conn.Host)
		assert.Equal(t, "sales", conn.DBName)
		assert.Equal(t, "bob", conn.User)
		assert.Equal(t, "pw", conn.Password)
		assert.Equal(t, 6543, conn.Port)
	})

	t.Run("password from keychain", func(t *testing.T) {
		km := keychain.NewManagerWithRing(keyring.NewArrayKeyring(nil))
		require.NoError(t, km.SaveDBPassword("from-ring"))
		conn, err := resolveConnection(connFlags{}, km, false)
		require.NoError(t, err)
		assert.Equal(t, "from-ring", conn.Password)
	})

	t.Run("bad dsn", func(t *testing.T) {
		_, err := resolveConnection(connFlags{dsn: "postgres://host-only"}, nil, false)
		assert.Error(t, err)
	})
}

func TestKeychainOptions(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("CHARTVIZ_KEYRING_PASSWORD", "pw")

	opts := keychainOptions("file")
	assert.Equal(t, "file", opts.Backend)
	assert.Contains(t, opts.FileDir, "chartviz")
	require.NotNil(t, opts.FilePassword)

	opts = keychainOptions("")
	assert.Empty(t, opts.FileDir)
	assert.Nil(t, opts.FilePassword)
}

type refusingSource struct{}

func (refusingSource) ListObjects(context.Context, session.Session, charts.ConnectionConfig) ([]string, error) {
	return nil, errors.New("connection refused")
}

func (refusingSource) DescribeObject(context.Context, session.Session, charts.ConnectionConfig, string) ([]charts.ObjectParameter, error) {
	return nil, charts.ErrNoParameters
}

func (refusingSource) FetchData(context.Context, session.Session, charts.ConnectionConfig, string, []charts.ParameterArg) (charts.RowSet, error) {
	return charts.RowSet{}, nil
}

func TestPrintNoticesDismissesShownNotices(t *testing.T) {
	c := charts.NewConfigurator(refusingSource{}, session.Session{}, charts.ConnectionConfig{})
	err := c.Connect(context.Background(), charts.ConnectionConfig{Host: "db", DBName: "sales", User: "bob"})
	require.Error(t, err)
	require.NotEmpty(t, c.Notices())

	printNotices(c)
	assert.Empty(t, c.Notices())
}
