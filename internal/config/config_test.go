package config

import (
	"os"
	"path/filepath"
	"testing"

	"chartviz/cli/internal/charts"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CHARTVIZ_API_URL", "CHARTVIZ_LOG_LEVEL", "CHARTVIZ_KEYRING_BACKEND",
		"CHARTVIZ_DB_HOST", "CHARTVIZ_DB_NAME", "CHARTVIZ_DB_USER", "CHARTVIZ_DB_PORT",
	} {
		t.Setenv(k, "")
	}
	// LookupEnv distinguishes unset from empty for the password.
	t.Setenv("CHARTVIZ_DB_PASSWORD", "")
	os.Unsetenv("CHARTVIZ_DB_PASSWORD")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, charts.ConnectionConfig{
		Host: "localhost", DBName: "chart_visualizer_db", User: "postgres",
	}, cfg.ChartConnection())
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`
api_url: https://charts.internal
log_level: info
endpoints:
  data: /v2/data
connection:
  host: db.internal
  db_name: sales
  user: analyst
chart:
  kind: line
  width: 800
  height: 400
`), 0o600))

	t.Setenv("CHARTVIZ_DB_USER", "reporter")
	t.Setenv("CHARTVIZ_DB_PASSWORD", "s3cret")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://charts.internal", cfg.APIURL)
	assert.Equal(t, "/v2/data", cfg.Endpoints.Data)
	assert.Equal(t, "db.internal", cfg.Connection.Host)
	assert.Equal(t, "reporter", cfg.Connection.User)
	assert.Equal(t, "s3cret", cfg.Connection.Password)
	assert.Equal(t, ChartConfig{Kind: "line", Width: 800, Height: 400}, cfg.Chart)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	for name, body := range map[string]string{
		"kind":  "chart: {kind: pie, width: 800, height: 400}\n",
		"size":  "chart: {kind: bar, width: 10, height: 10}\n",
		"level": "log_level: chatty\n",
		"yaml":  "connection: [\n",
	} {
		path := filepath.Join(dir, name+".yaml")
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
		_, err := Load(path)
		assert.Error(t, err, name)
	}
}

func TestSaveNeverWritesPassword(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := DefaultConfig()
	cfg.Connection.Password = "do-not-persist"
	require.NoError(t, cfg.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "do-not-persist")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Connection.Host, loaded.Connection.Host)
	assert.Empty(t, loaded.Connection.Password)
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CHARTVIZ_DB_NAME=from_dotenv\n"), 0o600))

	// godotenv.Load does not override variables that are already set.
	os.Unsetenv("CHARTVIZ_DB_NAME")
	t.Cleanup(func() { os.Unsetenv("CHARTVIZ_DB_NAME") })

	require.NoError(t, LoadDotEnv(envFile))
	cfg, err := Load(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from_dotenv", cfg.Connection.DBName)

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
