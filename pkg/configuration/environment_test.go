package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "GEDS_SYNC_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "modules", "directory")
	requireMkdirAll(t, sub)

	origWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	if err := os.Chdir(sub); err != nil {
		t.Fatalf("chdir: %v", err)
	}

	t.Setenv("GEDS_SYNC_TEST_ENV_LOAD", "")
	_ = os.Unsetenv("GEDS_SYNC_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	if err != nil {
		t.Fatalf("LoadEnv: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 env file loaded, got %d", n)
	}
	if got := os.Getenv("GEDS_SYNC_TEST_ENV_LOAD"); got != "ok" {
		t.Fatalf("expected env var loaded from repo root, got %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ORG_TREE_DEPTH", "ORG_PATH_SEPARATOR", "LOG_LEVEL", "LOG_PATH",
		"ELASTIC_URL", "ELASTIC_TIMEOUT", "GEDS_DATA_URL", "PUSHGATEWAY_URL",
		"SERVER_ADDR", "CORS_ORIGINS", "RATE_LIMIT_PER_MINUTE",
	} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	c, err := Load()
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	assert.Equal(t, 7, c.OrgChart.TreeDepth)
	assert.Equal(t, ":", c.OrgChart.Separator)
	assert.Equal(t, 30*time.Second, c.Elastic.Timeout)
	assert.Equal(t, logrus.InfoLevel, c.LogrusLogLevel())
	require.NotNil(t, c.Logger())
	assert.Contains(t, c.Database.Opts, "dbname=")
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 600, c.Server.RateLimitPerMinute)
	assert.Empty(t, c.Server.CORSOrigins)
}

func TestLoad_ServerOptions(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")

	c, err := Load()
	require.NoError(t, err)
	t.Cleanup(c.Unload)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.Server.CORSOrigins)
	assert.Zero(t, c.Server.RateLimitPerMinute)
}

func TestLoad_RejectsInvalidTreeDepth(t *testing.T) {
	t.Setenv("ORG_TREE_DEPTH", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TreeDepth")
}

func TestLoad_RejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_FileLogger(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "geds-sync.log")
	t.Setenv("LOG_PATH", logPath)
	t.Setenv("LOG_LEVEL", "debug")

	c, err := Load()
	require.NoError(t, err)
	c.Logger().Debug("hello")
	c.Unload()

	b, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(b), "hello")
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
