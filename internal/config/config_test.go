package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup at a fresh directory so the developer's own
// environment never leaks into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, key := range []string{
		"FINTRACK_API_URL", "FINTRACK_STORE", "FINTRACK_SQLITE_PATH", "FINTRACK_SCOPE",
		"FINTRACK_REDIS_ADDR", "FINTRACK_REDIS_PASSWORD", "FINTRACK_REDIS_DB", "FINTRACK_REDIS_PREFIX",
		"FINTRACK_HTTP_TIMEOUT", "FINTRACK_DEDUP", "FINTRACK_LOG_LEVEL", "FINTRACK_LOG_FILE",
		"FINTRACK_CONFIG",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("FINTRACK_STATE_DIR", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, dir, cfg.StateDir)
	assert.Equal(t, BackendFile, cfg.StoreBackend)
	assert.Equal(t, filepath.Join(dir, "fintrack.db"), cfg.SQLitePath)
	assert.Equal(t, filepath.Join(dir, "fintrack.log"), cfg.LogFile)
	assert.Equal(t, filepath.Join(dir, "session.json"), cfg.SessionFile())
	assert.Equal(t, "default", cfg.Scope)
	assert.True(t, cfg.Dedup)
	assert.Zero(t, cfg.HTTPTimeout)
	assert.Empty(t, cfg.File)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	yamlDoc := "api_url: https://file.example/api\nstore: sqlite\nhttp_timeout: 15s\ndedup: false\nscope: work\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlDoc), 0o600))
	t.Setenv("FINTRACK_API_URL", "https://env.example/api")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example/api", cfg.APIURL)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.False(t, cfg.Dedup)
	assert.Equal(t, "work", cfg.Scope)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)
}

func TestLoad_ExplicitConfigMissing(t *testing.T) {
	dir := isolate(t)
	t.Setenv("FINTRACK_CONFIG", filepath.Join(dir, "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_BadYAML(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unclosed"), 0o600))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	isolate(t)
	t.Setenv("FINTRACK_API_URL", "ftp://example.com")
	t.Setenv("FINTRACK_STORE", "etcd")
	t.Setenv("FINTRACK_HTTP_TIMEOUT", "soon")
	t.Setenv("FINTRACK_LOG_LEVEL", "loud")

	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.Validate()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "invalid API URL scheme 'ftp'")
	assert.Contains(t, msg, "invalid store backend 'etcd'")
	assert.Contains(t, msg, "invalid FINTRACK_HTTP_TIMEOUT 'soon'")
	assert.Contains(t, msg, `unknown log level "loud"`)
}

func TestValidate_Redis(t *testing.T) {
	cfg := Defaults()
	cfg.StoreBackend = BackendRedis
	cfg.RedisAddr = ""
	cfg.RedisDB = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Redis address cannot be empty")
	assert.Contains(t, err.Error(), "invalid Redis DB -1")
}

func TestValidate_MemoryNeedsNoStateDir(t *testing.T) {
	cfg := Defaults()
	cfg.StoreBackend = BackendMemory
	cfg.StateDir = ""

	assert.NoError(t, cfg.Validate())
}
