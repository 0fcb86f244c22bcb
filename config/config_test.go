package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, CONFIG_FILE)
	require.NoError(t, os.WriteFile(path, []byte(`
logging:
  level: debug
service:
  base_url: http://api.example.com/
  timeout: 3s
store:
  page_size: 25
devserver:
  addr: ":9090"
  storage: mongo
  seed: true
  gemini_rpd: 100
  import_feeds:
    - https://go.dev/blog/feed.atom
`), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "http://api.example.com", c.Service.BaseURL)
	assert.Equal(t, 3*time.Second, c.Service.Timeout)
	assert.Equal(t, 25, c.Store.PageSize)
	assert.Equal(t, ":9090", c.DevServer.Addr)
	assert.Equal(t, "mongo", c.DevServer.Storage)
	assert.True(t, c.DevServer.Seed)
	assert.Equal(t, DefaultMongoDB, c.DevServer.MongoDB)
	assert.Equal(t, 100, c.DevServer.GeminiRPD)
	assert.Equal(t, DefaultGeminiRPM, c.DevServer.GeminiRPM)
	assert.Equal(t, []string{"https://go.dev/blog/feed.atom"}, c.DevServer.ImportFeeds)
	assert.Equal(t, DefaultImportLimit, c.DevServer.ImportLimit)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.Service.BaseURL)
	assert.Equal(t, DefaultTimeout, c.Service.Timeout)
	assert.Equal(t, DefaultPageSize, c.Store.PageSize)
	assert.Equal(t, "memory", c.DevServer.Storage)
	assert.Equal(t, []string{"*"}, c.DevServer.AllowOrigins)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("INKWELL_BASE_URL", "http://override:1234")
	t.Setenv("INKWELL_TOKEN", "secret")
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("INKWELL_JWT_SECRET", "jwt-secret")

	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://override:1234", c.Service.BaseURL)
	assert.Equal(t, "secret", c.Service.Token)
	assert.Equal(t, "mongodb://db:27017", c.DevServer.MongoURI)
	assert.Equal(t, "gm-key", c.DevServer.GeminiAPIKey)
	assert.Equal(t, "jwt-secret", c.DevServer.JWTSecret)
	assert.Equal(t, "inkwell", c.DevServer.JWTIssuer)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), CONFIG_FILE)
	require.NoError(t, os.WriteFile(path, []byte("service: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
