package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
server:
  port: "9090"
  mode: debug
database:
  driver: postgres
  host: localhost
  port: 5432
  user: grader
  dbname: labgrade
jwt:
  secret: dev-secret
  expire_hours: 24
redis:
  enabled: true
  host: localhost
  port: 6379
  report_ttl_minutes: 10
storage:
  type: minio
cors:
  allowed_origins:
    - http://localhost:5173
`

func writeConfig(t *testing.T, body string) string {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 10*time.Minute, cfg.Redis.ReportTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_DRIVER", "mysql")

	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestValidate(t *testing.T) {
	base := Config{
		Server:    ServerConfig{Mode: "release"},
		Database:  DatabaseConfig{Driver: "mysql"},
		JWT:       JWTConfig{Secret: "short"},
		RateLimit: RateLimitConfig{MaxRequests: 10, WindowMinutes: 1},
	}
	assert.Error(t, base.Validate(), "short secret in release mode")

	base.JWT.Secret = "0123456789abcdef0123456789abcdef"
	assert.NoError(t, base.Validate())

	base.Database.Driver = "sqlserver"
	assert.Error(t, base.Validate())
}
