package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("APP_MODE", "")
	t.Setenv("PUBLIC_HOST", "")
	path := writeConfig(t, `
app:
  mode: debug
auth:
  secret: test-secret
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 744, cfg.Auth.ExpirationHours, "默认有效期应为 31 天")
	assert.Equal(t, 5, cfg.Link.CodeLength)
	assert.Equal(t, 15, cfg.Link.MaxCustomLength)
	assert.Equal(t, "c", cfg.Link.CustomPrefix)
	assert.Equal(t, "http://localhost:8080", cfg.Origin())
}

func TestLoad_EnvOverridesSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("SERVER_PORT", "9090")
	path := writeConfig(t, `
auth:
  secret: from-file
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Auth.Secret)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_RejectsMissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	path := writeConfig(t, "app:\n  mode: debug\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsPlaceholderSecretInProduction(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("APP_MODE", "")
	path := writeConfig(t, `
app:
  mode: production
auth:
  secret: change-me-in-production
`)
	_, err := Load(path)
	assert.Error(t, err)

	// 非生产环境允许使用占位密钥
	t.Setenv("APP_MODE", "debug")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, placeholderSecret, cfg.Auth.Secret)

	t.Setenv("APP_MODE", "production")
	t.Setenv("JWT_SECRET", "real-secret")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	path := writeConfig(t, `
database:
  driver: oracle
auth:
  secret: s
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestComposeOrigin(t *testing.T) {
	cases := []struct {
		name     string
		protocol string
		host     string
		port     int
		mode     string
		want     string
	}{
		{"本地环境带端口", "http", "localhost", 8080, "debug", "http://localhost:8080"},
		{"生产环境不带端口", "https", "sho.rt", 443, "production", "https://sho.rt"},
		{"缺省协议", "", "example.com", 3000, "test", "http://example.com:3000"},
		{"端口为零", "http", "example.com", 0, "debug", "http://example.com"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ComposeOrigin(tc.protocol, tc.host, tc.port, tc.mode))
		})
	}
}
