package configs

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	t.Setenv("APP_PORT", ":9000")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CORS_ORIGINS", " https://shop.example , ,http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, "perfume_store", cfg.DBName)
	assert.EqualValues(t, 5<<20, cfg.MaxPhotoBytes)
	assert.Equal(t, []string{"https://shop.example", "http://localhost:3000"}, cfg.AllowedOrigins())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigRejectsZeroTTL(t *testing.T) {
	t.Setenv("TOKEN_TTL", "0s")
	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestRequireSecret(t *testing.T) {
	cfg := &Config{JWTSecret: "short"}
	assert.Error(t, cfg.RequireSecret())

	cfg.JWTSecret = strings.Repeat("x", 32)
	assert.NoError(t, cfg.RequireSecret())
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "3307", DBUser: "shop", DBPassword: "pw", DBName: "perfumes"}
	dsn := cfg.DSN()
	assert.True(t, strings.HasPrefix(dsn, "shop:pw@tcp(db:3307)/perfumes?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret(48)
	require.NoError(t, err)
	b, err := GenerateSecret(48)
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)

	var out bytes.Buffer
	require.NoError(t, GenerateAndPrintSecret(&out))
	assert.Contains(t, out.String(), "JWT_SECRET=")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&Config{LogLevel: "debug", LogEncoding: "console"})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger(&Config{LogLevel: "loud"})
	assert.Error(t, err)
}
