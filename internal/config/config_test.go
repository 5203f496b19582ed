package config

import (
	"context"
	"encoding/base64"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = base64.RawURLEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))

func TestLoad(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"TOKEN_SECRET": testSecret,
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout.Duration)
	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 25, cfg.Postgres.Pool().MaxOpenConns)
	assert.Equal(t, 30*time.Minute, cfg.Postgres.Pool().ConnMaxLifetime)

	assert.Equal(t, 5*time.Minute, cfg.Token.AccessExpiry.Duration)
	assert.Equal(t, 15*24*time.Hour, cfg.Token.RefreshExpiry.Duration)
	assert.Equal(t, "urn:instaclone:issuer", cfg.Token.Issuer)
	assert.Equal(t, "urn:instaclone:audience", cfg.Token.Audience)
	assert.Len(t, cfg.Token.Key, TokenKeySize)

	assert.Equal(t, 12, cfg.Security.BCryptCost)
	assert.Equal(t, 2, cfg.SMTP.Workers)
	assert.Equal(t, time.Hour, cfg.Blacklist.PruneInterval.Duration)
	assert.Equal(t, "development", cfg.Env)
	assert.True(t, cfg.Migrate)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
	assert.NotEmpty(t, cfg.CORS.AllowedMethods)
}

func TestLoadWithCustomValues(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"TOKEN_SECRET":         testSecret,
		"SERVER_PORT":          "9090",
		"POSTGRES_HOST":        "postgres.example.com",
		"TOKEN_ACCESS_EXPIRY":  "30m",
		"TOKEN_REFRESH_EXPIRY": "7d",
		"S3_BUCKET":            "media",
		"SMTP_WORKERS":         "0",
		"ENV":                  "production",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres.example.com", cfg.Postgres.Host)
	assert.Equal(t, 30*time.Minute, cfg.Token.AccessExpiry.Duration)
	assert.Equal(t, 7*24*time.Hour, cfg.Token.RefreshExpiry.Duration)
	assert.Equal(t, "media", cfg.S3.Bucket)
	assert.Equal(t, 1, cfg.SMTP.Workers)
	assert.Equal(t, "production", cfg.Env)
}

func TestLoadWithoutSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoadWithInvalidSecret(t *testing.T) {
	tests := map[string]string{
		"too short":     base64.RawURLEncoding.EncodeToString([]byte("short")),
		"not base64url": "!!!not-base64!!!",
		"too long":      base64.RawURLEncoding.EncodeToString(make([]byte, 64)),
	}

	for name, secret := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
				"TOKEN_SECRET": secret,
			}))
			assert.Error(t, err)
		})
	}
}

func TestDecodeKeyAcceptsPadding(t *testing.T) {
	padded := base64.URLEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	key, err := TokenConfig{Secret: padded}.DecodeKey()
	require.NoError(t, err)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", string(key))
}

func TestDuration(t *testing.T) {
	var d Duration
	require.NoError(t, d.EnvDecode(context.Background(), "15d"))
	assert.Equal(t, 15*24*time.Hour, d.Duration)
	assert.Equal(t, "15d", d.String())

	require.NoError(t, d.EnvDecode(context.Background(), "5m"))
	assert.Equal(t, 5*time.Minute, d.Duration)
	assert.Equal(t, "5m0s", d.String())

	assert.Error(t, d.EnvDecode(context.Background(), "xd"))
	assert.Error(t, d.EnvDecode(context.Background(), "later"))
}

func TestPostgresDSN(t *testing.T) {
	pg := PostgresConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "test_user",
		Password: "test_password",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	expected := "host=localhost port=5432 user=test_user password=test_password dbname=test_db sslmode=disable"
	assert.Equal(t, expected, pg.DSN())
}

func TestRedisAddress(t *testing.T) {
	redis := RedisConfig{Host: "localhost", Port: "6379"}
	assert.Equal(t, "localhost:6379", redis.Address())
}
