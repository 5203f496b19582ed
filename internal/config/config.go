package config

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/prperemyshlev/social-service/pkg/database"
	"github.com/sethvargo/go-envconfig"
)

// TokenKeySize is the key length required by the A128CBC-HS256 content encryption.
const TokenKeySize = 32

type Config struct {
	Server    ServerConfig    `env:",prefix=SERVER_"`
	Postgres  PostgresConfig  `env:",prefix=POSTGRES_"`
	Redis     RedisConfig     `env:",prefix=REDIS_"`
	Token     TokenConfig     `env:",prefix=TOKEN_"`
	Security  SecurityConfig  `env:",prefix=SECURITY_"`
	SMTP      SMTPConfig      `env:",prefix=SMTP_"`
	S3        S3Config        `env:",prefix=S3_"`
	Blacklist BlacklistConfig `env:",prefix=BLACKLIST_"`
	CORS      CORSConfig      `env:",prefix=CORS_"`
	Env       string          `env:"ENV,default=development"`
	Migrate   bool            `env:"MIGRATE_ON_START,default=true"`
}

type ServerConfig struct {
	Port         string   `env:"PORT,default=8080"`
	Host         string   `env:"HOST,default=0.0.0.0"`
	ReadTimeout  Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout Duration `env:"WRITE_TIMEOUT,default=15s"`
}

type PostgresConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=5432"`
	User     string `env:"USER,default=social_service"`
	Password string `env:"PASSWORD,default=social_service_password"`
	DBName   string `env:"DB,default=social_service_db"`
	SSLMode  string `env:"SSLMODE,default=disable"`

	MaxOpenConns    int      `env:"MAX_OPEN_CONNS,default=25"`
	MaxIdleConns    int      `env:"MAX_IDLE_CONNS,default=5"`
	ConnMaxLifetime Duration `env:"CONN_MAX_LIFETIME,default=30m"`
}

type RedisConfig struct {
	Host     string `env:"HOST,default=localhost"`
	Port     string `env:"PORT,default=6379"`
	Password string `env:"PASSWORD,default="`
	DB       int    `env:"DB,default=0"`
}

// TokenConfig holds the process-wide token secret. Secret is base64url encoded;
// Key is the decoded value and is filled in by Load.
type TokenConfig struct {
	Secret        string   `env:"SECRET,required"`
	AccessExpiry  Duration `env:"ACCESS_EXPIRY,default=5m"`
	RefreshExpiry Duration `env:"REFRESH_EXPIRY,default=15d"`
	Issuer        string   `env:"ISSUER,default=urn:instaclone:issuer"`
	Audience      string   `env:"AUDIENCE,default=urn:instaclone:audience"`

	Key []byte
}

type SecurityConfig struct {
	BCryptCost int `env:"BCRYPT_COST,default=12"`
}

type SMTPConfig struct {
	Host      string `env:"HOST,default=localhost"`
	Port      int    `env:"PORT,default=587"`
	User      string `env:"USER,default="`
	Password  string `env:"PASSWORD,default="`
	From      string `env:"FROM,default=no-reply@instaclone.local"`
	Workers   int    `env:"WORKERS,default=2"`
	QueueSize int    `env:"QUEUE_SIZE,default=100"`
}

type S3Config struct {
	Region        string `env:"REGION,default=us-east-1"`
	Endpoint      string `env:"ENDPOINT,default="`
	AccessKey     string `env:"ACCESS_KEY,default="`
	SecretKey     string `env:"SECRET_KEY,default="`
	Bucket        string `env:"BUCKET,default=instaclone-media"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL,default="`
}

type BlacklistConfig struct {
	PruneInterval Duration `env:"PRUNE_INTERVAL,default=1h"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS,default=http://localhost:3000"`
	AllowedMethods []string `env:"ALLOWED_METHODS,default=GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders []string `env:"ALLOWED_HEADERS,default=Content-Type,Authorization"`
}

// DSN returns PostgreSQL connection string
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DBName, p.SSLMode)
}

// Pool returns the connection pool settings
func (p PostgresConfig) Pool() database.PoolOptions {
	return database.PoolOptions{
		MaxOpenConns:    p.MaxOpenConns,
		MaxIdleConns:    p.MaxIdleConns,
		ConnMaxLifetime: p.ConnMaxLifetime.Duration,
	}
}

// Address returns Redis connection address
func (r RedisConfig) Address() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// DecodeKey decodes the base64url token secret and checks its length.
func (t TokenConfig) DecodeKey() ([]byte, error) {
	raw := strings.TrimRight(strings.TrimSpace(t.Secret), "=")
	key, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("TOKEN_SECRET must be base64url encoded: %w", err)
	}
	if len(key) != TokenKeySize {
		return nil, fmt.Errorf("TOKEN_SECRET must decode to %d bytes, got %d", TokenKeySize, len(key))
	}
	return key, nil
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

// LoadWithDefaults loads configuration with default context
func LoadWithDefaults() (*Config, error) {
	return Load(context.Background())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var config Config

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &config,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	key, err := config.Token.DecodeKey()
	if err != nil {
		return nil, err
	}
	config.Token.Key = key

	if config.SMTP.Workers < 1 {
		config.SMTP.Workers = 1
	}

	return &config, nil
}
