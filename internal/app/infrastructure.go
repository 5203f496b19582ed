package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prperemyshlev/social-service/internal/config"
	"github.com/prperemyshlev/social-service/internal/service"
	"github.com/prperemyshlev/social-service/pkg/database"
	"github.com/prperemyshlev/social-service/pkg/mailer"
	"github.com/prperemyshlev/social-service/pkg/observability"
	"github.com/prperemyshlev/social-service/pkg/storage"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/zap"
)

const serviceName = "social-service"

type Infrastructure interface {
	Postgres() *database.Postgres
	Redis() *database.Redis
	Logger() *zap.Logger
	MetricsHandler() http.Handler
	MeterProvider() *metric.MeterProvider
	Mailer() service.Mailer
	Storage() service.ObjectStorage

	Shutdown(ctx context.Context) error
}

type infrastructure struct {
	postgres       *database.Postgres
	redis          *database.Redis
	logger         *zap.Logger
	metricsHandler http.Handler
	meterProvider  *metric.MeterProvider
	dispatcher     *mailer.Dispatcher
	storage        *storage.S3Storage
}

var _ Infrastructure = &infrastructure{}

func NewInfrastructure(ctx context.Context, cfg config.Config) (*infrastructure, error) {
	i := &infrastructure{}

	logger, err := observability.InitLogger(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	i.logger = logger

	if cfg.Migrate {
		if err := database.Migrate(cfg.Postgres.DSN()); err != nil {
			return nil, err
		}
		logger.Info("Database migrations applied")
	}

	postgres, err := database.NewPostgres(ctx, cfg.Postgres.DSN(), cfg.Postgres.Pool())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	i.postgres = postgres

	redis, err := database.NewRedis(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		i.abort(ctx)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	i.redis = redis

	meterProvider, metricsHandler, err := observability.InitTelemetry(serviceName)
	if err != nil {
		i.abort(ctx)
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	i.meterProvider = meterProvider
	i.metricsHandler = metricsHandler

	s3Storage, err := storage.NewS3Storage(ctx, storage.Config{
		Region:        cfg.S3.Region,
		Endpoint:      cfg.S3.Endpoint,
		AccessKey:     cfg.S3.AccessKey,
		SecretKey:     cfg.S3.SecretKey,
		Bucket:        cfg.S3.Bucket,
		PublicBaseURL: cfg.S3.PublicBaseURL,
	})
	if err != nil {
		i.abort(ctx)
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	i.storage = s3Storage

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		User:     cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})
	i.dispatcher = mailer.NewDispatcher(sender, logger, cfg.SMTP.Workers, cfg.SMTP.QueueSize)
	i.dispatcher.Start()

	return i, nil
}

func (i *infrastructure) Postgres() *database.Postgres {
	return i.postgres
}

func (i *infrastructure) Redis() *database.Redis {
	return i.redis
}

func (i *infrastructure) Logger() *zap.Logger {
	return i.logger
}

func (i *infrastructure) MetricsHandler() http.Handler {
	return i.metricsHandler
}

func (i *infrastructure) MeterProvider() *metric.MeterProvider {
	return i.meterProvider
}

func (i *infrastructure) Mailer() service.Mailer {
	return i.dispatcher
}

func (i *infrastructure) Storage() service.ObjectStorage {
	return i.storage
}

// abort releases what NewInfrastructure acquired before it failed
func (i *infrastructure) abort(ctx context.Context) {
	if i.postgres != nil {
		_ = i.postgres.Close()
	}
	if i.redis != nil {
		_ = i.redis.Close()
	}
	if i.meterProvider != nil {
		_ = observability.Shutdown(ctx, i.meterProvider, i.logger)
	}
}

// Shutdown drains queued mail before the connections are closed
func (i *infrastructure) Shutdown(ctx context.Context) error {
	mailErr := i.dispatcher.Shutdown(ctx)

	errs := make(chan error, 3)

	go func() { errs <- i.postgres.Close() }()
	go func() { errs <- i.redis.Close() }()
	go func() { errs <- observability.Shutdown(ctx, i.meterProvider, i.logger) }()

	return errors.Join(mailErr, <-errs, <-errs, <-errs)
}
