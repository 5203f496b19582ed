package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/social-service/internal/config"
	"github.com/prperemyshlev/social-service/internal/handler"
	"github.com/prperemyshlev/social-service/internal/repository"
	"github.com/prperemyshlev/social-service/internal/service"
	"github.com/prperemyshlev/social-service/internal/utils"
	"github.com/prperemyshlev/social-service/pkg/observability"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	infra     Infrastructure
	config    *config.Config
	router    *gin.Engine
	server    *http.Server
	blacklist *service.TokenBlacklistService
}

type handlers struct {
	auth    *handler.AuthHandler
	user    *handler.UserHandler
	post    *handler.PostHandler
	comment *handler.CommentHandler
	like    *handler.LikeHandler
}

func NewApp(infra Infrastructure, cfg *config.Config) (*App, error) {
	logger := infra.Logger()
	repos := repository.NewRepositories(infra.Postgres())

	tokenManager, err := utils.NewTokenManager(utils.TokenManagerConfig{
		Key:                cfg.Token.Key,
		Issuer:             cfg.Token.Issuer,
		Audience:           cfg.Token.Audience,
		AccessTokenExpiry:  cfg.Token.AccessExpiry.Duration,
		RefreshTokenExpiry: cfg.Token.RefreshExpiry.Duration,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create token manager: %w", err)
	}

	metrics, err := observability.NewAuthMetrics(infra.MeterProvider().Meter(serviceName))
	if err != nil {
		return nil, fmt.Errorf("failed to create auth metrics: %w", err)
	}

	blacklistService := service.NewTokenBlacklistService(repos.Blacklist, infra.Redis(), logger)
	healthChecker := NewHealthChecker(infra)

	authService := service.NewAuthService(
		repos,
		tokenManager,
		blacklistService,
		infra.Mailer(),
		infra.Storage(),
		metrics,
		logger,
		cfg.Security.BCryptCost,
	)

	h := handlers{
		auth:    handler.NewAuthHandler(authService),
		user:    handler.NewUserHandler(service.NewUserService(repos, logger)),
		post:    handler.NewPostHandler(service.NewPostService(repos, infra.Storage(), logger)),
		comment: handler.NewCommentHandler(service.NewCommentService(repos)),
		like:    handler.NewLikeHandler(service.NewLikeService(repos)),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(handler.LoggerMiddleware(logger))
	router.Use(handler.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.CORS.AllowedMethods, cfg.CORS.AllowedHeaders))

	setupRoutes(router, h, authService, healthChecker, infra.MetricsHandler())

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout.Duration,
		WriteTimeout: cfg.Server.WriteTimeout.Duration,
	}

	return &App{
		infra:     infra,
		config:    cfg,
		router:    router,
		server:    srv,
		blacklist: blacklistService,
	}, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func setupRoutes(
	router *gin.Engine,
	h handlers,
	authService service.AuthService,
	healthChecker *HealthChecker,
	metricsHandler http.Handler,
) {
	router.GET("/metrics", observability.PrometheusHandler(metricsHandler))
	router.GET("/health", healthChecker.Handler)

	requireAuth := handler.AuthMiddleware(authService)

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.auth.Signup)
			auth.POST("/signin", h.auth.Signin)
			auth.PUT("/verify", h.auth.Verify)
			auth.PUT("/resend-verification-code", h.auth.ResendVerificationCode)
			auth.PUT("/reset-password", h.auth.ResetPassword)
			auth.POST("/refresh", h.auth.Refresh)

			me := auth.Group("/me", requireAuth)
			{
				me.GET("", h.auth.Me)
				me.PUT("/change-password", h.auth.ChangePassword)
				me.PUT("/edit-profile", h.auth.EditProfile)
				me.POST("/profile-picture", h.auth.UpdateProfilePicture)
				me.DELETE("/remove-profile-picture", h.auth.RemoveProfilePicture)
				me.GET("/followers", h.auth.MyFollowers)
				me.GET("/following", h.auth.MyFollowing)
			}
		}

		user := api.Group("/user", requireAuth)
		{
			user.GET("/:userId", h.user.GetUser)
			user.GET("/followers/:userId", h.user.Followers)
			user.GET("/following/:userId", h.user.Following)
			user.GET("/posts/:userId", h.user.Posts)
			user.POST("/follow/:userId", h.user.Follow)
			user.POST("/unfollow/:userId", h.user.Unfollow)
		}

		api.GET("/search", requireAuth, h.user.Search)

		post := api.Group("/post", requireAuth)
		{
			post.POST("", h.post.Create)
			post.GET("/:postId", h.post.Get)
			post.PUT("/:postId", h.post.Update)
			post.DELETE("/:postId", h.post.Delete)
		}

		comment := api.Group("/comment", requireAuth)
		{
			comment.POST("", h.comment.Create)
			comment.GET("", h.comment.List)
			comment.GET("/:commentId", h.comment.Get)
			comment.PUT("/:commentId", h.comment.Update)
			comment.DELETE("/:commentId", h.comment.Delete)
		}

		like := api.Group("/like", requireAuth)
		{
			like.POST("", h.like.Like)
			like.DELETE("", h.like.Unlike)
			like.GET("/all", h.like.List)
		}
	}
}

func (a *App) Run(ctx context.Context) error {
	errChan := make(chan error, 1)
	logger := a.infra.Logger()

	pruneCtx, stopPruner := context.WithCancel(ctx)
	defer stopPruner()
	if interval := a.config.Blacklist.PruneInterval.Duration; interval > 0 {
		go func() {
			_ = a.blacklist.RunPruner(pruneCtx, interval)
		}()
	}

	go func() {
		logger.Info("Application starting",
			zap.String("host", a.config.Server.Host),
			zap.String("port", a.config.Server.Port),
		)

		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", zap.Error(err))
			errChan <- err
		}
	}()

	var serverErr error
	select {
	case err := <-errChan:
		logger.Error("Application failed to start", zap.Error(err))
		serverErr = err
	case <-ctx.Done():
		logger.Info("Application stopped by context")
	}

	stopPruner()

	if err := a.Shutdown(); err != nil {
		if serverErr != nil {
			return errors.Join(serverErr, err)
		}
		return err
	}

	return serverErr
}

// Shutdown stops accepting requests, waits for in-flight ones and then
// releases the infrastructure.
func (a *App) Shutdown() error {
	logger := a.infra.Logger()
	logger.Info("Application shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := errors.Join(a.server.Shutdown(ctx), a.infra.Shutdown(ctx))
	if err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
		return err
	}

	logger.Info("Application exited successfully")
	return nil
}
