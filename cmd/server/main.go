package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/vasapolrittideah/stories-api/internal/config"
	"github.com/vasapolrittideah/stories-api/internal/handler"
	"github.com/vasapolrittideah/stories-api/internal/middleware"
	"github.com/vasapolrittideah/stories-api/internal/repository"
	"github.com/vasapolrittideah/stories-api/internal/usecase"
	"github.com/vasapolrittideah/stories-api/shared/auth"
	"github.com/vasapolrittideah/stories-api/shared/mailer"
	"github.com/vasapolrittideah/stories-api/shared/ratelimit"
	"github.com/vasapolrittideah/stories-api/shared/storage"
	"github.com/vasapolrittideah/stories-api/shared/validation"
)

const connectTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load(&logger)
	logger = newLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, &logger); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	} else {
		logger = zerolog.New(os.Stdout)
	}

	return logger.Level(level).With().Timestamp().Logger()
}

func run(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) error {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URL))
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := client.Disconnect(dctx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return err
	}
	logger.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	db := client.Database(cfg.Mongo.Database)

	var limiter ratelimit.Limiter = ratelimit.Noop{}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return err
		}
		limiter = ratelimit.NewRedisLimiter(rdb, "password-reset", cfg.Reset.Limit, cfg.Reset.Window)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("password reset rate limiting enabled")
	}

	userRepo := repository.NewUserMongoRepository(ctx, logger, db)
	otpRepo := repository.NewOTPMongoRepository(ctx, logger, db)
	profileRepo := repository.NewProfileMongoRepository(ctx, logger, db)
	storyRepo := repository.NewStoryMongoRepository(ctx, logger, db)
	notificationRepo := repository.NewNotificationMongoRepository(ctx, logger, db)

	tokens := auth.NewJWTAuthenticator(cfg.Token.Secret, cfg.Token.Issuer, cfg.Token.ExpiresIn)
	files := storage.NewLocal(cfg.Upload.Dir, cfg.Upload.MaxBytes)

	v, err := validation.New()
	if err != nil {
		return err
	}

	deps := handler.Dependencies{
		Auth: usecase.NewAuthUsecase(userRepo, tokens),
		PasswordReset: usecase.NewPasswordResetUsecase(
			userRepo, otpRepo, mailer.NewMailer(cfg.Mailer), limiter, &cfg.OTP, logger,
		),
		Users:          usecase.NewUserUsecase(userRepo, profileRepo, files, logger),
		Stories:        usecase.NewStoryUsecase(storyRepo, userRepo, notificationRepo, files, logger),
		Notifications:  usecase.NewNotificationUsecase(notificationRepo),
		Validator:      v,
		Logger:         logger,
		MaxUploadBytes: files.MaxBytes(),
		UploadDir:      cfg.Upload.Dir,
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
	}

	srv := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      handler.NewRouter(deps, middleware.Authorize(tokens, userRepo, logger)),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTP.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down http server")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()

	return srv.Shutdown(shutdownCtx)
}
