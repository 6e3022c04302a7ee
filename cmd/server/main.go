package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"culina-go/config"
	"culina-go/internal/activity"
	"culina-go/internal/api"
	"culina-go/internal/auth"
	"culina-go/internal/cache"
	"culina-go/internal/comment"
	"culina-go/internal/follow"
	awsinfra "culina-go/internal/infrastructure/aws"
	dynamostore "culina-go/internal/infrastructure/aws/dynamodb"
	"culina-go/internal/like"
	"culina-go/internal/post"
	"culina-go/internal/profile"
	"culina-go/internal/query"
	"culina-go/internal/recipe"
	"culina-go/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	setupLogger(cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	awsCfg, err := awsinfra.NewAWSConfig(ctx, cfg.AWSRegion)
	if err != nil {
		return fmt.Errorf("aws config: %w", err)
	}

	store := dynamostore.NewStore(awsCfg.DynamoDB, cfg.TablePrefix)
	if err := store.EnsureTables(ctx); err != nil {
		return fmt.Errorf("ensure tables: %w", err)
	}

	files := storage.NewService(awsCfg.S3, cfg.ImagesBucket, cfg.MediaBaseURL)

	broker := activity.NewBroker()
	profiles := profile.NewService(store)
	authSvc := auth.NewService(store, profiles, []byte(cfg.JWTSecret), cfg.JWTExpiration)

	queries := query.NewClient(cache.New(), query.Services{
		Posts:    post.NewService(store, profiles, broker),
		Recipes:  recipe.NewService(store, profiles, broker),
		Profiles: profiles,
		Comments: comment.NewService(store, broker),
		Likes:    like.NewService(store, broker),
		Follows:  follow.NewService(store, profiles, broker),
	})

	handler := api.NewHandler(cfg.Environment, api.NewUserStore(), broker, authSvc, queries, files)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.RequestLogger(authSvc.Middleware(handler.Routes())),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func setupLogger(env string) {
	var handler slog.Handler
	if env == "production" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	}
	slog.SetDefault(slog.New(handler))
}
