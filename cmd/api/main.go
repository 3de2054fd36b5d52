package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/extraction"
	"github.com/joshu-sajeev/cookbook/internal/invite"
	"github.com/joshu-sajeev/cookbook/internal/queue"
	"github.com/joshu-sajeev/cookbook/internal/recipe"
	"github.com/joshu-sajeev/cookbook/internal/storage/objects"
	"github.com/joshu-sajeev/cookbook/internal/storage/postgres"
	"github.com/joshu-sajeev/cookbook/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("api.exit", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	appCfg, err := config.LoadApp(ctx)
	if err != nil {
		return err
	}
	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		return err
	}

	db, err := postgres.ConnectDB(ctx, dbCfg)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := postgres.Migrate(ctx, sqlDB); err != nil {
		return err
	}

	images, err := objects.New(appCfg)
	if err != nil {
		return err
	}
	if err := images.EnsureBucket(ctx); err != nil {
		// uploads fail until storage is reachable; everything else still works
		logger.Warn("api.storage.unavailable", "error", err)
	}

	extractor := extraction.NewClient(appCfg.ExtractionURL, appCfg.ExtractionTimeout, logger)

	queueRepo := postgres.NewQueueRepository(db)
	recipeRepo := postgres.NewRecipeRepository(db)
	inviteRepo := postgres.NewInviteRepository(db)

	consumer := worker.NewConsumer(queueRepo, recipeRepo, extractor, appCfg.LeaseDuration, logger)
	recipeSvc := recipe.NewRecipeService(recipeRepo, images, extractor, logger)
	defer recipeSvc.Wait()

	admins := config.NewAdminSet(appCfg.AdminEmails)
	router := newRouter(logger, appCfg, admins,
		queue.NewQueueHandler(queue.NewQueueService(queueRepo, consumer, logger)),
		invite.NewInviteHandler(invite.NewInviteService(inviteRepo, appCfg.WaitlistInviteTTL, appCfg.GroupInviteTTL, logger), admins),
		recipe.NewRecipeHandler(recipeSvc),
	)

	srv := &http.Server{
		Addr:              appCfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api.listen", "addr", appCfg.HTTPAddr)
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

	logger.Info("api.shutdown")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
