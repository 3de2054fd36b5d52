package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/joshu-sajeev/cookbook/internal/config"
	"github.com/joshu-sajeev/cookbook/internal/extraction"
	"github.com/joshu-sajeev/cookbook/internal/invite"
	"github.com/joshu-sajeev/cookbook/internal/storage/postgres"
	"github.com/joshu-sajeev/cookbook/internal/worker"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "cookbook-worker: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookbook-worker",
		Short: "Cookbook maintenance CLI",
		Long: `cookbook-worker runs the image queue consumer outside the HTTP trigger,
applies database migrations, and issues invitation and activation tokens.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newProcessCmd(),
		newSweepCmd(),
		newMigrateCmd(),
		newIssueInviteCmd(),
		newIssueActivationCmd(),
	)
	return cmd
}

func newProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process",
		Short: "Process one batch of pending recipe images",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB(db)

			result, err := newConsumer(cfg, db).ProcessBatch(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Return items with expired processing leases to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB(db)

			n, err := newConsumer(cfg, db).Sweep(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd, map[string]int64{"reclaimed": n})
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dbCfg, err := postgres.LoadConfigFromEnv(ctx)
			if err != nil {
				return err
			}

			sqlDB, err := sql.Open("postgres", dbCfg.DSN())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer sqlDB.Close()

			if err := sqlDB.PingContext(ctx); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}
			return postgres.Migrate(ctx, sqlDB)
		},
	}
}

func newIssueInviteCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "issue-invite",
		Short: "Issue a waitlist invitation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB(db)

			issued, err := newInviteService(cfg, db).IssueWaitlistInvitation(ctx, email)
			if err != nil {
				return err
			}
			return printJSON(cmd, issued)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Invitee email address")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newIssueActivationCmd() *cobra.Command {
	var email, metadata string
	cmd := &cobra.Command{
		Use:   "issue-activation",
		Short: "Issue a purchase activation token",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer closeDB(db)

			var meta []byte
			if metadata != "" {
				meta = []byte(metadata)
			}
			issued, err := newInviteService(cfg, db).IssuePurchaseActivation(ctx, email, meta)
			if err != nil {
				return err
			}
			return printJSON(cmd, issued)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Purchaser email address")
	cmd.Flags().StringVar(&metadata, "metadata", "", "Purchase metadata as a JSON object")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func connect(ctx context.Context) (*config.App, *gorm.DB, error) {
	appCfg, err := config.LoadApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	dbCfg, err := postgres.LoadConfigFromEnv(ctx)
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.ConnectDB(ctx, dbCfg)
	if err != nil {
		return nil, nil, err
	}
	return appCfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func newConsumer(cfg *config.App, db *gorm.DB) *worker.Consumer {
	logger := slog.Default()
	return worker.NewConsumer(
		postgres.NewQueueRepository(db),
		postgres.NewRecipeRepository(db),
		extraction.NewClient(cfg.ExtractionURL, cfg.ExtractionTimeout, logger),
		cfg.LeaseDuration,
		logger,
	)
}

func newInviteService(cfg *config.App, db *gorm.DB) *invite.InviteService {
	return invite.NewInviteService(postgres.NewInviteRepository(db), cfg.WaitlistInviteTTL, cfg.GroupInviteTTL, slog.Default())
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Join(errors.New("write output"), err)
	}
	return nil
}
