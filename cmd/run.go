package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khanhnv2901/sitecheck-bot/internal/application"
	"github.com/khanhnv2901/sitecheck-bot/internal/domain/access"
	"github.com/khanhnv2901/sitecheck-bot/internal/infrastructure/telegram"
	sharedErrors "github.com/khanhnv2901/sitecheck-bot/internal/shared/errors"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Connect to Telegram and answer website checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		cfg := appCtx.Config
		logger := appCtx.Logger
		shutdownTimeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

		if cfg.Token == "" {
			return fmt.Errorf("%w: set BOT_TOKEN or bot_token in the config file", sharedErrors.ErrMissingToken)
		}

		container := application.NewContainer(cfg.Settings(), logger)
		if container.Guard.Size() == 0 {
			logger.Warn("allow-list is empty, every request will be rejected")
		}

		client, err := telegram.New(cfg.Token, cfg.SendRate, debug)
		if err != nil {
			return err
		}
		router := container.Router(client)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.MetricsAddr != "" {
			go func() {
				if err := container.Metrics.Serve(ctx, cfg.MetricsAddr, logger); err != nil {
					logger.Error("metrics listener stopped", zap.Error(err))
				}
			}()
		}

		logStartup(logger, client.Username(), container.Guard, cfg)
		fmt.Printf("%s Bot @%s polling for updates (workers: %d)\n", colorInfo("→"), client.Username(), cfg.Workers)
		fmt.Printf("%s Press Ctrl+C to gracefully shutdown\n", colorInfo("→"))

		poller := telegram.NewPoller(router, cfg.Workers, logger)
		done := make(chan struct{})
		go func() {
			defer close(done)
			poller.Run(ctx, client.Updates(cfg.PollTimeout))
		}()

		select {
		case <-done:
			return nil
		case <-ctx.Done():
		}

		fmt.Printf("\n%s Received shutdown signal, waiting for in-flight requests...\n", colorInfo("→"))
		client.Stop()

		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			return fmt.Errorf("shutdown timed out after %s with requests still running", shutdownTimeout)
		}

		fmt.Printf("%s Shutdown complete\n", colorSuccess("✓"))
		return nil
	},
}

// logStartup records who may use the bot and how it will run.
func logStartup(logger *zap.Logger, username string, guard *access.Guard, cfg *BotConfig) {
	logger.Info("bot started",
		zap.String("username", username),
		zap.Int64s("allowed_ids", guard.IDs()),
		zap.Int("workers", cfg.Workers),
		zap.Bool("fanout", cfg.Fanout),
		zap.String("metrics_addr", cfg.MetricsAddr),
	)
}

func init() {
	runCmd.Flags().IntVar(&botConfig.Workers, "workers", botConfig.Workers, "Maximum number of updates handled concurrently")
	runCmd.Flags().IntVar(&botConfig.SendRate, "send-rate", botConfig.SendRate, "Outbound Telegram API calls per second (0 = unlimited)")
	runCmd.Flags().IntVar(&botConfig.PollTimeout, "poll-timeout", botConfig.PollTimeout, "Long-poll timeout in seconds")
	runCmd.Flags().StringVar(&botConfig.MetricsAddr, "metrics-addr", botConfig.MetricsAddr, "Address for the /metrics listener (empty = disabled)")
	runCmd.Flags().Duration("shutdown-timeout", 30*time.Second, "Graceful shutdown timeout")
}
