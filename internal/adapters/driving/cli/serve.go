package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ampdesk/ampdesk/internal/adapters/driving/httpapi"
	"github.com/ampdesk/ampdesk/internal/adapters/driving/translatorapi"
	"github.com/ampdesk/ampdesk/internal/adapters/driving/watch"
	"github.com/ampdesk/ampdesk/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP services",
}

var serveBotCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the support-bot API",
	RunE:  runServeBot,
}

var serveTranslatorCmd = &cobra.Command{
	Use:   "translator",
	Short: "Run the translator API",
	RunE:  runServeTranslator,
}

func init() {
	serveCmd.AddCommand(serveBotCmd)
	serveCmd.AddCommand(serveTranslatorCmd)
	rootCmd.AddCommand(serveCmd)
}

func runServeBot(cmd *cobra.Command, _ []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if application.Config.Watch.Enabled {
		watcher := watch.New(application.Ingest, application.Config.Watch.Dir, 0)
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("inbox watcher stopped: %v", err)
			}
		}()
	}

	server := httpapi.NewServer(
		application.Ingest,
		application.KB,
		application.Chat,
		application.Config.UploadsDir(),
		version,
	)
	logger.Info("support-bot API listening on %s", application.Config.Server.BotAddr)
	err = httpapi.Run(ctx, application.Config.Server.BotAddr, server.Handler())
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func runServeTranslator(cmd *cobra.Command, _ []string) error {
	application, err := loadApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := translatorapi.NewServer(application.Translate, version)
	logger.Info("translator API listening on %s", application.Config.Server.TranslatorAddr)
	err = httpapi.Run(ctx, application.Config.Server.TranslatorAddr, server.Handler())
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
