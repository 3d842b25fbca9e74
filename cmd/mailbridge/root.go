package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/mailbridge/internal/app"
	"github.com/dmitrymomot/mailbridge/internal/config"
	"github.com/dmitrymomot/mailbridge/pkg/logger"
)

// appLoader builds the application for a command invocation.
type appLoader func(cmd *cobra.Command) (*app.App, error)

func newRootCmd(load appLoader) *cobra.Command {
	root := &cobra.Command{
		Use:   "mailbridge",
		Short: "Render templated emails and send them through a transactional provider",
		Long: `mailbridge renders a named email template, merges per-template message
settings and hands the result to Mandrill, Resend or SendGrid.

Configuration is read from the environment and from dotenv files.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringSlice("env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(
		newSendCmd(load),
		newRenderCmd(load),
		newPingCmd(load),
	)
	return root
}

// loadApp reads configuration from the environment and wires the application.
func loadApp(cmd *cobra.Command) (*app.App, error) {
	envFiles, err := cmd.Flags().GetStringSlice("env-file")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		return nil, err
	}

	log := logger.NewFromConfig(cmd.ErrOrStderr(), cfg.Log, logger.TemplateExtractor)
	return app.New(cfg, log)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
