package main

import (
	"fmt"
	"os"
	"time"

	"product-console/internal/alert"
	"product-console/internal/client"
	"product-console/internal/config"
	"product-console/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "console",
	Short:        "Terminal console for managing the financial products catalog",
	Long:         "An interactive terminal console to list, search, create, edit and delete products exposed by the products API.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "path to a YAML config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, closeLog, err := config.NewLogger(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()

	logger.Info().
		Str("base_url", cfg.API.BaseURL).
		Int("page_size", cfg.UI.PageSize).
		Msg("starting product console")

	alerts := alert.New()
	api := client.New(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second, logger)
	app := ui.NewApp(api, alerts, cfg.UI.PageSize, logger)

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		logger.Error().Err(err).Msg("console exited with error")
		return fmt.Errorf("console error: %w", err)
	}

	logger.Info().Msg("console shut down")
	return nil
}
