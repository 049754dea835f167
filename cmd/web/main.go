package main

import (
	"fmt"
	"os"

	"github.com/de-tools/costseg/pkg/app"
	"github.com/de-tools/costseg/pkg/config"
	"github.com/de-tools/costseg/pkg/server"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for cost segregation reports",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (env vars prefixed with COSTSEG_ override it)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	if err := godotenv.Load(); err != nil {
		logger.Warn().Err(err).Msg("no .env file loaded")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MaxUploadBytes:  cfg.Uploads.MaxBytes,
		Dependencies: server.Dependencies{
			Reports: a.Reports,
			Metrics: a.Metrics,
		},
	})

	return api.Start()
}
