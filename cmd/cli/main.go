package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/costseg/pkg/app"
	"github.com/de-tools/costseg/pkg/config"
	"github.com/de-tools/costseg/pkg/runtime/terminal"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	cfg, err := config.Load(os.Getenv("COSTSEG_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli := terminal.NewCLI(terminal.Options{
		Service: a.Reports,
		Output:  os.Stdout,
	})

	err = cli.Execute(ctx)
	a.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
