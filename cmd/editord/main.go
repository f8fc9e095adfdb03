// Package main provides the HTTP server backing the template editor
// frontend.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/genconf/genconf/editor"
	"github.com/genconf/genconf/log"
	"github.com/genconf/genconf/version"
)

func main() {
	logCfg := log.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "editord",
		Short: "Serve the template editing HTTP API",
		Long: `editord exposes the file management API used by the template editor
frontend: listing, reading, saving, renaming and deleting files under one
root directory. Schema documents are validated on save, and the running
log can be tailed over HTTP.`,
		Version:       version.String(),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(logCfg)
		},
	}

	logCfg.RegisterFlags(rootCmd.Flags())

	completionErr := logCfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(logCfg *log.Config) error {
	// A .env beside the working directory is honored when present.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	// Log lines go to stderr and to the publisher feeding /api/logs.
	pub := log.NewPublisher()
	defer pub.Close()

	handler, err := logCfg.NewHandler(io.MultiWriter(os.Stderr, pub))
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(handler))

	cfg, err := editor.LoadConfig()
	if err != nil {
		return err
	}

	svc, err := editor.NewService(afero.NewOsFs(), cfg.RootPath)
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	router := editor.NewRouter(svc, cfg, pub)

	slog.Info("editor listening",
		slog.String("addr", cfg.Addr),
		slog.String("root", cfg.RootPath),
	)

	return router.Run(cfg.Addr)
}
