package main

import (
	"context"
	"fmt"

	"github.com/hamidadj13/syncvote-api/internal/config"
	"github.com/hamidadj13/syncvote-api/internal/middleware"
	"github.com/hamidadj13/syncvote-api/internal/server"

	"github.com/spf13/cobra"
)

type ctxKey struct{}

var rootCmd = &cobra.Command{
	Use:          "syncvotectl",
	Short:        "Operator tasks for the SyncVote API",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(
		indexesCmd,
		seedCmd,
		promoteCmd,
		reconcileCmd,
	)
}

// initServer loads the configuration and connects to the stores. The server
// is stored on the command context; closeServer releases it.
func initServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	cmd.SetContext(context.WithValue(cmd.Context(), ctxKey{}, srv))
	return nil
}

func closeServer(cmd *cobra.Command, _ []string) error {
	if srv := serverFrom(cmd); srv != nil {
		return srv.Close(context.WithoutCancel(cmd.Context()))
	}
	return nil
}

func serverFrom(cmd *cobra.Command) *server.Server {
	srv, _ := cmd.Context().Value(ctxKey{}).(*server.Server)
	return srv
}
