package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tokengate/tokengate/internal/api"
	"github.com/tokengate/tokengate/internal/audit"
	"github.com/tokengate/tokengate/internal/config"
	"github.com/tokengate/tokengate/internal/core"
	"github.com/tokengate/tokengate/internal/githubapp"
	"github.com/tokengate/tokengate/internal/identity"
	"github.com/tokengate/tokengate/internal/store"
	"github.com/tokengate/tokengate/internal/tasks"
)

const tokenCleanupInterval = 15 * time.Minute

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the tokengate server",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log.Info().Msg("Initializing GitHub App gateway...")
		gateway, err := githubapp.New(cmd.Context(), cfg.GitHub)
		if err != nil {
			return fmt.Errorf("initializing github app gateway: %w", err)
		}

		log.Info().Msg("Initializing identity verifier...")
		verifier, err := identity.Build(cmd.Context(), cfg.Verifier)
		if err != nil {
			return fmt.Errorf("building identity verifier: %w", err)
		}
		allowList := identity.NewSubjectAllowList(cfg.Subjects)

		auditor, err := buildAuditor(cfg.Audit)
		if err != nil {
			return fmt.Errorf("building auditor: %w", err)
		}
		defer func() {
			if err := auditor.Close(); err != nil {
				log.Error().Err(err).Msg("failed to close auditor")
			}
		}()

		tokenStore := store.NewInMemoryTokenStore()

		taskManager := tasks.NewManager()
		taskManager.Register(tasks.TokenCleanupTaskName, tokenCleanupInterval,
			tasks.NewTokenCleanupTask(tokenStore))

		srv := api.NewServer(verifier, allowList, gateway, auditor, tokenStore, taskManager)

		server := &http.Server{
			Addr:    addr,
			Handler: srv.Routes([]byte(cfg.Admin.SigningKey)),
		}

		go func() {
			log.Info().Msgf("Starting server on %s...", addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal().Err(err).Msg("Server crashed")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		log.Info().Msg("Server exited")
		return nil
	},
}

func buildAuditor(cfg config.AuditConfig) (core.Auditor, error) {
	if !cfg.Enabled {
		return audit.NewNoopAuditor(), nil
	}
	switch cfg.Type {
	case "memory":
		return audit.NewInMemoryAuditor(), nil
	case "file":
		return audit.NewFileAuditor(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown audit type %q", cfg.Type)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "address to listen on")
}
