package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kubev2v/restquery/internal/config"
	"github.com/kubev2v/restquery/internal/handlers"
	"github.com/kubev2v/restquery/internal/registry"
	"github.com/kubev2v/restquery/internal/server"
	"github.com/kubev2v/restquery/internal/services"
	"github.com/kubev2v/restquery/internal/store"
)

const shutdownTimeout = 10 * time.Second

func NewRunCommand(cfg *config.Configuration) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve the declared entities over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			bindEnvironment(cmd)

			if err := validateConfiguration(cfg); err != nil {
				return err
			}

			flush, err := setupLogger(cfg)
			if err != nil {
				return err
			}
			defer flush()

			return run(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Server.HTTPPort, "server-http-port", cfg.Server.HTTPPort, "HTTP port")
	flags.StringVar(&cfg.Server.ServerMode, "server-mode", cfg.Server.ServerMode, "server mode: dev or prod")
	flags.StringVar(&cfg.Database.Driver, "db-driver", cfg.Database.Driver, "database driver: duckdb or sqlite3")
	flags.StringVar(&cfg.Database.Path, "db-path", cfg.Database.Path, "database file, :memory: for an in-memory database")
	registerSchemaFlags(flags, cfg)
	registerLogFlags(flags, cfg)

	return cmd
}

// validateConfiguration checks the flag values and that the schemas exist.
func validateConfiguration(cfg *config.Configuration) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := os.Stat(cfg.Schemas.Path); err != nil {
		return fmt.Errorf("schemas path %q: %w", cfg.Schemas.Path, err)
	}
	return nil
}

func run(ctx context.Context, cfg *config.Configuration) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zap.S().Named("run")

	reg, err := registry.Load(cfg.Schemas.Path)
	if err != nil {
		return fmt.Errorf("loading schemas: %w", err)
	}

	db, err := store.NewDB(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	st := store.NewStore(db)
	defer func() {
		if err := st.Close(); err != nil {
			logger.Errorw("closing store", "error", err)
		}
	}()

	h := handlers.New(reg.Names(), services.NewListService(reg, st), services.NewStatisticsService(reg, st))
	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		h.RegisterRoutes(router)
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("server started", "port", cfg.Server.HTTPPort, "mode", cfg.Server.ServerMode, "driver", cfg.Database.Driver)
		return srv.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Stop(shutdownCtx)
		logger.Info("server stopped")
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
