package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danmuck/edgecli/internal/auth"
	"github.com/danmuck/edgecli/internal/console"
	"github.com/danmuck/edgecli/internal/diag"
	"github.com/danmuck/edgecli/internal/logging"
	"github.com/danmuck/edgecli/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const httpShutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a console with the diagnostics command pack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServeConfig(configPath)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file")
	return cmd
}

// runServe owns the full console lifecycle and returns once ctx is done.
func runServe(ctx context.Context, cfg serveConfig) error {
	c := console.New()
	p := cfg.Console
	p.ServerInit = func(arg any) error {
		logging.Infof("consolectl.serve server init host=%v", arg)
		return nil
	}
	p.ServerInitArg = p.Hostname
	p.ServerTerm = func(arg any) error {
		logging.Infof("consolectl.serve server term host=%v", arg)
		return nil
	}
	p.ServerTermArg = p.Hostname

	if err := c.Init(p); err != nil {
		return err
	}
	defer func() {
		if err := c.Term(); err != nil {
			logging.Warnf("consolectl.serve term err=%v", err)
		}
	}()

	err := diag.Register(c, diag.Options{
		Version:     version,
		AllowExec:   cfg.AllowExec,
		ExecTimeout: cfg.ExecTimeout,
	})
	if err != nil {
		return err
	}
	if err := c.Start(); err != nil {
		return err
	}
	logging.Infof("consolectl.serve listening addr=%q", c.Addr())

	srv := startMetricsServer(cfg, c)

	<-ctx.Done()
	logging.Infof("consolectl.serve shutting down")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), httpShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Warnf("consolectl.serve metrics shutdown err=%v", err)
		}
		cancel()
	}
	if err := c.Stop(); err != nil {
		return fmt.Errorf("stop console: %w", err)
	}
	return nil
}

// startMetricsServer serves /health and /metrics when metrics_addr is set.
func startMetricsServer(cfg serveConfig, c *console.Console) *http.Server {
	if cfg.MetricsAddr == "" {
		return nil
	}
	gin.SetMode(gin.ReleaseMode)
	host := cfg.Console.Hostname
	rc := observability.RouterConfig{
		Host:    host,
		Origins: cfg.CORSOrigins,
		Logger:  log.Logger,
		Status: func() gin.H {
			body := gin.H{"state": c.State().String(), "version": version}
			if caps, err := c.Capabilities(); err == nil {
				body["user_commands"] = caps.UserCommands
				body["max_user_commands"] = caps.MaxUserCommands
			}
			return body
		},
	}
	if cfg.MetricsToken != "" {
		rc.MetricsAuth = auth.StaticToken{Token: cfg.MetricsToken}
	}
	router := observability.NewRouter(rc)
	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Errorf("consolectl.serve metrics listen addr=%q err=%v", cfg.MetricsAddr, err)
		}
	}()
	logging.Infof("consolectl.serve metrics addr=%q", cfg.MetricsAddr)
	return srv
}
