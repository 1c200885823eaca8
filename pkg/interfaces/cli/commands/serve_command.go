package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/repair-configurator/pkg/interfaces/httpapi"
)

// ServeConfig holds configuration for the serve command
type ServeConfig struct {
	Config
	Addr       string
	SessionTTL time.Duration
}

// minPruneInterval bounds how often idle sessions are swept
const minPruneInterval = time.Second

// ServeCommand exposes configurator sessions over HTTP
type ServeCommand struct {
	config ServeConfig
}

// NewServeCommand creates a new serve command
func NewServeCommand(config ServeConfig) *ServeCommand {
	if config.SessionTTL <= 0 {
		config.SessionTTL = 30 * time.Minute
	}
	return &ServeCommand{config: config}
}

// Execute serves until ctx is cancelled, then shuts down gracefully
func (c *ServeCommand) Execute(ctx context.Context) error {
	runtime, err := Bootstrap(ctx, c.config.Config)
	if err != nil {
		return err
	}
	defer runtime.Logger.Sync()

	addr := c.config.Addr
	if addr == "" {
		addr = runtime.Settings.HTTP.Addr
	}

	if runtime.Settings.Log.Mode == "production" || runtime.Settings.Log.Mode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	sessions := httpapi.NewSessionStore(runtime.Repo, runtime.Settings.ConfiguratorConfig(), runtime.Events, runtime.Logger)
	router := httpapi.NewRouter(httpapi.RouterConfig{
		Sessions:       sessions,
		Booking:        runtime.Booking,
		AllowedOrigins: runtime.Settings.HTTP.AllowedOrigins,
		Logger:         runtime.Logger,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if c.config.Verbose {
		fmt.Printf("🌐 Listening on %s\n", addr)
	}
	runtime.Logger.Info("http server starting", "addr", addr, "session_ttl", c.config.SessionTTL.String())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		runtime.Logger.Info("http server stopping")
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(c.pruneInterval())
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				sessions.Prune(c.config.SessionTTL)
			}
		}
	})

	return g.Wait()
}

// pruneInterval sweeps twice per TTL, never more than once a second
func (c *ServeCommand) pruneInterval() time.Duration {
	return max(c.config.SessionTTL/2, minPruneInterval)
}
