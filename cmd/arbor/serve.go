package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/arbor"
	httpadapter "github.com/aretw0/arbor/pkg/adapters/http"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	redisadapter "github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the Arbor engine in server mode, exposing the outline and the
fact endpoint over a JSON API. With a Redis address configured, the fact
log is replayed at startup and every accepted fact is appended to it.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (overrides config)")
	serveCmd.Flags().String("redis", "", "Redis address for the fact log (overrides config)")
}

// loggedEngine appends every accepted fact line to the fact log so a
// restarted server can replay itself back to the same state.
type loggedEngine struct {
	*arbor.Engine
	log ports.FactLog
}

func (e *loggedEngine) ApplyLine(ctx context.Context, line string) (fact domain.Fact, err error) {
	fact, err = e.Engine.ApplyLine(ctx, line)
	if err != nil {
		return fact, err
	}
	if err := e.log.Append(ctx, line); err != nil {
		return fact, fmt.Errorf("fact applied but not persisted: %w", err)
	}
	return fact, nil
}

func runServe(cmd *cobra.Command) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Listen = listen
	}
	if addr, _ := cmd.Flags().GetString("redis"); addr != "" {
		cfg.Redis.Address = addr
	}

	// Metrics are registered before the engine so the hooks see every fact,
	// including the startup replay.
	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)

	store := memory.NewStore()
	eng := newEngine(cfg, logger,
		arbor.WithStore(store),
		arbor.WithLifecycleHooks(metrics.Hooks(store.Len)),
	)

	// Fact log: Redis when configured, in-memory otherwise.
	var factLog ports.FactLog
	if cfg.Redis.Address != "" {
		opts := []redisadapter.Option{}
		if cfg.Redis.Key != "" {
			opts = append(opts, redisadapter.WithKey(cfg.Redis.Key))
		}
		rlog := redisadapter.New(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, opts...)
		defer rlog.Close()
		factLog = rlog
		logger.Info("using redis fact log", "address", cfg.Redis.Address)
	} else {
		factLog = memory.NewLog()
		logger.Warn("no redis configured, facts will not survive restarts")
	}

	applied, err := eng.ReplayLog(cmd.Context(), factLog)
	if err != nil {
		return fmt.Errorf("failed to replay fact log: %w", err)
	}
	logger.Info("fact log replayed", "facts_applied", applied, "items", eng.Len())

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", httpadapter.NewHandler(&loggedEngine{Engine: eng, log: factLog}, logger))

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		fmt.Printf("Starting Arbor Server on %s\n", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	// Channel to listen for interrupt or terminate signals.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return err

	case sig := <-shutdown:
		fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		fmt.Println("Arbor Server stopped gracefully")
		return nil
	}
}
