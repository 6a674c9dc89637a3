package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/aretw0/galvani"
	"github.com/aretw0/galvani/internal/config"
	httpAdapter "github.com/aretw0/galvani/pkg/adapters/http"
	"github.com/aretw0/galvani/pkg/observability"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the compile server",
	Long: `Starts an HTTP server that compiles model files posted to /compile and serves
the stored layouts under /layouts. Prometheus metrics are exposed at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		compileRate, _ := cmd.Flags().GetFloat64("compile-rate")
		opts := storageFlags(cmd)

		st, err := openStorage(opts)
		if err != nil {
			return err
		}
		defer st.Close()

		var handlerOpts []httpAdapter.Option
		if compileRate > 0 {
			handlerOpts = append(handlerOpts, httpAdapter.WithCompileRateLimit(rate.Limit(compileRate), max(1, int(compileRate))))
		}
		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           newServeHandler(st, observability.NewMetrics(), handlerOpts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting compile server", "addr", srv.Addr, "persistent", opts.Persistent())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			// Give outstanding compilations a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
				return srv.Close()
			}
			logger.Info("compile server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Float64("compile-rate", 0, "Maximum compile requests per second; 0 means unlimited")
	addStorageFlags(serveCmd)
}

// newServeHandler wires the HTTP adapter to the default catalog. Every
// compilation goes through the shared storage and records metrics.
func newServeHandler(st *storage, metrics *observability.Metrics, opts ...httpAdapter.Option) http.Handler {
	cat := defaultCatalog()
	compile := func(ctx context.Context, file *config.ModelFile) (*galvani.Result, error) {
		opts := append([]galvani.Option{
			galvani.WithLogger(logger),
			galvani.WithLifecycleHooks(metrics.Hooks(galvani.Hooks{})),
		}, st.Options()...)
		p, err := file.Pipeline(cat, opts...)
		if err != nil {
			return nil, err
		}
		return p.Compile(ctx)
	}
	base := []httpAdapter.Option{
		httpAdapter.WithMetricsHandler(metrics.Handler()),
		httpAdapter.WithLogger(logger),
	}
	return httpAdapter.NewHandler(compile, st.Store, append(base, opts...)...)
}
