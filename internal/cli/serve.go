package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"composition-converter/internal/handlers"
	"composition-converter/internal/logging"
	"composition-converter/internal/metrics"
	"composition-converter/internal/startup"
)

const (
	shutdownTimeout   = 30 * time.Second
	collectorInterval = time.Minute
)

func newServeCmd(a *app) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("port") {
				a.cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default from PORT, else 8080)")
	return cmd
}

// serve runs the API until ctx is cancelled, then shuts down gracefully.
func (a *app) serve(ctx context.Context) error {
	startTime := time.Now()
	startup.LogConfig(a.cfg)

	journal := a.openJournal(ctx)
	defer closeJournal(journal)
	if journal != nil {
		startup.LogHistoryInit(time.Since(startTime))
	}

	// The collector outlives ctx so it keeps reporting during shutdown, and
	// must stop before the journal closes.
	collectCtx, cancelCollector := context.WithCancel(context.WithoutCancel(ctx))
	collectorDone := make(chan struct{})
	stopCollector := func() {
		cancelCollector()
		<-collectorDone
	}
	defer stopCollector()
	if journal != nil {
		go func() {
			defer close(collectorDone)
			metrics.NewCollector(journal, collectorInterval).Run(collectCtx)
		}()
	} else {
		close(collectorDone)
	}

	guard := startGuard()
	defer guard.Stop()

	router := handlers.NewRouter(handlers.New(journal, guard))
	startup.LogHTTPRoutes(router, a.cfg.LogHealthChecks)

	listener, err := net.Listen("tcp", ":"+a.cfg.Port)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           handlers.Wrap(router, a.cfg.LogHealthChecks),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()
	startup.LogServerStarted(startup.ServerConfig{Port: a.cfg.Port, StartupDuration: time.Since(startTime)})

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	startup.LogShutdownInitiated(context.Cause(ctx).Error())

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Warn("Server error: %v", err)
	}

	stopCollector()
	if journal != nil {
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownComplete()
	return nil
}
