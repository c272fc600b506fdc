package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/moviecat/moviecat/connectivity"
)

const shutdownTimeout = 5 * time.Second

// services runs the connectivity probe and the optional metrics endpoint
// for the lifetime of a command
type services struct {
	cancel context.CancelFunc
	group  *errgroup.Group
}

func startServices(ctx context.Context, monitor *connectivity.Monitor, metricsListen string, logger zerolog.Logger) *services {
	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return monitor.Run(gctx)
	})

	if metricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		server := &http.Server{
			Addr:              metricsListen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			logger.Info().Str("listen", metricsListen).Msg("Serving metrics")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}

	return &services{cancel: cancel, group: g}
}

// Stop cancels the services and waits for them to exit
func (s *services) Stop() error {
	s.cancel()
	return s.group.Wait()
}
