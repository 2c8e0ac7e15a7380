package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"adventure_shop/config"
	"adventure_shop/handlers"
	"adventure_shop/relay"
	"adventure_shop/session"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat UI and the relay endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Addr = addr
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")
	return cmd
}

// NewMux wires the relay endpoint, the chat UI and the metrics endpoint.
func NewMux(upstream relay.Upstream, ctrl *session.Controller, mgr *session.Manager, startHP int) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle(relay.EndpointPath, relay.NewHandler(upstream))
	mux.Handle("GET /metrics", promhttp.Handler())

	h := &handlers.Handler{
		Controller: ctrl,
		Manager:    mgr,
		StartHP:    startHP,
	}
	h.Routes(mux)
	return mux
}

func serve(ctx context.Context, c *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	relayURL := c.RelayEndpoint()
	ctrl := session.NewController(relay.NewClient(relayURL, nil), c.SessionOptions())
	mgr := session.NewManager(c.SessionTTL)
	go mgr.Run(ctx, time.Minute)

	server := &http.Server{
		Addr:              c.Addr,
		Handler:           NewMux(c.NewUpstream(), ctrl, mgr, c.StartHP),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", c.Addr).Str("relay_url", relayURL).Str("upstream", c.Upstream).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "server failed")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
