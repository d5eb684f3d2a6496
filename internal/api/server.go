package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/babylonlabs-io/staking-ledger/internal/config"
)

type Server struct {
	httpServer *http.Server
}

func NewRouter(handlers *Handlers) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(traceMiddleware)
	r.Use(observeMiddleware)

	r.Get("/healthcheck", registerHandler(handlers.HealthCheck))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/transfer", registerHandler(handlers.Transfer))
		r.Post("/stake", registerHandler(handlers.CreateStake))
		r.Post("/unstake", registerHandler(handlers.RemoveStake))
		r.Post("/rewards/distribute", registerHandler(handlers.DistributeRewards))
		r.Post("/rewards/withdraw", registerHandler(handlers.WithdrawReward))

		r.Get("/accounts/{address}", registerHandler(handlers.GetAccount))
		r.Get("/stakeholders", registerHandler(handlers.GetStakeholders))
		r.Get("/totals", registerHandler(handlers.GetTotals))
		r.Get("/events/ws", handlers.StreamEvents)
	})

	return r
}

func NewServer(cfg *config.ServerConfig, service LedgerService) *Server {
	handlers := NewHandlers(service, HeaderCallerResolver{})

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address(),
			Handler:      NewRouter(handlers),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Ctx(ctx).Info().Msgf("Starting api server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.httpServer.WriteTimeout)
	defer cancel()

	log.Ctx(ctx).Info().Msg("Shutting down api server")
	return s.httpServer.Shutdown(shutdownCtx)
}
