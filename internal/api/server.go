package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github/chapool/hd-wallet/internal/config"
	"github/chapool/hd-wallet/internal/metrics"
	"github/chapool/hd-wallet/internal/util"
	"github/chapool/hd-wallet/internal/wallet"
	"github/chapool/hd-wallet/internal/wallet/store"
)

type Router struct {
	Routes      []*echo.Route
	Root        *echo.Group
	Management  *echo.Group
	APIV1Wallet *echo.Group
}

// NodeCloser is a wallet.Node owning connections.
type NodeCloser interface {
	wallet.Node
	Close()
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire. To add a component, declare it here, add a provider in
// providers.go and list the provider in the sets of wire.go, then regenerate wire_gen.go.
//
// Components labeled as `wire:"-"` are skipped by Ready and have to be initialized after
// the InitNewServer* call.
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config   config.Server
	Store    store.Store
	Node     wallet.Node
	Registry *prometheus.Registry
	Metrics  *metrics.Wallet
	Wallet   wallet.Service
}

// newServerWithComponents is used by wire to initialize the server components.
// The node comes first so a bad node config fails before the store is opened.
func newServerWithComponents(
	cfg config.Server,
	node wallet.Node,
	st store.Store,
	registry *prometheus.Registry,
	m *metrics.Wallet,
	svc wallet.Service,
) *Server {
	return &Server{
		Config:   cfg,
		Store:    st,
		Node:     node,
		Registry: registry,
		Metrics:  m,
		Wallet:   svc,
	}
}

// NewServer returns a bare server holding only cfg.
func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

func (s *Server) Ready() bool {
	if err := util.IsStructInitialized(s); err != nil {
		log.Debug().Err(err).Msg("Server is not fully initialized")
		return false
	}

	return true
}

func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not ready")
	}

	if err := s.Echo.Start(s.Config.Echo.ListenAddress); err != nil {
		return fmt.Errorf("failed to start echo server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) []error {
	log.Warn().Msg("Shutting down server")

	var errs []error

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	if s.Store != nil {
		log.Debug().Msg("Closing wallet store")

		if err := s.Store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close wallet store")
			errs = append(errs, err)
		}
	}

	if closer, ok := s.Node.(NodeCloser); ok {
		log.Debug().Msg("Closing node connections")
		closer.Close()
	}

	return errs
}
