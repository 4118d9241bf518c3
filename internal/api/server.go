package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/metrics"
	"github/chapool/ledger-signer/internal/wallet/provider"
	"github/chapool/ledger-signer/internal/wallet/signer"
)

type Router struct {
	Routes      []*echo.Route
	Root        *echo.Group
	Management  *echo.Group
	APIV1Ledger *echo.Group
}

// Server is a central struct keeping all the dependencies.
// It is initialized with wire, which handles making the new instances of the components
// in the right order. To add a new component, 3 steps are required:
// - declaring it in this struct
// - adding a provider function in providers.go
// - adding the provider's function name to the arguments of wire.Build() in wire.go
//
// Components labeled as `wire:"-"` will be skipped and have to be initialized after the InitNewServer* call.
// For more information about wire refer to https://pkg.go.dev/github.com/google/wire
type Server struct {
	// skip wire:
	// -> initialized with router.Init(s) function
	Echo   *echo.Echo `wire:"-"`
	Router *Router    `wire:"-"`

	Config   config.Server
	Metrics  *metrics.Service
	Provider *provider.RPCClient // nil without configured RPC URLs
	Signer   *signer.Ledger
}

// newServerWithComponents is used by wire to initialize the server components.
// Components not listed here won't be handled by wire and should be initialized separately.
// Components which shouldn't be handled must be labeled `wire:"-"` in Server struct.
func newServerWithComponents(
	cfg config.Server,
	metrics *metrics.Service,
	provider *provider.RPCClient,
	signer *signer.Ledger,
) *Server {
	return &Server{
		Config:   cfg,
		Metrics:  metrics,
		Provider: provider,
		Signer:   signer,
	}
}

func NewServer(config config.Server) *Server {
	s := &Server{
		Config: config,
	}

	return s
}

// Ready reports whether all components are initialized and the device session has not failed.
// The device is not contacted, an untouched session counts as ready.
func (s *Server) Ready() bool {
	if s.Echo == nil || s.Router == nil || s.Metrics == nil || s.Signer == nil {
		log.Debug().Msg("Server is not fully initialized")
		return false
	}

	if state := s.Signer.State(); state == ledger.StateFailed {
		log.Debug().Str("state", state.String()).Msg("Device session failed")
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

	if s.Provider != nil {
		log.Debug().Msg("Closing RPC connections")
		s.Provider.Close()
	}

	if s.Echo != nil {
		log.Debug().Msg("Shutting down echo server")

		if err := s.Echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed to shutdown echo server")
			errs = append(errs, err)
		}
	}

	return errs
}
