package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/api/router"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/util/command"
)

const (
	probeFlag       = "probe"
	shutdownTimeout = 10 * time.Second
)

type Flags struct {
	Probe bool
}

func New() *cobra.Command {
	var flags Flags

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Starts the server",
		Long: `Starts the signing HTTP server

Requires configuration through ENV.`,
		Run: func(_ *cobra.Command, _ []string) {
			runServer(flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Probe, probeFlag, "p", false, "Open the device session and read the address before serving.")

	return cmd
}

func runServer(flags Flags) {
	config := config.DefaultServiceConfigFromEnv()
	command.ConfigureLogger(config.Logger)

	s, err := api.InitNewServer(config)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}

	if err := router.Init(s); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize router")
	}

	if flags.Probe {
		probeDevice(s)
	}

	go func() {
		if err := s.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info().Msg("Server closed")
			} else {
				log.Fatal().Err(err).Msg("Failed to start server")
			}
		}
	}()

	log.Info().
		Str("listen_address", config.Echo.ListenAddress).
		Str("type", s.Signer.Type()).
		Str("path", s.Signer.Path()).
		Msg("Server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		log.Fatal().Errs("shutdownErrors", errs).Msg("Failed to gracefully shut down server")
	}
}

// probeDevice establishes the device session up front. A failure is logged only, the
// readiness endpoint reports it from then on.
func probeDevice(s *api.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	addr, err := s.Signer.GetAddress(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Device probe failed")
		return
	}

	log.Info().Str("address", addr).Str("version", s.Signer.Version()).Msg("Device probe succeeded")
}
