//go:build wireinject

package api

import (
	"github.com/google/wire"
	"github/chapool/ledger-signer/internal/config"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/metrics"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	metrics.New,
	NewProvider,
	NewSigner,
)

// InitNewServer returns a new Server instance.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewTransport)
	return new(Server), nil
}

// InitNewServerWithTransport returns a new Server instance talking to the given transport.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithTransport(
	_ config.Server,
	_ ledger.Transport,
) (*Server, error) {
	wire.Build(serviceSet)
	return new(Server), nil
}
