package handlers

import (
	"github.com/labstack/echo/v4"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/api/handlers/common"
	"github/chapool/ledger-signer/internal/api/handlers/ledger"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = []*echo.Route{
		common.GetMetricsRoute(s),
		common.GetReadyRoute(s),
		common.GetVersionRoute(s),
		ledger.GetAddressRoute(s),
		ledger.PostSendTransactionRoute(s),
		ledger.PostSignMessageRoute(s),
		ledger.PostSignTransactionRoute(s),
	}
}
