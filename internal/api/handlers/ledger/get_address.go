package ledger

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/types"
	"github/chapool/ledger-signer/internal/util"
)

func GetAddressRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Ledger.GET("/address", getAddressHandler(s))
}

// Returns the address of the configured derivation path as reported by the device.
func getAddressHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		addr, err := s.Signer.GetAddress(ctx)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to get address from device")
			return err
		}

		response := &types.LedgerAddressResponse{
			Address: swag.String(addr),
			Path:    swag.String(s.Signer.Path()),
			Type:    swag.String(s.Signer.Type()),
			Version: s.Signer.Version(),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
