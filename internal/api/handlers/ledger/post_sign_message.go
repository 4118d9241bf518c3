package ledger

import (
	"github.com/labstack/echo/v4"
	"github/chapool/ledger-signer/internal/api"
)

func PostSignMessageRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Ledger.POST("/sign-message", postSignMessageHandler(s))
}

// Message signing is not available on the device integration, always answers 501.
func postSignMessageHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, err := s.Signer.SignMessage(c.Request().Context(), nil)
		return err
	}
}
