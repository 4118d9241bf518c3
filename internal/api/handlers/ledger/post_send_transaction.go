package ledger

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/types"
	"github/chapool/ledger-signer/internal/util"
)

func PostSendTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Ledger.POST("/send-transaction", postSendTransactionHandler(s))
}

// Signs a legacy transaction on the device and broadcasts it through the RPC provider.
// An absent value is sent as zero.
func postSendTransactionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.TransactionPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		req, err := transactionRequest(&body)
		if err != nil {
			return err
		}

		if body.Populate {
			if req, err = s.Signer.PopulateTransaction(ctx, req); err != nil {
				log.Debug().Err(err).Msg("Failed to populate transaction")
				return err
			}
		}

		hash, err := s.Signer.SendTransaction(ctx, req)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to send transaction")
			return err
		}

		log.Info().Str("tx_hash", hash.Hex()).Msg("Transaction sent")

		response := &types.SendTransactionResponse{
			TxHash: swag.String(hash.Hex()),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
