package ledger

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/ledger-signer/internal/api"
	"github/chapool/ledger-signer/internal/types"
	"github/chapool/ledger-signer/internal/util"
	"github/chapool/ledger-signer/internal/wallet/codec"
)

func PostSignTransactionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Ledger.POST("/sign-transaction", postSignTransactionHandler(s))
}

// Signs a legacy transaction on the device and returns the raw signed transaction.
func postSignTransactionHandler(s *api.Server) echo.HandlerFunc {
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

		signed, err := s.Signer.SignTransaction(ctx, req)
		if err != nil {
			log.Debug().Err(err).Msg("Failed to sign transaction")
			return err
		}

		raw, err := hexutil.Decode(signed)
		if err != nil {
			return err
		}

		response := &types.SignTransactionResponse{
			SignedTransaction: swag.String(signed),
			TxHash:            swag.String(codec.Hash(raw).Hex()),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
