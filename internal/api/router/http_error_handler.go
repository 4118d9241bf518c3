package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/ledger-signer/internal/api/httperrors"
	"github/chapool/ledger-signer/internal/ledger"
	"github/chapool/ledger-signer/internal/types"
	"github/chapool/ledger-signer/internal/util"
	"github/chapool/ledger-signer/internal/wallet/codec"
	"github/chapool/ledger-signer/internal/wallet/signer"
)

// HTTPErrorHandler writes every error as public HTTP error JSON. Device and signer errors
// are mapped via fromLedger, anything unknown becomes a 500.
func HTTPErrorHandler(err error, c echo.Context) {
	log := util.LogFromEchoContext(c)

	if c.Response().Committed {
		log.Debug().Err(err).Msg("Response already committed, dropping error")
		return
	}

	err = fromLedger(err)

	var code int
	var body interface{}

	var httpErr *httperrors.HTTPError
	var validationErr *httperrors.HTTPValidationError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &httpErr):
		code = int(*httpErr.Code)
		body = httpErr
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Msg("Request failed")
		} else {
			log.Debug().Err(err).Msg("Request failed")
		}
	case errors.As(err, &validationErr):
		code = int(*validationErr.Code)
		body = validationErr
		log.Debug().Err(err).Msg("Request validation failed")
	case errors.As(err, &echoErr):
		converted := httperrors.NewFromEcho(echoErr)
		code = echoErr.Code
		body = converted
		log.Debug().Err(err).Msg("Echo error")
	default:
		converted := httperrors.NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError))
		code = http.StatusInternalServerError
		body = converted
		log.Error().Err(err).Msg("Unhandled error")
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}

	if err != nil {
		log.Warn().Err(err).Msg("Failed to write error response")
	}
}

// fromLedger maps signer and device errors onto public HTTP errors. The returned error keeps
// err as internal cause, unknown errors are returned unchanged.
func fromLedger(err error) error {
	var mapped *httperrors.HTTPError

	switch {
	case errors.Is(err, ledger.ErrTransportInit):
		mapped = httperrors.ErrServiceUnavailableDevice
	case errors.Is(err, ledger.ErrTimeout):
		mapped = httperrors.ErrGatewayTimeoutDevice
	case errors.Is(err, ledger.ErrDeviceLocked):
		mapped = httperrors.ErrLockedDevice
	case errors.Is(err, ledger.ErrUnsupported):
		mapped = httperrors.ErrNotImplementedUnsupported
	case errors.Is(err, signer.ErrMissingProvider):
		mapped = httperrors.ErrServiceUnavailableProvider
	case errors.Is(err, signer.ErrSenderMismatch):
		mapped = httperrors.ErrBadGatewaySenderMismatch
	case errors.Is(err, ledger.ErrDevice):
		mapped = httperrors.ErrBadGatewayDevice
	case errors.Is(err, codec.ErrUnresolved), errors.Is(err, codec.ErrInvalidQuantity):
		mapped = httperrors.ErrBadRequestTransaction
	default:
		return err
	}

	withCause := *mapped
	withCause.Internal = err

	return &withCause
}
