package httperrors

import (
	"net/http"

	"github/chapool/ledger-signer/internal/types"
)

var (
	ErrServiceUnavailableDevice   = NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypeDEVICEUNAVAILABLE, "The signing device could not be reached.")
	ErrLockedDevice               = NewHTTPError(http.StatusLocked, types.PublicHTTPErrorTypeDEVICELOCKED, "The signing device is busy.")
	ErrGatewayTimeoutDevice       = NewHTTPError(http.StatusGatewayTimeout, types.PublicHTTPErrorTypeDEVICETIMEOUT, "The signing device did not answer in time.")
	ErrBadGatewayDevice           = NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeDEVICEERROR, "The signing device reported an error.")
	ErrNotImplementedUnsupported  = NewHTTPError(http.StatusNotImplemented, types.PublicHTTPErrorTypeUNSUPPORTED, "The operation is not supported by the signer.")
	ErrServiceUnavailableProvider = NewHTTPError(http.StatusServiceUnavailable, types.PublicHTTPErrorTypePROVIDERMISSING, "No RPC provider is configured.")
	ErrBadGatewaySenderMismatch   = NewHTTPError(http.StatusBadGateway, types.PublicHTTPErrorTypeSENDERMISMATCH, "The signature does not match the device address.")
	ErrBadRequestTransaction      = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeINVALIDTRANSACTION, "The transaction could not be encoded.")
)
