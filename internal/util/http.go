package util

import (
	"net/http"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/ledger-signer/internal/api/httperrors"
	"github/chapool/ledger-signer/internal/types"
)

// BindAndValidateBody binds the request body into v and validates it, answering
// 400 with per field details on failure.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Failed to bind request body")
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Malformed request body")
	}

	return validatePayload(v)
}

// ValidateAndReturn validates the response payload before sending it.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response payload failed validation")
		return err
	}

	return c.JSON(code, v)
}

func validatePayload(v runtime.Validatable) error {
	err := v.Validate(strfmt.Default)
	if err == nil {
		return nil
	}

	var details []*types.HTTPValidationErrorDetail

	if composite, ok := err.(*errors.CompositeError); ok { //nolint:errorlint // go-openapi returns the concrete type
		for _, e := range composite.Errors {
			details = append(details, validationDetail(e))
		}
	} else {
		details = append(details, validationDetail(err))
	}

	return httperrors.NewHTTPValidationError(http.StatusBadRequest, types.PublicHTTPErrorTypeGeneric, "Bad Request", details)
}

func validationDetail(err error) *types.HTTPValidationErrorDetail {
	if v, ok := err.(*errors.Validation); ok { //nolint:errorlint
		return &types.HTTPValidationErrorDetail{
			Key:   swag.String(v.Name),
			In:    swag.String(v.In),
			Error: swag.String(v.Error()),
		}
	}

	return &types.HTTPValidationErrorDetail{
		Key:   swag.String("body"),
		In:    swag.String("body"),
		Error: swag.String(err.Error()),
	}
}
