package handlers

import (
	"errors"

	"github.com/greenplate/mealsub/internal/app/service/catalog"
	"github.com/greenplate/mealsub/internal/app/service/lifecycle"
	"github.com/greenplate/mealsub/pkg/response"
)

// serviceErrCode maps engine errors to response codes so store-layer error
// text never leaks to end users as a 2xx/5xx mismatch.
func serviceErrCode(err error) response.APIResponseCode {
	var ve *lifecycle.ValidationError
	switch {
	case errors.Is(err, lifecycle.ErrSubscriptionNotFound), errors.Is(err, catalog.ErrNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return response.APIResponseCodeBadRequest
	case errors.Is(err, lifecycle.ErrTransitionConflict):
		return response.APIResponseCodeConflict
	case errors.As(err, &ve):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}
