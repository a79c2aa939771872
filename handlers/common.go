package handlers

import (
	"CareLink/middlewares"
	"CareLink/services"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// statusPayload is the body of every PUT /:id/status request.
type statusPayload struct {
	Status string `json:"status"`
}

var (
	errPriceNotPositive        = errors.New("must be greater than zero")
	errStockNegative           = errors.New("must not be negative")
	errShippingAddressRequired = errors.New("cannot be blank")
)

// validationError wraps a single field error in the ozzo error shape so it
// renders through the same details array as struct validation.
func validationError(field string, err error) error {
	return validation.Errors{field: err}
}

// respondServiceError maps service sentinel errors onto the HTTP taxonomy.
func respondServiceError(c *gin.Context, resource string, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		middlewares.RespondError(c, http.StatusNotFound, fmt.Sprintf("%s not found", resource), nil)
	case errors.Is(err, services.ErrUnknownStatus),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInsufficientStock),
		errors.Is(err, services.ErrEmptyCart):
		middlewares.RespondError(c, http.StatusBadRequest, err.Error(), nil)
	default:
		middlewares.RespondError(c, http.StatusInternalServerError, fmt.Sprintf("Failed to process %s request", resource), err)
	}
}
