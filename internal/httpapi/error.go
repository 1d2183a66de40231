package httpapi

import (
	"context"
	"errors"
	"net/http"

	"orderdesk/internal/apperror"
	"orderdesk/internal/cart"
	"orderdesk/internal/catalog"
	"orderdesk/internal/dataapi"
	"orderdesk/internal/draft"
	"orderdesk/internal/invoice"
	"orderdesk/internal/logger"
	"orderdesk/internal/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errInvalidBody  = apperror.Validation("invalid request body")
	errMissingPrice = apperror.InvalidField("price", "required")
	errInvalidID    = apperror.InvalidField("id", "must be a positive integer")
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func statusFor(err error) int {
	switch {
	case apperror.IsValidation(err),
		errors.Is(err, invoice.ErrUnknownChannel),
		errors.Is(err, invoice.ErrMissingRecipient):
		return http.StatusUnprocessableEntity

	case errors.Is(err, draft.ErrDraftNotFound),
		errors.Is(err, cart.ErrLineItemNotFound),
		errors.Is(err, catalog.ErrProductNotInResults),
		errors.Is(err, catalog.ErrCustomerNotInResults),
		errors.Is(err, dataapi.ErrOrderNotFound):
		return http.StatusNotFound

	case errors.Is(err, order.ErrSubmissionInProgress),
		errors.Is(err, order.ErrAlreadySubmitted):
		return http.StatusConflict

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	case apperror.IsSubmission(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}

	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		body.Error = verr.Reason
		body.Field = verr.Field
	}
	if status == http.StatusInternalServerError {
		body.Error = http.StatusText(status)
	}

	log := logger.FromCtx(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("route", c.FullPath()), zap.Int("status", status), zap.Error(err))
	} else {
		log.Debug("request rejected", zap.String("route", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, body)
}

// remote marks a failed data API read so it surfaces as a bad gateway.
func remote(op string, err error) error {
	if errors.Is(err, dataapi.ErrOrderNotFound) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return apperror.Submission(op, err)
}
