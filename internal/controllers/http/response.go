package http

import (
	"errors"
	"net/http"

	"storefront-service/internal/services"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, msg string) {
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// errorStatus maps a service error to its HTTP status and error code.
func errorStatus(err error) (int, string) {
	var verr *services.ValidationError
	var stock *services.InsufficientStockError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "validation_error"
	case errors.As(err, &stock):
		return http.StatusBadRequest, "insufficient_stock"
	case errors.Is(err, services.ErrEmptyCart):
		return http.StatusBadRequest, "empty_cart"
	case errors.Is(err, services.ErrInvalidStatus):
		return http.StatusBadRequest, "invalid_status"
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrCategoryNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, services.ErrAccountBlocked):
		return http.StatusForbidden, "account_blocked"
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrCategoryExists),
		errors.Is(err, services.ErrCategoryInUse),
		errors.Is(err, services.ErrAlreadyReviewed):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// fail writes err as an error envelope. Internal errors are logged and
// answered with a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	status, code := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "path", c.FullPath(), "request_id", c.GetString(ctxRequestID), "error", err)
		msg = "internal server error"
	}
	respondError(c, status, code, msg)
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, "bad_request", err.Error())
}
