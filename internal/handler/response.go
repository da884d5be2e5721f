package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/medtrack/patient-api/pkg/errors"
)

// MessageResponse is the success envelope the frontend expects.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope the frontend expects.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusFor maps the error taxonomy onto HTTP statuses: validation 400,
// auth 401, missing 404, slot conflicts 409, business-rule rejections 422,
// everything else 500.
func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrBadRequest:
		return http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case apperrors.ErrForbidden:
		return http.StatusForbidden
	case apperrors.ErrNotFound:
		return http.StatusNotFound
	case apperrors.ErrConflict:
		return http.StatusConflict
	case apperrors.ErrUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the error to the client. Application errors carry
// their own safe message; anything else is logged server-side and collapsed
// into a generic 500 so store details never leak.
func RespondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(statusFor(appErr.Code), ErrorResponse{Error: appErr.Message})
		return
	}

	log.Error().
		Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("request failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}
