package httpserver

import (
	"errors"
	"net/http"

	"cafe-backoffice/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Code       string `json:"code"`
}

// statusFor maps a service error onto an HTTP status and a stable error code.
func statusFor(err error) (int, string) {
	var malformed *domain.MalformedRecordError
	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		return http.StatusUnprocessableEntity, "EmptyCart"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "ResourceNotFound"
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict, "DuplicateValue"
	case errors.Is(err, domain.ErrCategoryInUse):
		return http.StatusConflict, "CategoryInUse"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "InvalidInput"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.As(err, &malformed):
		return http.StatusInternalServerError, "MalformedRecord"
	case errors.Is(err, domain.ErrRemote):
		return http.StatusBadGateway, "StoreUnavailable"
	}
	return http.StatusInternalServerError, "General"
}

func writeError(c *gin.Context, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError && code == "General" {
		msg = "internal error"
	}
	c.Error(err)
	c.AbortWithStatusJSON(status, errorResponse{StatusCode: status, Message: msg, Code: code})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{StatusCode: http.StatusBadRequest, Message: msg, Code: "InvalidInput"})
}
