package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carepoint/internal/domain"
)

type errorResponseBody struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Code    int               `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type successResponseBody struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type paginatedResponse struct {
	Data     interface{} `json:"data"`
	Count    int         `json:"count"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func successResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, errorResponseBody{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}

// paginatedSuccessResponse reports the size of the returned page; the
// stores do not count the full result set.
func paginatedSuccessResponse(c *gin.Context, data interface{}, count, page, pageSize int) {
	c.JSON(http.StatusOK, paginatedResponse{
		Data:     data,
		Count:    count,
		Page:     page,
		PageSize: pageSize,
	})
}

func createdResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, successResponseBody{
		Status: "success",
		Data:   data,
	})
}

func noContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func badRequestResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func validationErrorResponse(c *gin.Context, ve *domain.ValidationError) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponseBody{
		Status:  "error",
		Message: "validation failed",
		Code:    http.StatusBadRequest,
		Fields:  ve.Fields,
	})
}

func unauthorizedResponse(c *gin.Context) {
	errorResponse(c, http.StatusUnauthorized, "authorization required")
}

func forbiddenResponse(c *gin.Context, message ...string) {
	msg := "access denied"
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	errorResponse(c, http.StatusForbidden, msg)
}

func notFoundResponse(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func internalServerErrorResponse(c *gin.Context) {
	errorResponse(c, http.StatusInternalServerError, "internal server error")
}

// serviceErrorResponse maps an error returned by a service to its HTTP
// status. Services already hide internal causes, so the message is safe to
// show.
func serviceErrorResponse(c *gin.Context, err error) {
	if ve, ok := domain.AsValidationError(err); ok {
		validationErrorResponse(c, ve)
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		notFoundResponse(c, "resource not found")
	case errors.Is(err, domain.ErrEmailTaken):
		errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		errorResponse(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		errorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInactiveAccount), errors.Is(err, domain.ErrForbidden):
		forbiddenResponse(c, err.Error())
	case errors.Is(err, domain.ErrOTPRejected):
		badRequestResponse(c, err.Error())
	case errors.Is(err, domain.ErrRateLimited):
		errorResponse(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, domain.ErrOTPProvider):
		errorResponse(c, http.StatusBadGateway, err.Error())
	default:
		_ = c.Error(err)
		errorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
