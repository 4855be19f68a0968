package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"businessathi/internal/domain"
	"businessathi/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	TotalCount  int `json:"total_count"`
	PageCount   int `json:"page_count"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var opErr *domain.OperationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrMissingUserID):
		return http.StatusUnauthorized, "MISSING_USER_ID", "user id is required"
	case errors.Is(err, domain.ErrInvalidVariant):
		return http.StatusBadRequest, "INVALID_VARIANT", "invalid invoice type; allowed: gst, local"
	case errors.Is(err, domain.ErrInvalidFormat):
		return http.StatusBadRequest, "INVALID_FORMAT", "Invalid format. Use 'xlsx' or 'csv'"
	case errors.Is(err, domain.ErrInvalidSortKey):
		return http.StatusBadRequest, "INVALID_SORT_KEY", err.Error()
	case errors.Is(err, domain.ErrInvalidSortOrder):
		return http.StatusBadRequest, "INVALID_SORT_ORDER", "sort order must be asc or desc"
	case errors.Is(err, domain.ErrInvalidPagination):
		return http.StatusBadRequest, "INVALID_PAGINATION", err.Error()
	case errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusBadRequest, "INVALID_DATE_RANGE", err.Error()
	case errors.Is(err, domain.ErrNothingToExport):
		return http.StatusNotFound, "NOTHING_TO_EXPORT", err.Error()
	case errors.Is(err, domain.ErrExportTooLarge):
		return http.StatusRequestEntityTooLarge, "EXPORT_TOO_LARGE", "export exceeds the maximum row count; narrow the filters"
	case errors.Is(err, domain.ErrIntegrity):
		return http.StatusInternalServerError, "DATA_INTEGRITY", "invoice references a missing customer or product"
	case errors.As(err, &opErr):
		return http.StatusInternalServerError, "OPERATION_FAILED", opErr.Message
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// extractUserID extracts the authenticated user ID from the request context.
// Returns false if it is missing (error response already written).
func extractUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, false
	}
	return userID, true
}

// extractVariant parses the :variant path parameter.
func extractVariant(c *gin.Context) (domain.Variant, bool) {
	v, err := domain.ParseVariant(c.Param("variant"))
	if err != nil {
		HandleError(c, err)
		return "", false
	}
	return v, true
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Error().Err(err).Interface("request_id", requestID).Msg("internal error")
	}
	RespondError(c, status, code, msg)
}
