package handlers

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/SAP-F-2025/interview-prep-service/internal/errors"
	"github.com/SAP-F-2025/interview-prep-service/internal/middleware"
	"github.com/SAP-F-2025/interview-prep-service/internal/services"
	"github.com/SAP-F-2025/interview-prep-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// ===== COMMON RESPONSE STRUCTURES =====

// ErrorResponse represents an error response
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ===== BASE HANDLER STRUCT =====

// BaseHandler provides common logging and error mapping for all handlers
type BaseHandler struct {
	logger utils.Logger
	// debug exposes internal error text in responses.
	debug bool
}

func NewBaseHandler(logger utils.Logger, debug bool) BaseHandler {
	return BaseHandler{
		logger: logger,
		debug:  debug,
	}
}

func (h *BaseHandler) log(c *gin.Context) utils.Logger {
	return utils.GetLoggerFromContext(c, h.logger)
}

// ctx carries the request id into service calls.
func (h *BaseHandler) ctx(c *gin.Context) context.Context {
	return services.WithRequestID(c.Request.Context(), utils.GetRequestID(c))
}

// LogRequest logs incoming HTTP requests with context information
func (h *BaseHandler) LogRequest(c *gin.Context, message string, additionalFields ...interface{}) {
	fields := append([]interface{}{"user_id", middleware.GetUserID(c)}, additionalFields...)
	h.log(c).Info(message, fields...)
}

// LogError logs error details with context information
func (h *BaseHandler) LogError(c *gin.Context, err error, message string, additionalFields ...interface{}) {
	fields := append([]interface{}{
		"user_id", middleware.GetUserID(c),
		"request_id", utils.GetRequestID(c),
	}, additionalFields...)
	h.log(c).LogError(err, message, fields...)
}

// RespondWithError sends a consistent error response
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, code, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// requireUser returns the caller id or answers 401.
func (h *BaseHandler) requireUser(c *gin.Context) (string, bool) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		h.RespondWithError(c, http.StatusUnauthorized, "unauthorized", "User not authenticated", nil)
		return "", false
	}
	return userID, true
}

// bindError answers 400 for a body or query that could not be decoded.
func (h *BaseHandler) bindError(c *gin.Context, err error) {
	h.RespondWithError(c, http.StatusBadRequest, "invalid_request", "Invalid request payload", err.Error())
}

// handleServiceError maps service errors onto HTTP statuses and reason codes.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	code := services.ReasonCode(err)

	var validationErrors apperrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.RespondWithError(c, http.StatusBadRequest, code, "Validation failed", validationErrors)
		return
	}
	var validationError *apperrors.ValidationError
	if errors.As(err, &validationError) {
		h.RespondWithError(c, http.StatusBadRequest, code, "Validation failed", apperrors.ValidationErrors{*validationError})
		return
	}

	switch {
	case services.IsNotFound(err):
		h.RespondWithError(c, http.StatusNotFound, code, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidCompletionReason):
		h.RespondWithError(c, http.StatusBadRequest, code, err.Error(), nil)
	case services.IsInvalidState(err):
		h.RespondWithError(c, http.StatusConflict, code, err.Error(), nil)
	case errors.Is(err, services.ErrRateLimited):
		h.RespondWithError(c, http.StatusTooManyRequests, code, err.Error(), nil)
	default:
		h.LogError(c, err, "Unhandled service error")
		var details interface{}
		if h.debug {
			details = err.Error()
		}
		h.RespondWithError(c, http.StatusInternalServerError, code, "Internal server error", details)
	}
}
