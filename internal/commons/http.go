package commons

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"restauranthub/internal/dto"
	apperrors "restauranthub/internal/errors"
)

const (
	CodeNotFound            = "NOT_FOUND"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeNetworkError        = "NETWORK_ERROR"
	CodeRequestTimeout      = "REQUEST_TIMEOUT"
	CodeUpstreamError       = "UPSTREAM_ERROR"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeInternalError       = "INTERNAL_ERROR"
)

type traceIDKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceID returns the request trace id, or a fresh one when the request did not
// pass through the trace middleware.
func TraceID(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.New().String()
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// DecodeJSON decodes the request body into dst. A malformed body becomes a
// validation error.
func DecodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.NewValidationError("request body is required",
				apperrors.ValidationDetail{Field: "body", Message: "request body must not be empty"})
		}
		return apperrors.NewValidationError("invalid JSON body",
			apperrors.ValidationDetail{Field: "body", Message: "request body must be valid JSON"})
	}
	return nil
}

// WriteError maps err to its HTTP status and error code. Errors outside the
// known taxonomy are logged and reported as INTERNAL_ERROR.
func WriteError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	status, code, message, details := classify(err)

	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.String("traceId", traceID), zap.String("code", code), zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.String("traceId", traceID), zap.String("code", code), zap.Error(err))
	}

	WriteJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UTC(),
	}, logger)
}

func classify(err error) (int, string, string, []apperrors.ValidationDetail) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		return http.StatusBadRequest, ve.Code, ve.Message, ve.Details
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		return http.StatusNotFound, CodeNotFound, err.Error(), nil
	}
	if _, ok := apperrors.IsInvalidTransitionError(err); ok {
		return http.StatusConflict, CodeInvalidTransition, err.Error(), nil
	}
	if ce, ok := apperrors.IsConflictError(err); ok {
		return http.StatusConflict, ce.Code, ce.Message, nil
	}
	if _, ok := apperrors.IsInsufficientBalanceError(err); ok {
		return http.StatusUnprocessableEntity, CodeInsufficientBalance, err.Error(), nil
	}
	if _, ok := apperrors.IsUnauthorizedError(err); ok {
		return http.StatusUnauthorized, CodeUnauthorized, err.Error(), nil
	}
	if _, ok := apperrors.IsRequestTimeoutError(err); ok {
		return http.StatusGatewayTimeout, CodeRequestTimeout, err.Error(), nil
	}
	if _, ok := apperrors.IsNetworkError(err); ok {
		return http.StatusBadGateway, CodeNetworkError, "upstream service unreachable", nil
	}
	if ue, ok := apperrors.IsUpstreamError(err); ok {
		status := http.StatusBadGateway
		if ue.Status >= 400 && ue.Status < 500 {
			status = ue.Status
		}
		return status, CodeUpstreamError, ue.Message, nil
	}
	return http.StatusInternalServerError, CodeInternalError, "an unexpected error occurred", nil
}
