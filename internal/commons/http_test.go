package commons

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"restauranthub/internal/dto"
	apperrors "restauranthub/internal/errors"
)

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.NewValidationError("bad"), http.StatusBadRequest, apperrors.CodeValidation},
		{"invalid capacity", apperrors.NewInvalidCapacityError(0), http.StatusBadRequest, apperrors.CodeInvalidCapacity},
		{"invalid range", apperrors.NewInvalidRangeError(3, 1), http.StatusBadRequest, apperrors.CodeInvalidRange},
		{"not found", apperrors.NewNotFoundError("order ORD-9 not found"), http.StatusNotFound, CodeNotFound},
		{"invalid transition", apperrors.NewInvalidTransitionError("order", "Delivered", "Preparing"), http.StatusConflict, CodeInvalidTransition},
		{"table in use", apperrors.NewTableInUseError("T1"), http.StatusConflict, apperrors.CodeTableInUse},
		{"conflict", apperrors.NewConflictError("dup"), http.StatusConflict, apperrors.CodeConflict},
		{"insufficient balance", apperrors.NewInsufficientBalanceError("10", "5"), http.StatusUnprocessableEntity, CodeInsufficientBalance},
		{"unauthorized", apperrors.NewUnauthorizedError("no token"), http.StatusUnauthorized, CodeUnauthorized},
		{"timeout", apperrors.NewRequestTimeoutError("GET /x", context.DeadlineExceeded), http.StatusGatewayTimeout, CodeRequestTimeout},
		{"network", apperrors.NewNetworkError("GET /x", errors.New("refused")), http.StatusBadGateway, CodeNetworkError},
		{"upstream 404", apperrors.NewUpstreamError(404, "Branch not found"), http.StatusNotFound, CodeUpstreamError},
		{"upstream 500", apperrors.NewUpstreamError(500, "boom"), http.StatusBadGateway, CodeUpstreamError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			WriteError(rec, "trace-1", tt.err, zap.NewNop())

			assert.Equal(t, tt.status, rec.Code)
			var body dto.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, "trace-1", body.TraceID)
		})
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, "trace-1", apperrors.NewInternalError("persisting order", errors.New("dsn secret")), zap.NewNop())

	assert.NotContains(t, rec.Body.String(), "dsn secret")
}

func TestDecodeJSON(t *testing.T) {
	var dst map[string]string

	err := DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}`)), &dst)
	require.NoError(t, err)
	assert.Equal(t, "b", dst["a"])

	err = DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`)), &dst)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	err = DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``)), &dst)
	ve, ok := apperrors.IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "request body is required", ve.Message)
}

func TestTraceID(t *testing.T) {
	ctx := WithTraceID(context.Background(), "abc")
	assert.Equal(t, "abc", TraceID(ctx))
	assert.NotEmpty(t, TraceID(context.Background()))
}
