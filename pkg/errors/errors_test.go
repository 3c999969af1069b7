package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCollapse(t *testing.T) {
	assert.Nil(t, Collapse(nil))

	cause := fmt.Errorf("failed to extract terms: %w", stderrors.New("rate limit exceeded"))
	err := Collapse(cause)

	assert.Equal(t, ErrorTypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
	assert.Equal(t, "failed to extract terms: rate limit exceeded", err.Detail())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsInternal(err))
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("topic is required")

	assert.True(t, IsType(err, ErrorTypeValidation))
	assert.False(t, IsInternal(err))
	assert.Equal(t, http.StatusUnprocessableEntity, err.HTTPStatus)
	assert.Equal(t, "VALIDATION: topic is required", err.Error())
}

func TestGetAppError(t *testing.T) {
	wrapped := fmt.Errorf("query handler failed: %w", NewValidationError("bad"))
	assert.NotNil(t, GetAppError(wrapped))
	assert.True(t, IsType(wrapped, ErrorTypeValidation))

	assert.Nil(t, GetAppError(stderrors.New("plain")))
	assert.False(t, IsInternal(stderrors.New("plain")))
}

func TestErrorHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{name: "internal", err: Collapse(stderrors.New("Neo4j unavailable")), wantStatus: http.StatusInternalServerError, wantDetail: "Neo4j unavailable"},
		{name: "validation", err: NewValidationError("topic is required"), wantStatus: http.StatusUnprocessableEntity, wantDetail: "topic is required"},
		{name: "plain error", err: stderrors.New("unexpected"), wantStatus: http.StatusInternalServerError, wantDetail: "unexpected"},
	}

	h := NewErrorHandler(zap.NewNop(), false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Handle(rec, httptest.NewRequest(http.MethodPost, "/educate", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDetail, body.Detail)
			assert.Nil(t, body.Details)
		})
	}
}

func TestErrorHandler_DebugIncludesStack(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), true)
	rec := httptest.NewRecorder()

	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/graph", nil), NewInternalError("boom"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Details, "stack_trace")
}

func TestErrorHandler_DebugOmitsStackForClientErrors(t *testing.T) {
	h := NewErrorHandler(zap.NewNop(), true)
	rec := httptest.NewRecorder()

	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/educate", nil), NewValidationError("topic is required"))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotContains(t, body.Details, "stack_trace")
}
