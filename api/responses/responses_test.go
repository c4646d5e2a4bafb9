package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/mrosales/partsledger-backend/pkg/errors"
	"github.com/mrosales/partsledger-backend/pkg/types"
)

func decodeErrorEnvelope(t *testing.T, rec *httptest.ResponseRecorder) types.ErrorEnvelope {
	t.Helper()
	var envelope types.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	assert.Equal(t, "ok", envelope.Data["status"])
}

func TestWriteError_ValidationCarriesFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.NewValidation("validation failed", []pkgerrors.FieldError{
		{Field: "quantity", Message: "must be positive"},
	})
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope := decodeErrorEnvelope(t, rec)
	assert.Equal(t, string(pkgerrors.CodeValidation), envelope.Code)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, "quantity", envelope.Errors[0].Field)
}

func TestWriteError_InternalHidesDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeInternal, "connection pool exhausted on node db-3")
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeErrorEnvelope(t, rec)
	assert.Equal(t, "internal server error", envelope.Detail)
	assert.Empty(t, envelope.Errors)
}

func TestWriteError_UntypedBecomesInternal(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeErrorEnvelope(t, rec)
	assert.Equal(t, string(pkgerrors.CodeInternal), envelope.Code)
}

func TestWriteError_ConflictKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeConflict, "insufficient stock: 3 available, 5 requested")
	WriteError(context.Background(), nil, rec, err)

	assert.Equal(t, http.StatusConflict, rec.Code)
	envelope := decodeErrorEnvelope(t, rec)
	assert.Equal(t, "insufficient stock: 3 available, 5 requested", envelope.Detail)
}
