package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, "User already exists", http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"errors":[{"msg":"User already exists"}]}`, rec.Body.String())
}

func TestRespondErrors_WithParams(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrors(rec, http.StatusBadRequest,
		ErrorDetail{Msg: "Name is required", Param: "name", Location: "body"},
		ErrorDetail{Msg: "Please include a valid email", Param: "email", Location: "body"},
	)

	var body ErrorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "name", body.Errors[0].Param)
	assert.Equal(t, "Please include a valid email", body.Errors[1].Msg)
}

func TestRespondErrors_EmptyIsList(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondErrors(rec, http.StatusBadRequest)
	assert.JSONEq(t, `{"errors":[]}`, rec.Body.String())
}

func TestRespondMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondMessage(rec, MsgNoToken, http.StatusUnauthorized)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"msg":"No token, authorization denied"}`, rec.Body.String())
}

func TestRespondServerError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondServerError(rec)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"errors":[{"msg":"Server Error"}]}`, rec.Body.String())
}
