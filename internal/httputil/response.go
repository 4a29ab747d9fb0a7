package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Client-facing messages shared across handlers
const (
	MsgServerError        = "Server Error"
	MsgInvalidRequestBody = "Invalid request body"
	MsgNoToken            = "No token, authorization denied"
	MsgInvalidToken       = "Token is not valid"
)

// ErrorDetail is one entry of an errors list
type ErrorDetail struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

// ErrorsResponse is the body of 4xx/5xx responses: {"errors":[{"msg":...}]}
type ErrorsResponse struct {
	Errors []ErrorDetail `json:"errors"`
}

// MessageResponse is the body of 401 responses: {"msg":...}
type MessageResponse struct {
	Msg string `json:"msg"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// RespondErrors sends {"errors":[...]} with the given status code.
func RespondErrors(w http.ResponseWriter, statusCode int, details ...ErrorDetail) {
	if details == nil {
		details = []ErrorDetail{}
	}
	RespondJSON(w, ErrorsResponse{Errors: details}, statusCode)
}

// RespondError sends a single-entry errors list.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondErrors(w, statusCode, ErrorDetail{Msg: message})
}

// RespondMessage sends {"msg": message}.
func RespondMessage(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, MessageResponse{Msg: message}, statusCode)
}

// RespondServerError hides the cause; callers log it.
func RespondServerError(w http.ResponseWriter) {
	RespondError(w, MsgServerError, http.StatusInternalServerError)
}
