// Package common holds the JSON envelope shared by HTTP handlers.
package common

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	pkgerrors "brainstorm/pkg/errors"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// StandardErrorCodes defines the error codes used outside AppError
var StandardErrorCodes = struct {
	BadRequest    string
	Unauthorized  string
	InternalError string
}{
	BadRequest:    "BAD_REQUEST",
	Unauthorized:  "UNAUTHORIZED",
	InternalError: "INTERNAL_ERROR",
}

// MaxBodyBytes bounds request bodies
const MaxBodyBytes = 1 << 20

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	write(w, status, APIResponse{Success: status >= 200 && status < 300, Data: data})
}

// RespondNoContent sends an empty 204
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondError sends an error response
func RespondError(w http.ResponseWriter, status int, code, message string) {
	write(w, status, APIResponse{Error: &ErrorInfo{Code: code, Message: message}})
}

// RespondAppError maps an error onto its HTTP status; non-application errors become 500
func RespondAppError(w http.ResponseWriter, err error) {
	appErr := pkgerrors.GetAppError(err)
	if appErr == nil {
		RespondError(w, http.StatusInternalServerError, StandardErrorCodes.InternalError, "internal server error")
		return
	}

	code := appErr.Code
	if code == "" {
		code = string(appErr.Type)
	}
	message := appErr.Message
	if !appErr.Exposed() {
		message = "internal server error"
	}
	write(w, appErr.Status(), APIResponse{Error: &ErrorInfo{
		Code:    code,
		Message: message,
		Details: appErr.Details,
	}})
}

// ParseJSONBody decodes a bounded JSON body, rejecting unknown fields
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return pkgerrors.NewValidationError("request body is required")
		}
		return pkgerrors.NewValidationError("invalid request body: " + strings.TrimPrefix(err.Error(), "json: "))
	}
	return nil
}

func write(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
