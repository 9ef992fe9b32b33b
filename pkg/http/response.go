package http

import (
	"encoding/json"
	"net/http"

	apperrors "busport/pkg/errors"
)

type ErrorResponse struct {
	Success bool           `json:"success"`
	Error   string         `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError converts any error into a JSON error body. AppErrors keep
// their status and message; everything else becomes an opaque 500 so
// internal causes never reach the client.
func WriteError(w http.ResponseWriter, err error) {
	appErr := apperrors.AsAppError(err)

	message := appErr.Message
	details := appErr.Details
	if appErr.Code == apperrors.CodeInternal {
		message = "Internal server error"
		details = nil
	}

	WriteJSON(w, appErr.StatusCode(), ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, SuccessResponse{Success: true, Data: data})
}

func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, SuccessResponse{Success: true, Data: data})
}

func WriteNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
