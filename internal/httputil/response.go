package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the standard error body: a short human-readable message
// plus an optional machine-readable code.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// MessageResponse is the standard body for confirmations that carry no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondMessage sends a confirmation body with a single message field.
func RespondMessage(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, MessageResponse{Message: message}, statusCode)
}

// RespondError sends a JSON error response with a machine-readable error code.
func RespondError(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, ErrorResponse{Error: message, Code: code}, statusCode)
}
