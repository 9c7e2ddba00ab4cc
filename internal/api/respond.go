package api

import (
	"encoding/json"
	"net/http"
)

// internalErrorMessage is the error field of every 500 response
const internalErrorMessage = "Internal server error"

// errorResponse is the body of a rejected request
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Helper to send JSON responses
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

func respondInternal(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: internalErrorMessage, Message: message})
}
