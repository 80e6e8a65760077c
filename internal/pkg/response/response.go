package response

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the minimal error payload for handlers that have no
// structured message to attach
type ErrorResponse struct {
	Error string `json:"error"`
}

// JSON encodes data with the given status. The status line is already sent
// when encoding fails, so the failure can only be reported on a best-effort
// basis.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error writes message as an ErrorResponse with the given status
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// Success writes data with 200 OK
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 No Content response
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
