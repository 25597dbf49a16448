package response

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform JSON body of every API response.
type Envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
	User    any    `json:"user,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes body with the given HTTP status.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// OK writes a successful envelope carrying data.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Status: status, Success: true, Message: message, Data: data})
}

// Error writes a failed envelope.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Status: status, Success: false, Message: message})
}
