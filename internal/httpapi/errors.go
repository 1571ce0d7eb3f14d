package httpapi

import (
	"encoding/json"
	"net/http"
)

// APIError is the structured failure payload: a machine-readable message
// plus an optional debug trace (panic stacks from the recovery middleware).
type APIError struct {
	Error     string `json:"error"`
	Trace     string `json:"trace,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, message, trace string) {
	WriteJSON(w, status, APIError{
		Error:     message,
		Trace:     trace,
		RequestID: RequestIDFrom(r.Context()),
	})
}
