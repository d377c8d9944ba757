package respond

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the payload of every error response. Kind is a stable,
// machine-readable class; Error is meant for people.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

// Error writes an ErrorBody. An empty kind is left out of the payload.
func Error(w http.ResponseWriter, r *http.Request, code int, kind, message string) {
	JSON(w, r, code, ErrorBody{Error: message, Kind: kind})
}
