package httpapi

import (
	"encoding/json"
	"net/http"
)

// envelope is the body of every response.
type envelope struct {
	Data      any    `json:"data,omitempty"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respond(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	body.RequestID = reqID(r)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondOK(w http.ResponseWriter, r *http.Request, data any) {
	respond(w, r, http.StatusOK, envelope{Data: data})
}

func respondError(w http.ResponseWriter, r *http.Request, status int, err error) {
	respond(w, r, status, envelope{Error: err.Error()})
}
