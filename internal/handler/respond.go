package handler

import (
	"encoding/json"
	"net/http"
)

// envelope is the wire format every endpoint responds with.
type envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(envelope{
		Data:    data,
		Message: http.StatusText(status),
		Status:  status,
	})
}

func respondOK(w http.ResponseWriter, data any) {
	respond(w, http.StatusOK, data)
}

func respondStatus(w http.ResponseWriter, status int) {
	respond(w, status, nil)
}
