package utils

import (
	"encoding/json"
	"net/http"
)

// Message is the body of every error response.
type Message struct {
	Message string `json:"message"`
}

// JSONResponse sends payload as JSON with the given status. A nil payload writes no body.
func JSONResponse(w http.ResponseWriter, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func ErrorResponse(w http.ResponseWriter, status int, message string) {
	JSONResponse(w, status, Message{Message: message})
}
