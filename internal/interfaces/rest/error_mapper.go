package rest

import (
	"encoding/json"
	"net/http"

	"github.com/DanielPopoola/ficmart-order-service/internal/application"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError maps a domain error onto the wire. Unknown errors become a
// generic 500 so internals never leak to callers.
func WriteError(w http.ResponseWriter, err error) {
	status := application.ToHTTPStatus(err)
	code := application.ToErrorCode(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	WriteJSON(w, status, ErrorResponse{
		Error:   code,
		Message: message,
	})
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
