package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quizparty/quizparty/internal/model"
)

// APIError is the body of an error response
type APIError struct {
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error response, mapping known model errors to
// status codes
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	if errors.Is(err, model.ErrRoomNotFound) {
		status = http.StatusNotFound
		message = err.Error()
	}

	JSON(w, status, ErrorResponse{Error: APIError{Message: message}})
}
