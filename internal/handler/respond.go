package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tour0001/backend/internal/domain"
)

// maxBodyBytes caps request bodies read by DecodeJSON.
const maxBodyBytes = 1 << 20

// envelope is the uniform response body: every response carries a boolean
// success field; successes add the resource under a named key, failures a
// human-readable message.
type envelope map[string]any

// RespondJSON writes a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError writes the failure envelope, detecting domain.AppError for
// status codes. Anything else is a storage-level fault: the caller gets
// the generic message, the detail stays in the server logs.
func RespondError(w http.ResponseWriter, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		RespondJSON(w, appErr.Status, envelope{
			"success": false,
			"message": clientMessage(appErr),
		})
		return
	}
	RespondJSON(w, http.StatusInternalServerError, envelope{
		"success": false,
		"message": "internal server error",
	})
}

// clientMessage hides internal error detail from the caller.
func clientMessage(appErr *domain.AppError) string {
	if appErr.Status >= 500 {
		return "internal server error"
	}
	return appErr.Message
}

// DecodeJSON reads and decodes a JSON request body into dst.
func DecodeJSON(r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
