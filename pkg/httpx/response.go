// Package httpx holds the JSON request/response helpers shared by every
// HTTP handler.
package httpx

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

// RespondJSON writes data as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// ErrorResponse is the error envelope returned by every endpoint.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// RespondError writes err as a JSON error envelope.
func RespondError(w http.ResponseWriter, status int, err error) {
	RespondJSON(w, status, ErrorResponse{
		Error:  http.StatusText(status),
		Detail: err.Error(),
	})
}

// RespondErrorf writes a formatted error message as a JSON error envelope.
func RespondErrorf(w http.ResponseWriter, status int, format string, args ...interface{}) {
	RespondJSON(w, status, ErrorResponse{
		Error:  http.StatusText(status),
		Detail: fmt.Sprintf(format, args...),
	})
}

// DecodeJSON decodes the request body into dst, rejecting unknown payloads
// larger than maxBytes.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
