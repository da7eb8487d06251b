// Package api contains the HTTP handlers and their request/response types.
package api

// ErrorResponse is the common error envelope for all endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
