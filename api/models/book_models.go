// api/models/book_models.go
package models

import "errors"

// ErrEmptyBody is attached when a JSON body is required but none was sent.
var ErrEmptyBody = errors.New("request body required")

// --- Request/Response Structs ---

// CreateBookRequest is the body of POST /books. Both fields must be present
// and be strings; empty strings are accepted. Any "id" field is ignored.
type CreateBookRequest struct {
	Title   *string `json:"title" binding:"required"`
	Content *string `json:"content" binding:"required"`
}

// GenerateAPIKeyResponse is returned by POST /apikeys/generate.
type GenerateAPIKeyResponse struct {
	APIKey string `json:"api_key"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// PingResponse is returned by GET /ping.
type PingResponse struct {
	Message string `json:"message"`
}
