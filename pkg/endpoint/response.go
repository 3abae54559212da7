package endpoint

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Response pairs an HTTP status with a JSON-serializable payload.
// Handlers may return one directly to control the status and headers;
// otherwise the dispatcher wraps the return value in a 200.
type Response struct {
	Status int
	Data   any
	Header http.Header
}

// NewResponse creates a response with the given status and payload.
func NewResponse(status int, data any) *Response {
	return &Response{Status: status, Data: data, Header: make(http.Header)}
}

// OK creates a 200 response.
func OK(data any) *Response { return NewResponse(http.StatusOK, data) }

// Created creates a 201 response.
func Created(data any) *Response { return NewResponse(http.StatusCreated, data) }

// NoContent creates a 204 response with an empty body.
func NoContent() *Response { return NewResponse(http.StatusNoContent, nil) }

// Unauthorized creates a 401 response challenging for Basic credentials
// in the given realm. The message lands in the JSON error body.
func Unauthorized(realm, message string) *Response {
	resp := NewResponse(http.StatusUnauthorized, map[string]any{"error": message})
	resp.Header.Set("WWW-Authenticate", fmt.Sprintf("Basic realm=%q", realm))
	return resp
}

// WithHeader sets a response header and returns the response for chaining.
func (r *Response) WithHeader(key, value string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}
	r.Header.Set(key, value)
	return r
}

// Write serializes the response onto w. The body is JSON-encoded except
// for 204 responses, which stay empty.
func (r *Response) Write(w http.ResponseWriter) error {
	for key, values := range r.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(r.Status)
	if r.Status == http.StatusNoContent {
		return nil
	}
	if err := json.NewEncoder(w).Encode(r.Data); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}
