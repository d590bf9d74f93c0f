// Package httpkit re-exports the platform http surface so modules do not
// import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "crimecast/internal/platform/net/http"
)

type (
	// Envelope is the JSON body of every response
	Envelope = phttp.Envelope

	// Response is what return-style handlers produce
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK is a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Accepted is a 202 response
func Accepted(data any) Response { return phttp.Accepted(data) }

// Error maps err to a status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a Response-returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }

// Get mounts a bodiless JSON handler
func Get(r Router, path string, fn func(*http.Request) (any, error)) { phttp.GetJSON(r, path, fn) }

// Post mounts a handler that binds and validates a T body
func Post[T any](r Router, path string, fn func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, fn)
}
