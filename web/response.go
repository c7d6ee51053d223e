package web

import (
	"io"
	"net/http"
)

// Response is the internal model of one outgoing HTTP response. It is
// produced by handler-result conversion and consumed exactly once by the
// connection that writes it to the wire.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers.
	Header http.Header

	// Body is the response payload when the body is a fixed buffer.
	Body []byte

	// Stream, when non-nil, is a lazy body written with chunked transfer
	// encoding. Body is ignored while Stream is set.
	Stream io.Reader
}

// NewResponse returns an empty response with the given status code.
func NewResponse(status int) *Response {
	return &Response{
		Status: status,
		Header: make(http.Header),
	}
}

// Text returns a text/plain response with the given status and body.
func Text(status int, body string) *Response {
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp.Body = []byte(body)
	return resp
}

// HTML returns a text/html response with the given status and body.
func HTML(status int, body string) *Response {
	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	resp.Body = []byte(body)
	return resp
}

// Redirect returns a 302 Found response with the Location header set and
// caching disabled.
func Redirect(location string) *Response {
	resp := NewResponse(http.StatusFound)
	resp.Header.Set("Location", location)
	resp.Header.Set("Cache-Control", "no-store")
	return resp
}

// SetHeader sets a response header and returns the response for chaining.
func (r *Response) SetHeader(name, value string) *Response {
	r.Header.Set(name, value)
	return r
}

// SetSessionCookie writes the session cookie for s into the response headers
// using the store's cookie serialization.
func (r *Response) SetSessionCookie(s Session, store SessionStore) {
	r.Header.Add("Set-Cookie", store.Cookie(s))
}
