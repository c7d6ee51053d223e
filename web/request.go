package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/funnelhttp/funnel/form"
)

// ErrNoBody is returned by JSON when the request carries no body.
var ErrNoBody = errors.New("web: request has no body")

// Request is the internal model of one incoming HTTP request. It is created
// by the connection layer, handed to the processing stage, and destroyed once
// the response has been written.
//
// All fields except the extension attributes are fixed after construction.
type Request struct {
	// Method is the HTTP method token, uppercase.
	Method string

	// URI is the request target as received on the wire, including any
	// query component.
	URI string

	// Header holds the request headers. Multi-valued headers keep all
	// their values.
	Header http.Header

	// Body is the full request body, nil when the request had none.
	Body []byte

	// Form holds decoded form fields when the request body was form or
	// multipart encoded, nil otherwise.
	Form map[string]string

	// Files holds uploaded files from a multipart body, nil otherwise.
	Files map[string]form.File

	// Session is the resolved session handle when a session store is
	// configured, nil otherwise.
	Session Session

	// RemoteAddr is the peer address of the connection that carried the
	// request.
	RemoteAddr string

	ext map[string]any
}

// NewRequest returns a Request with the given start line fields and an empty
// header map.
func NewRequest(method, uri string) *Request {
	return &Request{
		Method: strings.ToUpper(method),
		URI:    uri,
		Header: make(http.Header),
	}
}

// Path returns the URI with any query component stripped.
func (r *Request) Path() string {
	if i := strings.IndexByte(r.URI, '?'); i >= 0 {
		return r.URI[:i]
	}
	return r.URI
}

// Query returns the decoded query parameters of the request URI. A malformed
// query yields an empty map.
func (r *Request) Query() url.Values {
	i := strings.IndexByte(r.URI, '?')
	if i < 0 {
		return url.Values{}
	}
	values, err := url.ParseQuery(r.URI[i+1:])
	if err != nil {
		return url.Values{}
	}
	return values
}

// JSON decodes the request body as JSON into v. It returns ErrNoBody when the
// request has no body.
func (r *Request) JSON(v any) error {
	if len(r.Body) == 0 {
		return ErrNoBody
	}
	return json.Unmarshal(r.Body, v)
}

// Set attaches a named extension attribute to the request. Extension
// attributes are the only mutable part of a Request; middleware uses them to
// pass values to downstream handlers.
func (r *Request) Set(name string, value any) {
	if r.ext == nil {
		r.ext = make(map[string]any)
	}
	r.ext[name] = value
}

// Get returns the extension attribute with the given name and whether it was
// set.
func (r *Request) Get(name string) (any, bool) {
	v, ok := r.ext[name]
	return v, ok
}

// Cookie returns the value of the named cookie from the Cookie request
// header, and whether it was present.
func (r *Request) Cookie(name string) (string, bool) {
	for _, header := range r.Header.Values("Cookie") {
		for _, cookie := range strings.Split(header, ";") {
			key, value, found := strings.Cut(cookie, "=")
			if found && strings.TrimSpace(key) == name {
				return strings.TrimSpace(value), true
			}
		}
	}
	return "", false
}
