package web

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Payload couples a handler result body with an explicit status code. A
// string body becomes a text/plain response; any other body is JSON-encoded.
type Payload struct {
	Body   any
	Status int
}

// WithStatus wraps body so that the converted response carries the given
// status code instead of the default 200.
func WithStatus(body any, status int) Payload {
	return Payload{Body: body, Status: status}
}

// ToResponse normalizes a handler result into a Response by trying the
// conversion rules in order: *Response, bare status code, Payload, plain
// string, JSON fallback. A value the JSON fallback cannot encode is an error.
func ToResponse(v any) (*Response, error) {
	switch val := v.(type) {
	case *Response:
		if val == nil {
			return nil, fmt.Errorf("web: handler returned a nil response")
		}
		return val, nil
	case int:
		return NewResponse(val), nil
	case Payload:
		status := val.Status
		if status == 0 {
			status = http.StatusOK
		}
		if body, ok := val.Body.(string); ok {
			return Text(status, body), nil
		}
		return jsonResponse(status, val.Body)
	case string:
		return Text(http.StatusOK, val), nil
	}

	return jsonResponse(http.StatusOK, v)
}

func jsonResponse(status int, v any) (*Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("web: encode response body: %w", err)
	}

	resp := NewResponse(status)
	resp.Header.Set("Content-Type", "application/json")
	resp.Body = body
	return resp, nil
}
