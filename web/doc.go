// Package web defines the request and response model shared between the
// connection layer and the processing stage.
//
// A Request is built once per incoming wire request and is read-only for the
// rest of its life, except for extension attributes set through Set. A
// Response is produced by converting a handler result (see ToResponse) and is
// then mutated in a fixed order: session cookie, CORS headers, catcher
// substitution.
//
// # Handler results
//
// Handlers return an arbitrary value that is normalized with an ordered set
// of rules, the first matching shape winning:
//
//  1. *Response: used as-is
//  2. int: bare status code, empty body
//  3. Payload: explicit body plus status
//  4. string: text/plain body, status 200
//  5. anything else: JSON-encoded body, status 200
//
// A value that fails JSON encoding is a conversion error and surfaces as an
// internal server error response.
package web
