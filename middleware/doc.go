// Package middleware provides ready-made route middleware for common
// cross-cutting concerns: request identifiers, panic recovery, basic
// authentication, and security headers.
//
// All middleware here wraps router.Handler values and is registered during
// the build phase with Builder.Use.
package middleware
