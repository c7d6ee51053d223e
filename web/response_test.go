package web

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseConstructors(t *testing.T) {
	t.Run("Text", func(t *testing.T) {
		resp := Text(http.StatusNotFound, "not found")

		assert.Equal(t, http.StatusNotFound, resp.Status)
		assert.Equal(t, "text/plain; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, "not found", string(resp.Body))
	})

	t.Run("HTML", func(t *testing.T) {
		resp := HTML(http.StatusOK, "<h1>hi</h1>")

		assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
		assert.Equal(t, "<h1>hi</h1>", string(resp.Body))
	})

	t.Run("Redirect", func(t *testing.T) {
		resp := Redirect("/login")

		assert.Equal(t, http.StatusFound, resp.Status)
		assert.Equal(t, "/login", resp.Header.Get("Location"))
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	})
}

func TestResponseSetHeader(t *testing.T) {
	resp := NewResponse(http.StatusOK).
		SetHeader("X-Request-ID", "r1").
		SetHeader("X-Request-ID", "r2")

	assert.Equal(t, "r2", resp.Header.Get("X-Request-ID"))
}
