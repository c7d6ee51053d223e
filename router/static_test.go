package router

import (
	"net/http"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funnelhttp/funnel/web"
)

func TestStaticHandler(t *testing.T) {
	fsys := fstest.MapFS{
		"index.html":   {Data: []byte("<html></html>")},
		"css/site.css": {Data: []byte("body{}")},
		"data.bin":     {Data: []byte{0x01, 0x02}},
	}

	serve := func(t *testing.T, p string) *web.Response {
		t.Helper()
		result, err := StaticHandler(fsys)(&Context{Params: Params{"path": p}})
		require.NoError(t, err)
		resp, ok := result.(*web.Response)
		require.True(t, ok)
		return resp
	}

	t.Run("serves a file with its content type", func(t *testing.T) {
		resp := serve(t, "css/site.css")
		assert.Equal(t, http.StatusOK, resp.Status)
		assert.Contains(t, resp.Header.Get("Content-Type"), "text/css")
		assert.Equal(t, "body{}", string(resp.Body))
	})

	t.Run("unknown extension falls back to octet-stream", func(t *testing.T) {
		resp := serve(t, "data.bin")
		assert.Equal(t, "application/octet-stream", resp.Header.Get("Content-Type"))
	})

	t.Run("missing file is a 404", func(t *testing.T) {
		resp := serve(t, "absent.txt")
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		resp := serve(t, "../secrets.txt")
		assert.Equal(t, http.StatusNotFound, resp.Status)
	})
}

func TestBuilderStatic(t *testing.T) {
	fsys := fstest.MapFS{"app.js": {Data: []byte("console.log(1)")}}

	r, err := New("").Static("/assets", fsys).Build()
	require.NoError(t, err)

	match, ok := r.Find(http.MethodGet, "/assets/app.js")
	require.True(t, ok)
	assert.Equal(t, "app.js", match.Params.Get("path"))

	result, err := match.Handler(&Context{Params: match.Params})
	require.NoError(t, err)
	resp := result.(*web.Response)
	assert.Equal(t, "console.log(1)", string(resp.Body))
}
