package router

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"path"

	"github.com/funnelhttp/funnel/web"
)

// StaticHandler returns a handler serving files from fsys. The file path is
// taken from the "path" wildcard parameter of the matched route. Works with
// os.DirFS, embed.FS, and any fs.FS implementation.
func StaticHandler(fsys fs.FS) Handler {
	return func(c *Context) (any, error) {
		name := path.Clean(c.Param("path"))
		if name == "." || name == ".." || !fs.ValidPath(name) {
			return web.Text(http.StatusNotFound, "file not found"), nil
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return web.Text(http.StatusNotFound, "file not found"), nil
			}
			return nil, err
		}

		contentType := mime.TypeByExtension(path.Ext(name))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		resp := web.NewResponse(http.StatusOK)
		resp.Header.Set("Content-Type", contentType)
		resp.Body = data
		return resp, nil
	}
}

// Static registers a GET route serving the file system under the given path
// prefix, using a trailing wildcard to capture the file path.
func (b *Builder) Static(prefix string, fsys fs.FS) *Builder {
	return b.Get(joinPath(prefix)+"/{*path}", StaticHandler(fsys))
}
