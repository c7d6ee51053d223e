package router

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(body string) Handler {
	return func(*Context) (any, error) {
		return body, nil
	}
}

func TestBuilderBuild(t *testing.T) {
	t.Run("builds empty router", func(t *testing.T) {
		r, err := New("").Build()
		require.NoError(t, err)
		require.NotNil(t, r)

		_, ok := r.Find(http.MethodGet, "/")
		assert.False(t, ok)
	})

	t.Run("rejects nil handler", func(t *testing.T) {
		_, err := New("").Get("/x", nil).Build()
		require.Error(t, err)
	})

	t.Run("keeps registered routes with full templates", func(t *testing.T) {
		r, err := New("/api").
			Get("/items", okHandler("items")).
			Post("/items", okHandler("create")).
			Build()
		require.NoError(t, err)

		routes := r.Routes()
		require.Len(t, routes, 2)
		assert.Equal(t, "/api/items", routes[0].Path)
		assert.Equal(t, http.MethodGet, routes[0].Method)
		assert.Equal(t, http.MethodPost, routes[1].Method)
	})
}

func TestRouterFind(t *testing.T) {
	t.Run("matches literal path", func(t *testing.T) {
		r, err := New("").Get("/users", okHandler("list")).Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/users")
		require.True(t, ok)
		assert.Equal(t, "/users", match.Route.Path)
		assert.Empty(t, match.Params)
	})

	t.Run("matches root path", func(t *testing.T) {
		r, err := New("").Get("/", okHandler("root")).Build()
		require.NoError(t, err)

		_, ok := r.Find(http.MethodGet, "/")
		assert.True(t, ok)
	})

	t.Run("captures named parameter", func(t *testing.T) {
		r, err := New("").Get("/users/{id}", okHandler("user")).Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/users/42")
		require.True(t, ok)
		assert.Equal(t, "42", match.Params.Get("id"))
	})

	t.Run("parameter does not match missing segment", func(t *testing.T) {
		r, err := New("").Get("/users/{id}", okHandler("user")).Build()
		require.NoError(t, err)

		_, ok := r.Find(http.MethodGet, "/users")
		assert.False(t, ok)
	})

	t.Run("strips query component", func(t *testing.T) {
		r, err := New("").Get("/users/{id}", okHandler("user")).Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/users/42?verbose=1")
		require.True(t, ok)
		assert.Equal(t, "42", match.Params.Get("id"))
	})

	t.Run("method selects the trie", func(t *testing.T) {
		r, err := New("").
			Get("/items", okHandler("list")).
			Post("/items", okHandler("create")).
			Build()
		require.NoError(t, err)

		_, ok := r.Find(http.MethodDelete, "/items")
		assert.False(t, ok)

		match, ok := r.Find(http.MethodPost, "/items")
		require.True(t, ok)
		assert.Equal(t, http.MethodPost, match.Route.Method)
	})

	t.Run("literal wins over parameter at the same depth", func(t *testing.T) {
		r, err := New("").
			Get("/users/new", okHandler("form")).
			Get("/users/{id}", okHandler("user")).
			Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/users/new")
		require.True(t, ok)
		assert.Equal(t, "/users/new", match.Route.Path)
		assert.Empty(t, match.Params)

		match, ok = r.Find(http.MethodGet, "/users/7")
		require.True(t, ok)
		assert.Equal(t, "/users/{id}", match.Route.Path)
		assert.Equal(t, "7", match.Params.Get("id"))
	})

	t.Run("backtracks from dead literal branch to parameter", func(t *testing.T) {
		r, err := New("").
			Get("/users/new/form", okHandler("form")).
			Get("/users/{id}/posts", okHandler("posts")).
			Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/users/new/posts")
		require.True(t, ok)
		assert.Equal(t, "/users/{id}/posts", match.Route.Path)
		assert.Equal(t, "new", match.Params.Get("id"))
	})

	t.Run("trailing wildcard captures the remainder", func(t *testing.T) {
		r, err := New("").Get("/static/{*path}", okHandler("file")).Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/static/css/site.css")
		require.True(t, ok)
		assert.Equal(t, "css/site.css", match.Params.Get("path"))

		_, ok = r.Find(http.MethodGet, "/static")
		assert.False(t, ok)
	})

	t.Run("typed int parameter only matches digits", func(t *testing.T) {
		r, err := New("").Get("/users/{id:int}", okHandler("user")).Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/users/42")
		require.True(t, ok)
		assert.Equal(t, "42", match.Params.Get("id"))

		_, ok = r.Find(http.MethodGet, "/users/alice")
		assert.False(t, ok)
	})

	t.Run("nested parameters capture independently", func(t *testing.T) {
		r, err := New("").Get("/orgs/{org}/repos/{repo}", okHandler("repo")).Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/orgs/acme/repos/widget")
		require.True(t, ok)
		assert.Equal(t, "acme", match.Params.Get("org"))
		assert.Equal(t, "widget", match.Params.Get("repo"))
	})
}

func TestBasePathJoining(t *testing.T) {
	t.Run("joins base path and route path", func(t *testing.T) {
		r, err := New("/api").Get("/items", okHandler("items")).Build()
		require.NoError(t, err)

		_, ok := r.Find(http.MethodGet, "/api/items")
		assert.True(t, ok)
	})

	t.Run("collapses repeated slashes", func(t *testing.T) {
		r, err := New("/api/").Get("/items", okHandler("items")).Build()
		require.NoError(t, err)

		routes := r.Routes()
		require.Len(t, routes, 1)
		assert.Equal(t, "/api/items", routes[0].Path)
	})

	t.Run("empty base path keeps routes at root", func(t *testing.T) {
		r, err := New("").Get("/items", okHandler("items")).Build()
		require.NoError(t, err)

		_, ok := r.Find(http.MethodGet, "/items")
		assert.True(t, ok)
	})
}

func TestRouteConflicts(t *testing.T) {
	t.Run("duplicate path and method", func(t *testing.T) {
		_, err := New("").
			Get("/users", okHandler("a")).
			Get("/users", okHandler("b")).
			Build()

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("different parameter names at the same position", func(t *testing.T) {
		_, err := New("").
			Get("/users/{id}/posts", okHandler("a")).
			Get("/users/{name}/comments", okHandler("b")).
			Build()

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("wildcard must be the last segment", func(t *testing.T) {
		_, err := New("").Get("/files/{*path}/meta", okHandler("a")).Build()

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("same method on different paths is fine", func(t *testing.T) {
		_, err := New("").
			Get("/users", okHandler("a")).
			Get("/users/{id}", okHandler("b")).
			Build()
		require.NoError(t, err)
	})

	t.Run("unsupported parameter type", func(t *testing.T) {
		_, err := New("").Get("/users/{id:uuid}", okHandler("a")).Build()
		require.Error(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	tag := func(name string, order *[]string) Middleware {
		return func(next Handler) Handler {
			return func(c *Context) (any, error) {
				*order = append(*order, name)
				return next(c)
			}
		}
	}

	t.Run("first registered runs outermost", func(t *testing.T) {
		var order []string
		r, err := New("").
			Use(tag("first", &order), tag("second", &order)).
			Get("/x", func(*Context) (any, error) {
				order = append(order, "handler")
				return "", nil
			}).
			Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/x")
		require.True(t, ok)

		_, err = match.Handler(&Context{Params: match.Params})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "handler"}, order)
	})

	t.Run("middleware can short-circuit", func(t *testing.T) {
		r, err := New("").
			Use(func(Handler) Handler {
				return func(*Context) (any, error) {
					return http.StatusUnauthorized, nil
				}
			}).
			Get("/x", okHandler("never")).
			Build()
		require.NoError(t, err)

		match, _ := r.Find(http.MethodGet, "/x")
		result, err := match.Handler(&Context{})
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, result)
	})

	t.Run("raw route handler stays unwrapped", func(t *testing.T) {
		var order []string
		r, err := New("").
			Use(tag("mw", &order)).
			Get("/x", okHandler("raw")).
			Build()
		require.NoError(t, err)

		match, _ := r.Find(http.MethodGet, "/x")
		result, err := match.Route.Handler()(&Context{})
		require.NoError(t, err)
		assert.Equal(t, "raw", result)
		assert.Empty(t, order)
	})
}

func TestServices(t *testing.T) {
	t.Run("nested service routes live under the parent base path", func(t *testing.T) {
		child := New("/users").Get("/{id}", okHandler("user"))
		r, err := New("/api").Service(child).Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/api/users/9")
		require.True(t, ok)
		assert.Equal(t, "9", match.Params.Get("id"))
	})

	t.Run("parent middleware wraps service routes", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next Handler) Handler {
				return func(c *Context) (any, error) {
					order = append(order, name)
					return next(c)
				}
			}
		}

		child := New("/inner").Use(mw("child")).Get("/x", okHandler("x"))
		r, err := New("/outer").Use(mw("parent")).Service(child).Build()
		require.NoError(t, err)

		match, ok := r.Find(http.MethodGet, "/outer/inner/x")
		require.True(t, ok)

		_, err = match.Handler(&Context{})
		require.NoError(t, err)
		assert.Equal(t, []string{"parent", "child"}, order)
	})

	t.Run("conflicts across services are detected", func(t *testing.T) {
		child := New("").Get("/items", okHandler("svc"))
		_, err := New("").
			Get("/items", okHandler("own")).
			Service(child).
			Build()

		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict)
	})
}

func TestContextParams(t *testing.T) {
	t.Run("ParamInt parses captured values", func(t *testing.T) {
		c := &Context{Params: Params{"id": "42"}}

		id, err := c.ParamInt("id")
		require.NoError(t, err)
		assert.Equal(t, 42, id)
	})

	t.Run("ParamInt fails on non-numeric values", func(t *testing.T) {
		c := &Context{Params: Params{"id": "abc"}}

		_, err := c.ParamInt("id")
		assert.Error(t, err)
	})

	t.Run("missing parameter is empty", func(t *testing.T) {
		c := &Context{Params: Params{}}
		assert.Empty(t, c.Param("nope"))
	})
}
