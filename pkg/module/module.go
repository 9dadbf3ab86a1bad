package module

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/jrycodes/typotrace/pkg/middleware"
)

var (
	ErrEmptyPrefix      = errors.New("module prefix cannot be empty")
	ErrMissingSlash     = errors.New("module prefix must start with /")
	ErrMultiLevelPrefix = errors.New("module prefix must be a single-level sub-path")
)

// Module strips its prefix and delegates to an inner router with its own
// middleware stack. Middleware must be added before the first request.
type Module struct {
	prefix     string
	router     http.Handler
	middleware middleware.System

	once    sync.Once
	handler http.Handler
}

// New creates a Module with the given single-level prefix (e.g. "/api").
// Panics if the prefix is invalid.
func New(prefix string, router http.Handler) *Module {
	if err := ValidatePrefix(prefix); err != nil {
		panic(err)
	}
	return &Module{
		prefix:     prefix,
		router:     router,
		middleware: middleware.New(),
	}
}

// Handler returns the inner router wrapped with the module's middleware stack.
func (m *Module) Handler() http.Handler {
	m.once.Do(func() {
		m.handler = m.middleware.Apply(m.router)
	})
	return m.handler
}

// Prefix returns the module's path prefix.
func (m *Module) Prefix() string {
	return m.prefix
}

// Serve strips the module prefix from the request path and dispatches to the inner router.
func (m *Module) Serve(w http.ResponseWriter, req *http.Request) {
	m.Handler().ServeHTTP(w, stripPrefix(req, m.prefix))
}

// Use adds middleware to the module's stack.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

// ValidatePrefix reports whether prefix can be used to mount a module.
func ValidatePrefix(prefix string) error {
	switch {
	case prefix == "":
		return ErrEmptyPrefix
	case !strings.HasPrefix(prefix, "/"):
		return fmt.Errorf("%w: %s", ErrMissingSlash, prefix)
	case strings.Count(prefix, "/") != 1:
		return fmt.Errorf("%w: %s", ErrMultiLevelPrefix, prefix)
	}
	return nil
}

func stripPrefix(req *http.Request, prefix string) *http.Request {
	path := strings.TrimPrefix(req.URL.Path, prefix)
	if path == "" {
		path = "/"
	}

	request := req.Clone(req.Context())
	request.URL = new(url.URL)
	*request.URL = *req.URL
	request.URL.Path = path
	request.URL.RawPath = ""
	return request
}
