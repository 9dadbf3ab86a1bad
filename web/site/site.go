// Package site renders the localized TypoTrace marketing pages and the
// upload page, and serves their embedded assets.
package site

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jrycodes/typotrace/pkg/module"
	"github.com/jrycodes/typotrace/pkg/routes"
	"github.com/jrycodes/typotrace/pkg/web"
)

//go:embed messages templates static public
var content embed.FS

const layout = "layout"

var (
	homeView     = web.ViewDef{Route: "", Template: "home.html", Title: "navigation.home"}
	uploadView   = web.ViewDef{Route: "/upload", Template: "upload.html", Title: "upload.title"}
	notFoundView = web.ViewDef{Template: "not-found.html", Title: "notFound.title"}
)

var steps = []string{"upload", "aiAnalysis", "typoDetection", "getResults"}

// Options configures locale routing and the data the pages need from the API.
type Options struct {
	DefaultLocale string
	Locales       []string
	APIBasePath   string
	PollInterval  time.Duration
	MaxUploadSize int64
	Subjects      []string
}

// Site serves locale-prefixed pages. Unknown paths render the localized 404 page.
type Site struct {
	templates *web.TemplateSet
	catalogs  Catalogs
	opts      Options
	logger    *slog.Logger
	router    *web.Router
	notFound  http.HandlerFunc
}

type homeData struct {
	Steps           []string
	Subjects        []string
	Ratings         []int
	ContactEndpoint string
}

type uploadConfig struct {
	APIBase        string            `json:"apiBase"`
	PollIntervalMs int64             `json:"pollIntervalMs"`
	MaxUploadBytes int64             `json:"maxUploadBytes"`
	Messages       map[string]string `json:"messages"`
}

type uploadData struct {
	Config uploadConfig
}

// New parses the templates and catalogs and builds the page router.
func New(opts Options, logger *slog.Logger) (*Site, error) {
	catalogs, err := LoadCatalogs(content, "messages", opts.Locales)
	if err != nil {
		return nil, err
	}

	funcs := template.FuncMap{
		"highlight":  Highlight,
		"localePath": localePath,
	}

	ts, err := web.NewTemplateSet(
		content,
		"templates/*.html",
		"templates/views",
		"/",
		funcs,
		[]web.ViewDef{homeView, uploadView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	s := &Site{
		templates: ts,
		catalogs:  catalogs,
		opts:      opts,
		logger:    logger.With("module", "site"),
		router:    web.NewRouter(),
	}
	s.notFound = ts.ErrorHandler(layout, notFoundView, http.StatusNotFound, s.data)
	s.buildRouter()

	return s, nil
}

// Handler returns the page router.
func (s *Site) Handler() http.Handler {
	return s.router
}

// NewStaticModule serves the embedded stylesheets and scripts under /static.
func NewStaticModule(maxAge time.Duration) *module.Module {
	return module.New("/static", web.AssetServer(content, "static", maxAge))
}

func (s *Site) buildRouter() {
	s.router.HandleFunc("GET /{$}", s.redirectDefault)

	home := s.page(homeView)
	s.router.HandleFunc("GET /{locale}", home)
	s.router.HandleFunc("GET /{locale}/{$}", home)
	s.router.HandleFunc("GET /{locale}/upload", s.page(uploadView))

	s.router.Register(routes.Group{
		Routes: web.PublicFileRoutes(content, "public", "favicon.svg", "robots.txt"),
	})

	s.router.SetFallback(s.notFound)
}

func (s *Site) redirectDefault(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, localePath(s.opts.DefaultLocale, ""), http.StatusFound)
}

func (s *Site) page(view web.ViewDef) http.HandlerFunc {
	render := s.templates.PageHandler(layout, view, s.data)
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.catalogs[r.PathValue("locale")]; !ok {
			s.notFound(w, r)
			return
		}
		render(w, r)
	}
}

func (s *Site) data(r *http.Request, view web.ViewDef) (web.ViewData, error) {
	locale := s.locale(r)
	msgs := s.catalogs[locale]

	vd := web.ViewData{
		Title:    view.Title,
		Locale:   locale,
		Locales:  s.opts.Locales,
		Path:     view.Route,
		Messages: msgs,
	}

	switch view.Template {
	case homeView.Template:
		vd.Data = homeData{
			Steps:           steps,
			Subjects:        s.opts.Subjects,
			Ratings:         []int{5, 4, 3, 2, 1},
			ContactEndpoint: s.opts.APIBasePath + "/contact",
		}
	case uploadView.Template:
		vd.Data = uploadData{
			Config: uploadConfig{
				APIBase:        s.opts.APIBasePath,
				PollIntervalMs: s.opts.PollInterval.Milliseconds(),
				MaxUploadBytes: s.opts.MaxUploadSize,
				Messages:       msgs.Prefixed("upload"),
			},
		}
	}

	return vd, nil
}

// locale resolves the request locale from the {locale} path value or the
// first path segment, falling back to the default locale.
func (s *Site) locale(r *http.Request) string {
	candidate := r.PathValue("locale")
	if candidate == "" {
		candidate, _, _ = strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	}
	if _, ok := s.catalogs[candidate]; ok {
		return candidate
	}
	return s.opts.DefaultLocale
}

func localePath(locale, path string) string {
	return "/" + locale + path
}
