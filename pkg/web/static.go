package web

import (
	"bytes"
	"io/fs"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/jrycodes/typotrace/pkg/routes"
)

// AssetServer serves files from subdir of fsys with a public cache policy.
// Directory listings are not served.
func AssetServer(fsys fs.FS, subdir string, maxAge time.Duration) http.Handler {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		panic("failed to create sub-filesystem: " + err.Error())
	}

	files := http.FileServer(http.FS(sub))
	cache := "public, max-age=" + strconv.Itoa(int(maxAge.Seconds()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" || path.Ext(r.URL.Path) == "" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Cache-Control", cache)
		files.ServeHTTP(w, r)
	})
}

// PublicFile returns a handler that serves a single file from fsys.
func PublicFile(fsys fs.FS, subdir, filename string) http.HandlerFunc {
	name := path.Join(subdir, filename)
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeContent(w, r, filename, time.Time{}, bytes.NewReader(data))
	}
}

// PublicFileRoutes generates routes for serving multiple files at root-level URLs.
func PublicFileRoutes(fsys fs.FS, subdir string, files ...string) []routes.Route {
	list := make([]routes.Route, len(files))
	for i, file := range files {
		list[i] = routes.Get("/"+file, PublicFile(fsys, subdir, file))
	}
	return list
}
