package api

import (
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"
)

// pages maps public URLs to HTML files under the static directory.
var pages = map[string]string{
	"/":                "index.html",
	"/about":           "about.html",
	"/services":        "services.html",
	"/check-status":    "check-status.html",
	"/contact":         "contact.html",
	"/admin":           "admin-login.html",
	"/admin/dashboard": "admin-dashboard.html",
}

// registerPages serves the fixed pages from dir and falls back to a file
// server for everything else. Must be registered after the API routes.
func registerPages(r *mux.Router, dir string) {
	for path, file := range pages {
		full := filepath.Join(dir, file)
		r.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
			http.ServeFile(w, req, full)
		}).Methods(http.MethodGet)
	}
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(dir))).Methods(http.MethodGet)
}
