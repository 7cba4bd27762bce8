// Package scalar serves the Scalar API reference UI against the service's
// OpenAPI document.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/attest-hq/attest/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

// NewModule creates a module that serves the Scalar API reference UI at
// basePath, reading the spec from apiBasePath/openapi.json.
func NewModule(basePath, apiBasePath string) *module.Module {
	router := buildRouter(apiBasePath)
	return module.New(basePath, router)
}

func buildRouter(apiBasePath string) http.Handler {
	mux := http.NewServeMux()

	tmpl := template.Must(template.ParseFS(staticFS, "index.html"))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{"SpecURL": apiBasePath + "/openapi.json"})
	})

	return mux
}
