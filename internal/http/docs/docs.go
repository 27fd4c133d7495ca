// Package docs serves the OpenAPI document and a Swagger UI for it. Only
// mounted in the dev environment.
package docs

import (
	_ "embed"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// SpecPath is where the embedded OpenAPI document is served.
const SpecPath = "/openapi/v1.yaml"

//go:embed openapi.yaml
var spec []byte

// Register mounts the OpenAPI document and the Swagger UI on mux. The UI
// assets come from the binary, so the page works without network access.
func Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+SpecPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(spec)
	})
	mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL(SpecPath)))
}
