package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "signd/docs"
)

// MountSwagger serves the generated OpenAPI documentation under /docs.
func MountSwagger(r chi.Router) {
	h := httpSwagger.Handler(httpSwagger.URL("/docs/doc.json"))
	r.Get("/docs/*", h.ServeHTTP)
	// Serve the index for the bare path as well so GET /docs is a 200.
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		req.URL.Path = "/docs/index.html"
		h.ServeHTTP(w, req)
	})
}
