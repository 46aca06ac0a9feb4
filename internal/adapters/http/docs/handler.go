// Package docs serves the embedded OpenAPI specification.
package docs

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
)

// Register attaches the OpenAPI spec route to the router.
//
//	GET /openapi.yaml -> Embedded OpenAPI spec
func Register(_ context.Context, r *mux.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.HandleFunc("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	}).Methods(http.MethodGet)
}
