package router

import (
	"encoding/json"
	"net/http"
	"strings"

	"inventory-api/internal/handler"
	"inventory-api/internal/middleware"
	"inventory-api/internal/model"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(productHandler *handler.ProductHandler, logger zerolog.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	// low_stock must be registered before {id} so it is not captured as an id
	r.HandleFunc("/products/low_stock", productHandler.LowStock).Methods(http.MethodGet)

	r.HandleFunc("/products", productHandler.Create).Methods(http.MethodPost)
	r.HandleFunc("/products", productHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", productHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/products/{id}", productHandler.Replace).Methods(http.MethodPut)
	r.HandleFunc("/products/{id}", productHandler.Patch).Methods(http.MethodPatch)
	r.HandleFunc("/products/{id}", productHandler.Delete).Methods(http.MethodDelete)
	r.HandleFunc("/products/{id}/add_stock", productHandler.AddStock).Methods(http.MethodPost)
	r.HandleFunc("/products/{id}/remove_stock", productHandler.RemoveStock).Methods(http.MethodPost)

	r.NotFoundHandler = jsonError(http.StatusNotFound, model.ErrCodeRouteNotFound, "not found")
	r.MethodNotAllowedHandler = jsonError(http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed")

	// Apply middleware in order: CorrelationID -> Recovery -> Logging -> CORS
	var h http.Handler = stripTrailingSlash(r)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.CorrelationID(h)

	return h
}

// stripTrailingSlash lets /products/ and /products/{id}/ reach the same
// routes as their slash-less forms without a redirect.
func stripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(r.URL.Path) > 1 && strings.HasSuffix(r.URL.Path, "/") {
			r.URL.Path = strings.TrimRight(r.URL.Path, "/")
			if r.URL.RawPath != "" {
				r.URL.RawPath = strings.TrimRight(r.URL.RawPath, "/")
			}
		}
		next.ServeHTTP(w, r)
	})
}

func jsonError(status int, code, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(model.ErrorResponse{
			Error:         message,
			Code:          code,
			CorrelationID: middleware.CorrelationIDFromContext(r.Context()),
		})
	})
}
