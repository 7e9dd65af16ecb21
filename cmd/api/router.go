package main

import (
	"context"
	"net/http"
	"time"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/author"
	"bookcatalog/internal/book"
	"bookcatalog/internal/category"
	"bookcatalog/internal/config"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/platform/metrics"
	"bookcatalog/internal/user"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type apiHandlers struct {
	books      *book.HTTPHandler
	authors    *author.HTTPHandler
	categories *category.HTTPHandler
	users      *user.HTTPHandler
	auth       *auth.HTTPHandler
	ready      func(ctx context.Context) error
}

// entityRoutes is the CRUD surface shared by books, authors and categories.
type entityRoutes interface {
	List(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Patch(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

func newRouter(cfg config.Config, logger logrus.FieldLogger, h apiHandlers) http.Handler {
	router := mux.NewRouter()
	router.Use(metrics.InstrumentHandler)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	router.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := h.ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix(httpx.APIPrefix).Subrouter()
	api.HandleFunc("/registration", h.users.Register).Methods(http.MethodPost)
	api.HandleFunc("/login_check", h.auth.LoginCheck).Methods(http.MethodPost)

	requireAuth := httpx.AuthMiddleware(cfg.JWTSecret)
	mountEntity(api, "books", h.books, requireAuth)
	mountEntity(api, "authors", h.authors, requireAuth)
	mountEntity(api, "categories", h.categories, requireAuth)

	api.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "Not Found")
	})
	api.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	rateLimiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)

	var handler http.Handler = router
	handler = rateLimiter.Middleware(handler)
	handler = httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes)(handler)
	handler = httpx.CORSMiddleware(cfg.AllowedOrigins)(handler)
	handler = httpx.SecurityHeadersMiddleware(!cfg.IsDevelopment())(handler)
	handler = httpx.AccessLogMiddleware(logger)(handler)
	handler = httpx.RecoveryMiddleware(logger)(handler)
	handler = httpx.RequestIDMiddleware(handler)
	return handler
}

// mountEntity registers anonymous reads and authenticated writes.
func mountEntity(api *mux.Router, collection string, h entityRoutes, requireAuth func(http.Handler) http.Handler) {
	base := "/" + collection
	item := base + "/{id:[0-9]+}"

	api.HandleFunc(base, h.List).Methods(http.MethodGet)
	api.HandleFunc(item, h.Get).Methods(http.MethodGet)
	api.Handle(base, requireAuth(http.HandlerFunc(h.Create))).Methods(http.MethodPost)
	api.Handle(item, requireAuth(http.HandlerFunc(h.Patch))).Methods(http.MethodPatch)
	api.Handle(item, requireAuth(http.HandlerFunc(h.Delete))).Methods(http.MethodDelete)
}
