package site

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"visionstore/catalog"
	"visionstore/checkout"
	"visionstore/config"
	"visionstore/logger"
)

type Handler struct {
	catalog     *catalog.Catalog
	checkout    *checkout.Service
	successPath string
	support     string
	logger      *slog.Logger
}

func NewHandler(cat *catalog.Catalog, svc *checkout.Service, cfg *config.Config, logger *slog.Logger) *Handler {
	return &Handler{
		catalog:     cat,
		checkout:    svc,
		successPath: cfg.SuccessPath,
		support:     cfg.SupportEmail,
		logger:      logger,
	}
}

// Options controls the parts of the router that depend on deployment.
type Options struct {
	// CSRFKey enables gorilla/csrf on the API when set.
	CSRFKey    string
	CSRFSecure bool
	Gatherer   prometheus.Gatherer
}

// NewRouter registers every route on a chi router.
func NewRouter(h *Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(h.logger))

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	r.Get(h.successPath, h.successPage)

	r.Group(func(r chi.Router) {
		if opts.CSRFKey != "" {
			r.Use(csrf.Protect(
				[]byte(opts.CSRFKey),
				csrf.SameSite(csrf.SameSiteStrictMode),
				csrf.Secure(opts.CSRFSecure),
			))
		}

		r.Get("/api/products", h.listProducts)
		r.Get("/api/products/{id}/sku", h.resolveSKU)
		r.Post("/api/checkout", h.submitCheckout)
		r.HandleFunc("/api/gooten/create-order", h.createOrder)
	})

	return r
}

// requestLogger stores a logger carrying the request id in the context.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With(
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)
			next.ServeHTTP(w, r.WithContext(logger.NewContext(r.Context(), l)))
		})
	}
}

// setCSRFHeader hands the token to the storefront the way every API response
// in this service does. It is a no-op when CSRF is disabled.
func setCSRFHeader(w http.ResponseWriter, r *http.Request) {
	if token := csrf.Token(r); token != "" {
		w.Header().Set("X-CSRF-Token", token)
	}
}
