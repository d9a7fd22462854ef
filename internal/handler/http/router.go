package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/OrderEntryGo/internal/service"
	"github.com/utafrali/OrderEntryGo/pkg/health"
	"github.com/utafrali/OrderEntryGo/pkg/middleware"
)

// RouterConfig carries the HTTP surface settings.
type RouterConfig struct {
	CORS           middleware.CORSConfig
	PprofCIDRs     []string
	OrderRateLimit int // requests per second per client IP on POST /order
	OrderRateBurst int
	CacheMaxAge    int // seconds, for the reference-data endpoints
}

// NewRouter creates a chi router with all order-entry routes registered.
func NewRouter(
	orderService *service.OrderService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("order-entry"))
	r.Use(middleware.Tracing("order-entry"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	orderHandler := NewOrderHandler(orderService, logger)
	refdataHandler := NewRefDataHandler(orderService, logger)

	// Reference data consumed by the order form.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CacheControl(cfg.CacheMaxAge))

		r.Get("/products", refdataHandler.Products)
		r.Get("/exchange-rates", refdataHandler.ExchangeRates)
	})

	// Order submission, rate limited per client IP.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.OrderRateLimit, cfg.OrderRateBurst, logger))
		r.Use(ContentTypeJSON)

		r.Post("/order", orderHandler.CreateOrder)
	})

	// Stored orders and confirmation follow-ups.
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", orderHandler.ListOrders)
		r.Get("/{id}", orderHandler.GetOrder)
		r.Get("/{id}/pdf", orderHandler.DownloadReceipt)
		r.Post("/{id}/email", orderHandler.EmailConfirmation)
	})

	// Operational endpoints.
	r.Post("/admin/refdata/reload", refdataHandler.Reload)

	return r
}
