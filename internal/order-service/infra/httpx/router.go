package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jcmexdev/order-management/internal/order-service/infra/httpx/middlewares"
	"github.com/jcmexdev/order-management/internal/pkg/telemetry"
)

// APIPrefix is the second mount point of the order routes; they are also
// served from the root.
const APIPrefix = "/api"

func NewRouter(handler *Handler, metrics *telemetry.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewares.AttachRequestMetadata)
	r.Use(middlewares.Instrument(metrics))
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", handler.Health)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	orderRoutes := func(r chi.Router) {
		r.Post("/orders", handler.CreateOrder)
		r.Get("/orders/{id}", handler.GetOrderByID)
		r.Get("/analytics/weekly", handler.WeeklyAnalytics)
	}
	r.Group(orderRoutes)
	r.Route(APIPrefix, orderRoutes)

	return otelhttp.NewHandler(r, "order-service")
}
