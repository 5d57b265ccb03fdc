package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/order-management/internal/order-service/domain"
	"github.com/jcmexdev/order-management/internal/order-service/ports"
	"github.com/jcmexdev/order-management/internal/pkg/constants"
	"github.com/jcmexdev/order-management/internal/pkg/telemetry"
)

const (
	msgOrderNotFound = "Order not found"
	msgInvalidID     = "invalid order id"
	msgInternal      = "internal error"
)

// Handler handles incoming HTTP requests for the Order domain.
type Handler struct {
	orderService ports.OrderService
	metrics      *telemetry.Metrics // nil-safe
}

func NewHandler(os ports.OrderService, metrics *telemetry.Metrics) *Handler {
	return &Handler{
		orderService: os,
		metrics:      metrics,
	}
}

// CreateOrder validates and stores the submitted order.
// A replay of an idempotency key answers 200 with the original order.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	in, err := decodeNewOrder(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errInvalidBody.Error())
		return
	}

	idempKey, _ := r.Context().Value(constants.ContextKeyIdempotencyKey).(string)

	order, replayed, err := h.orderService.CreateOrder(r.Context(), idempKey, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	} else if h.metrics != nil {
		h.metrics.OrdersCreated.Inc()
	}

	writeJSON(w, status, mapOrderToResponse(order))
}

// GetOrderByID retrieves a single order by its numeric ID.
func (h *Handler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseOrderID(chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapOrderToResponse(order))
}

func (h *Handler) WeeklyAnalytics(w http.ResponseWriter, r *http.Request) {
	s := h.orderService.WeeklyAnalytics(r.Context())
	writeJSON(w, http.StatusOK, AnalyticsResponse{
		OrdersCount:     s.OrdersCount,
		TotalAmount:     s.TotalAmount,
		BigOrdersCount:  s.BigOrdersCount,
		UniqueCustomers: s.UniqueCustomers,
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		if h.metrics != nil {
			h.metrics.OrdersRejected.WithLabelValues(vErr.Message).Inc()
		}
		writeError(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, msgOrderNotFound)
	default:
		slog.ErrorContext(r.Context(), "unexpected service error", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// mapOrderToResponse converts the domain order to the HTTP response format.
func mapOrderToResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Items:      mapItems(order.Items),
		Total:      order.Total(),
		IsBigOrder: order.IsBigOrder(),
		CreatedAt:  order.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func mapItems(items []domain.OrderItem) []OrderItemResponse {
	out := make([]OrderItemResponse, len(items))
	for i, it := range items {
		out[i] = OrderItemResponse{
			ProductID: it.ProductID,
			Qty:       it.Quantity,
			Price:     it.UnitPrice,
		}
	}
	return out
}

// writeJSON encodes v before committing the status, so an unencodable value
// turns into a 500 instead of a success status with an empty body.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode response", "status", status, "error", err)
		status = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: msgInternal})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
