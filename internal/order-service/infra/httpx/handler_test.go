package httpx

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/order-management/internal/order-service/app"
	"github.com/jcmexdev/order-management/internal/pkg/cache"
	"github.com/jcmexdev/order-management/internal/pkg/constants"
	"github.com/jcmexdev/order-management/internal/pkg/telemetry"
)

// --- helpers ---

type testServer struct {
	router  http.Handler
	service *app.OrderService
	metrics *telemetry.Metrics
	now     time.Time
}

func newTestServer(t *testing.T, c cache.Cache) *testServer {
	t.Helper()
	ts := &testServer{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	ts.service = app.NewOrderService(app.NewStore(), c, nil, time.Hour).
		WithClock(func() time.Time { return ts.now })
	ts.metrics = telemetry.NewMetrics("test")
	ts.router = NewRouter(NewHandler(ts.service, ts.metrics), ts.metrics)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

// --- CreateOrder ---

func TestCreateOrder_Success(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/orders",
		`{"customerId":"c1","items":[{"productId":"p1","qty":2,"price":100},{"productId":"p2","qty":1,"price":50}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode[OrderResponse](t, rec)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "c1", resp.CustomerID)
	assert.Equal(t, 250.0, resp.Total)
	assert.False(t, resp.IsBigOrder)
	assert.Equal(t, "2026-03-10T12:00:00Z", resp.CreatedAt)
	assert.Equal(t, []OrderItemResponse{
		{ProductID: "p1", Qty: 2, Price: 100},
		{ProductID: "p2", Qty: 1, Price: 50},
	}, resp.Items)
}

func TestCreateOrder_BigOrder(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/orders", `{"customerId":"c1","items":[{"productId":"p1","qty":100,"price":150}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[OrderResponse](t, rec)
	assert.Equal(t, 15000.0, resp.Total)
	assert.True(t, resp.IsBigOrder)
}

func TestCreateOrder_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"missing customer", `{"items":[{"productId":"p1","qty":1,"price":1}]}`, "customerId is required"},
		{"empty customer", `{"customerId":"","items":[{"productId":"p1","qty":1,"price":1}]}`, "customerId is required"},
		{"null customer", `{"customerId":null,"items":[]}`, "customerId is required"},
		{"missing items", `{"customerId":"c1"}`, "order must contain at least one item"},
		{"empty items", `{"customerId":"c1","items":[]}`, "order must contain at least one item"},
		{"items not an array", `{"customerId":"c1","items":{"productId":"p1"}}`, "order must contain at least one item"},
		{"missing product", `{"customerId":"c1","items":[{"qty":1,"price":1}]}`, "item missing required fields"},
		{"zero product", `{"customerId":"c1","items":[{"productId":0,"qty":1,"price":1}]}`, "item missing required fields"},
		{"qty as string", `{"customerId":"c1","items":[{"productId":"p1","qty":"1","price":1}]}`, "item missing required fields"},
		{"missing price", `{"customerId":"c1","items":[{"productId":"p1","qty":1}]}`, "item missing required fields"},
		{"item not an object", `{"customerId":"c1","items":[42]}`, "item missing required fields"},
		{"zero qty", `{"customerId":"c1","items":[{"productId":"p1","qty":0,"price":1}]}`, "quantity must be positive"},
		{"negative price", `{"customerId":"c1","items":[{"productId":"p1","qty":1,"price":-1}]}`, "price cannot be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)

			rec := ts.do(t, http.MethodPost, "/orders", tt.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.msg, decode[ErrorResponse](t, rec).Error)

			// nothing was stored
			assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/orders/1", "").Code)
		})
	}
}

func TestCreateOrder_InvalidJSON(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, body := range []string{"", `{"customerId":`, `[1,2]`, `"x"`} {
		rec := ts.do(t, http.MethodPost, "/orders", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid request body", decode[ErrorResponse](t, rec).Error)
	}
}

func TestCreateOrder_NumericIdentifiers(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/orders", `{"customerId":42,"items":[{"productId":7,"qty":1,"price":5}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[OrderResponse](t, rec)
	assert.Equal(t, "42", resp.CustomerID)
	assert.Equal(t, "7", resp.Items[0].ProductID)
}

func TestCreateOrder_CustomerIdentifierPresence(t *testing.T) {
	ts := newTestServer(t, nil)

	for body, want := range map[string]string{
		`{"customerId":0,"items":[{"productId":"p1","qty":1,"price":1}]}`:          "0",
		`{"customerId":false,"items":[{"productId":"p1","qty":1,"price":1}]}`:      "false",
		`{"customerId":{"id": 9},"items":[{"productId":"p1","qty":1,"price":1}]}`: `{"id":9}`,
	} {
		rec := ts.do(t, http.MethodPost, "/orders", body)
		require.Equal(t, http.StatusCreated, rec.Code, body)
		assert.Equal(t, want, decode[OrderResponse](t, rec).CustomerID)
	}
}

func TestCreateOrder_CompositeProductID(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/orders", `{"customerId":"c1","items":[{"productId":{"sku":1},"qty":1,"price":5},{"productId":[],"qty":1,"price":5}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[OrderResponse](t, rec)
	assert.Equal(t, `{"sku":1}`, resp.Items[0].ProductID)
	assert.Equal(t, "[]", resp.Items[1].ProductID)
}

func TestCreateOrder_FalsyProductID(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, pid := range []string{`0`, `0.0`, `false`, `""`, `null`} {
		rec := ts.do(t, http.MethodPost, "/orders", `{"customerId":"c1","items":[{"productId":`+pid+`,"qty":1,"price":1}]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code, pid)
		assert.Equal(t, "item missing required fields", decode[ErrorResponse](t, rec).Error)
	}
}

func TestCreateOrder_OversizedTotal(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/orders", `{"customerId":"c1","items":[{"productId":"p1","qty":1e308,"price":10}]}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "order total is too large", decode[ErrorResponse](t, rec).Error)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/orders/1", "").Code)

	// analytics stays encodable
	rec = ts.do(t, http.MethodGet, "/analytics/weekly", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ordersCount":0,"totalAmount":0,"bigOrdersCount":0,"uniqueCustomers":0}`, rec.Body.String())
}

func TestWriteJSON_UnencodableValue(t *testing.T) {
	rec := httptest.NewRecorder()

	writeJSON(rec, http.StatusOK, AnalyticsResponse{TotalAmount: math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestCreateOrder_SequentialIDs(t *testing.T) {
	ts := newTestServer(t, nil)

	for want := int64(1); want <= 3; want++ {
		rec := ts.do(t, http.MethodPost, "/orders", `{"customerId":"c1","items":[{"productId":"p1","qty":1,"price":1}]}`)
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, want, decode[OrderResponse](t, rec).ID)
	}
}

func TestCreateOrder_IdempotentReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.NewRedisCache(mr.Addr(), "order")
	t.Cleanup(func() { _ = c.Close() })
	ts := newTestServer(t, c)

	body := `{"customerId":"c1","items":[{"productId":"p1","qty":1,"price":10}]}`

	first := ts.do(t, http.MethodPost, "/orders", body, constants.HeaderXIdempotencyKey, "abc")
	require.Equal(t, http.StatusCreated, first.Code)

	second := ts.do(t, http.MethodPost, "/orders", body, constants.HeaderXIdempotencyKey, "abc")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, int64(1), decode[OrderResponse](t, second).ID)

	third := ts.do(t, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusCreated, third.Code)
	assert.Equal(t, int64(2), decode[OrderResponse](t, third).ID)
}

// --- GetOrderByID ---

func TestGetOrder_Success(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(t, http.MethodPost, "/orders", `{"customerId":"c1","items":[{"productId":"p1","qty":3,"price":0.1}]}`)

	rec := ts.do(t, http.MethodGet, "/orders/1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[OrderResponse](t, rec)
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "c1", resp.CustomerID)
	assert.Equal(t, 0.3, resp.Total)
	assert.Len(t, resp.Items, 1)
}

func TestGetOrder_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/orders/999", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Order not found", decode[ErrorResponse](t, rec).Error)
}

func TestGetOrder_InvalidID(t *testing.T) {
	ts := newTestServer(t, nil)

	for _, id := range []string{"abc", "1.5", "12abc"} {
		rec := ts.do(t, http.MethodGet, "/orders/"+id, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.Equal(t, "invalid order id", decode[ErrorResponse](t, rec).Error)
	}
}

func TestAPIPrefix(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodPost, "/api/orders", `{"customerId":"c1","items":[{"productId":"p1","qty":1,"price":1}]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	// both prefixes see the same store
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/orders/1", "").Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/orders/1", "").Code)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/api/analytics/weekly", "").Code)
}

// --- WeeklyAnalytics ---

func TestWeeklyAnalytics(t *testing.T) {
	ts := newTestServer(t, nil)
	now := ts.now

	ts.now = now.Add(-8 * 24 * time.Hour)
	ts.do(t, http.MethodPost, "/orders", `{"customerId":"old","items":[{"productId":"p1","qty":1,"price":100}]}`)

	ts.now = now
	ts.do(t, http.MethodPost, "/orders", `{"customerId":"alice","items":[{"productId":"p1","qty":100,"price":150}]}`)
	ts.do(t, http.MethodPost, "/orders", `{"customerId":"alice","items":[{"productId":"p1","qty":2,"price":100}]}`)
	ts.do(t, http.MethodPost, "/orders", `{"customerId":"bob","items":[{"productId":"p1","qty":1,"price":50}]}`)

	rec := ts.do(t, http.MethodGet, "/analytics/weekly", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, AnalyticsResponse{
		OrdersCount:     3,
		TotalAmount:     15250,
		BigOrdersCount:  1,
		UniqueCustomers: 2,
	}, decode[AnalyticsResponse](t, rec))
}

func TestWeeklyAnalytics_EmptyStore(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/analytics/weekly", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ordersCount":0,"totalAmount":0,"bigOrdersCount":0,"uniqueCustomers":0}`, rec.Body.String())
}

// --- ambient routes ---

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/healthz", "", constants.HeaderXRequestId, "req-123")
	assert.Equal(t, "req-123", rec.Header().Get(constants.HeaderXRequestId))

	rec = ts.do(t, http.MethodGet, "/healthz", "")
	assert.Len(t, rec.Header().Get(constants.HeaderXRequestId), 36)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	assert.JSONEq(t, `{"status":"ok"}`, ts.do(t, http.MethodGet, "/healthz", "").Body.String())

	ts.do(t, http.MethodPost, "/orders", `{"customerId":"c1","items":[{"productId":"p1","qty":1,"price":1}]}`)
	ts.do(t, http.MethodPost, "/orders", `{"customerId":"c1","items":[{"productId":"p1","qty":0,"price":1}]}`)

	rec := ts.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "orders_test_created_total 1")
	assert.Contains(t, body, `orders_test_rejected_total{reason="quantity must be positive"} 1`)
	assert.Contains(t, body, `orders_test_http_requests_total{route="/orders",status="201"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(t, http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", decode[ErrorResponse](t, rec).Error)
}
