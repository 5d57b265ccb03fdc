package httpx

import "encoding/json"

// CreateOrderRequest keeps every field raw: type mismatches are reported as
// validation errors, not as malformed JSON.
type CreateOrderRequest struct {
	CustomerID json.RawMessage `json:"customerId"`
	Items      json.RawMessage `json:"items"`
}

type CreateOrderItemDTO struct {
	ProductID json.RawMessage `json:"productId"`
	Qty       json.RawMessage `json:"qty"`
	Price     json.RawMessage `json:"price"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	CustomerID string              `json:"customerId"`
	Items      []OrderItemResponse `json:"items"`
	Total      float64             `json:"total"`
	IsBigOrder bool                `json:"isBigOrder"`
	CreatedAt  string              `json:"createdAt"`
}

type OrderItemResponse struct {
	ProductID string  `json:"productId"`
	Qty       float64 `json:"qty"`
	Price     float64 `json:"price"`
}

type AnalyticsResponse struct {
	OrdersCount     int     `json:"ordersCount"`
	TotalAmount     float64 `json:"totalAmount"`
	BigOrdersCount  int     `json:"bigOrdersCount"`
	UniqueCustomers int     `json:"uniqueCustomers"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
