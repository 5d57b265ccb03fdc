package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jcmexdev/order-management/internal/order-service/domain"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// decodeNewOrder reads the request body into a domain.NewOrder. Only a body
// that is not a JSON object fails here; wrong or missing fields are left
// empty for domain validation to report.
func decodeNewOrder(w http.ResponseWriter, r *http.Request) (domain.NewOrder, error) {
	var req CreateOrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return domain.NewOrder{}, fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	return domain.NewOrder{
		CustomerID: identifier(req.CustomerID),
		Items:      decodeItems(req.Items),
	}, nil
}

func decodeItems(raw json.RawMessage) []domain.NewOrderItem {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil
	}

	items := make([]domain.NewOrderItem, len(elems))
	for i, elem := range elems {
		var dto CreateOrderItemDTO
		// a non-object element simply has no fields
		_ = json.Unmarshal(elem, &dto)

		items[i] = domain.NewOrderItem{
			ProductID: truthyIdentifier(dto.ProductID),
			Quantity:  number(dto.Qty),
			UnitPrice: number(dto.Price),
		}
	}
	return items
}

// identifier turns a JSON value into an opaque id. Only null and the empty
// string are missing; any other value keeps its compact JSON text.
func identifier(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return ""
	}
	return buf.String()
}

// truthyIdentifier is identifier with zero and false also treated as missing.
func truthyIdentifier(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return ""
	}

	switch x := v.(type) {
	case bool:
		if !x {
			return ""
		}
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return ""
		}
	}
	return identifier(raw)
}

// number returns nil unless raw is a JSON number.
func number(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	return &f
}
