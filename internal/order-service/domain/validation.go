package domain

import "github.com/shopspring/decimal"

// MaxOrderTotal bounds the total of a single order so that totals, and the
// analytics sums over them, stay finite float64 values.
var MaxOrderTotal = decimal.New(1, 15)

// NewOrder is the unvalidated input of an order creation.
// Fields the client omitted or sent with the wrong type are left at their
// zero value (empty string, nil pointer) so Validate can report them.
type NewOrder struct {
	CustomerID string
	Items      []NewOrderItem
}

type NewOrderItem struct {
	ProductID string
	Quantity  *float64
	UnitPrice *float64
}

// Validate checks the order and returns the first violation found.
// The order of the checks is part of the API contract.
func (n NewOrder) Validate() error {
	if n.CustomerID == "" {
		return NewValidationError(MsgCustomerRequired)
	}
	if len(n.Items) == 0 {
		return NewValidationError(MsgItemsRequired)
	}

	total := decimal.Zero
	for _, it := range n.Items {
		if it.ProductID == "" || it.Quantity == nil || it.UnitPrice == nil {
			return NewValidationError(MsgItemFieldsRequired)
		}
		if *it.Quantity <= 0 {
			return NewValidationError(MsgQuantityPositive)
		}
		if *it.UnitPrice < 0 {
			return NewValidationError(MsgPriceNegative)
		}
		total = total.Add(OrderItem{Quantity: *it.Quantity, UnitPrice: *it.UnitPrice}.Subtotal())
	}

	if total.GreaterThan(MaxOrderTotal) {
		return NewValidationError(MsgTotalTooLarge)
	}
	return nil
}

// OrderItems converts validated input items into domain items.
func (n NewOrder) OrderItems() []OrderItem {
	items := make([]OrderItem, len(n.Items))
	for i, it := range n.Items {
		items[i] = OrderItem{
			ProductID: it.ProductID,
			Quantity:  *it.Quantity,
			UnitPrice: *it.UnitPrice,
		}
	}
	return items
}
