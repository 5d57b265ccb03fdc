package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BigOrderThreshold is the total at or above which an order counts as big.
var BigOrderThreshold = decimal.NewFromInt(10000)

type Order struct {
	ID         int64
	CustomerID string
	Items      []OrderItem
	CreatedAt  time.Time
}

type OrderItem struct {
	ProductID string
	Quantity  float64
	UnitPrice float64
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Quantity).Mul(decimal.NewFromFloat(i.UnitPrice))
}

// TotalAmount is always derived from the items, it is never stored.
func (o *Order) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (o *Order) Total() float64 {
	return o.TotalAmount().InexactFloat64()
}

func (o *Order) IsBigOrder() bool {
	return o.TotalAmount().GreaterThanOrEqual(BigOrderThreshold)
}
