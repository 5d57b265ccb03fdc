package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsWindow is the length of the rolling window used by weekly analytics.
const AnalyticsWindow = 7 * 24 * time.Hour

type AnalyticsSummary struct {
	OrdersCount     int
	TotalAmount     float64
	BigOrdersCount  int
	UniqueCustomers int
}

// Summarize aggregates the orders created at or after since.
func Summarize(orders []*Order, since time.Time) AnalyticsSummary {
	var summary AnalyticsSummary
	total := decimal.Zero
	customers := make(map[string]struct{})

	for _, o := range orders {
		if o.CreatedAt.Before(since) {
			continue
		}
		summary.OrdersCount++
		total = total.Add(o.TotalAmount())
		if o.IsBigOrder() {
			summary.BigOrdersCount++
		}
		customers[o.CustomerID] = struct{}{}
	}

	summary.TotalAmount = total.InexactFloat64()
	summary.UniqueCustomers = len(customers)
	return summary
}
