// Package dashboard reports label readiness across the product catalogue.
package dashboard

import (
	"context"
	"math"
)

// Stats summarises label coverage. A product is ready when it has an active label.
type Stats struct {
	TotalProducts        int            `json:"total_products"`
	ReadyProducts        int            `json:"ready_products"`
	ReadinessPercentage  float64        `json:"readiness_percentage"`
	CategoryDistribution map[string]int `json:"category_distribution"`
}

// System defines dashboard operations.
type System interface {
	Stats(ctx context.Context) (*Stats, error)
}

// NewStats derives the readiness percentage, rounded to two decimals.
// An empty catalogue reports 0.
func NewStats(total, ready int, categories map[string]int) Stats {
	if categories == nil {
		categories = map[string]int{}
	}

	var pct float64
	if total > 0 {
		pct = math.Round(float64(ready)/float64(total)*10000) / 100
	}

	return Stats{
		TotalProducts:        total,
		ReadyProducts:        ready,
		ReadinessPercentage:  pct,
		CategoryDistribution: categories,
	}
}
