// Package pricing computes trip prices. Price is pure and cheap enough to be
// called on every change of a live estimate.
package pricing

import (
	"math"

	"go-travel-planner/internal/model"
)

const (
	BaseFee             = 50
	PerDayRate          = 150
	PerTravelerRate     = 75
	MinimumPrice        = 150
	MaxDays             = 30
	MaxTravelers        = 20
	luxuryMultiplier    = 1.5
	adventureMultiplier = 1.1
)

// Price returns round((base + days*perDay + travelers*perTraveler) * style),
// never less than MinimumPrice. Unknown budget tags price at x1.0.
func Price(days int, budget string, travelers int) int {
	multiplier := 1.0
	switch budget {
	case model.BudgetLuxury:
		multiplier = luxuryMultiplier
	case model.BudgetAdventure:
		multiplier = adventureMultiplier
	}

	subtotal := float64(BaseFee + days*PerDayRate + travelers*PerTravelerRate)
	total := int(math.Round(subtotal * multiplier))

	if total < MinimumPrice {
		return MinimumPrice
	}
	return total
}
