package model

import (
	"strings"
	"time"
)

type TripStatus string

const (
	TripStatusDraft TripStatus = "draft"
	TripStatusPaid  TripStatus = "paid"
)

// Budget tags as stored and priced. English aliases are accepted on input.
const (
	BudgetLuxury    = "Lujo"
	BudgetAdventure = "Aventura"
	BudgetRelax     = "Relax"
	BudgetCultural  = "Cultural"
)

var budgetAliases = map[string]string{
	"lujo":      BudgetLuxury,
	"luxury":    BudgetLuxury,
	"aventura":  BudgetAdventure,
	"adventure": BudgetAdventure,
	"relax":     BudgetRelax,
	"cultural":  BudgetCultural,
	"culture":   BudgetCultural,
}

// NormalizeBudget maps a client supplied budget tag to its canonical form.
func NormalizeBudget(raw string) (string, bool) {
	canonical, ok := budgetAliases[strings.ToLower(strings.TrimSpace(raw))]
	return canonical, ok
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type DayPlan struct {
	Day      int    `json:"day"`
	Activity string `json:"activity"`
}

// Itinerary is the generated content stored in trips.trip_data.
type Itinerary struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DailyPlan   []DayPlan    `json:"dailyPlan"`
	Highlights  []string     `json:"highlights"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Fallback    bool         `json:"fallback,omitempty"`
}

// TripRequest is the validated input of a trip creation.
type TripRequest struct {
	Destination string
	Days        int
	Budget      string
	Travelers   int
}

type Trip struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Destination string     `json:"destination"`
	TripData    Itinerary  `json:"trip_data"`
	Status      TripStatus `json:"status"`
	Budget      string     `json:"budget"`
	Days        int        `json:"days"`
	Travelers   int        `json:"travelers"`
	Price       int        `json:"price"`
	CreatedAt   time.Time  `json:"created_at"`
}
