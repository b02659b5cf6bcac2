// Package generator produces itinerary content for a trip request. The
// remote implementation talks to an OpenAI-compatible chat completions API;
// the template implementation runs locally and is used when no API key is
// configured.
package generator

import (
	"context"
	"fmt"
	"strings"

	"go-travel-planner/internal/model"
)

// Generator must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, req model.TripRequest) (model.Itinerary, error)
}

// Fallback is the clearly labelled placeholder stored when generation fails
// or times out, so trip creation still yields a persisted draft.
func Fallback(req model.TripRequest) model.Itinerary {
	days := req.Days
	if days < 1 {
		days = 1
	}

	plan := make([]model.DayPlan, 0, days)
	for day := 1; day <= days; day++ {
		plan = append(plan, model.DayPlan{
			Day:      day,
			Activity: fmt.Sprintf("Day %d: itinerary for %s is being prepared. Check back soon.", day, req.Destination),
		})
	}

	return model.Itinerary{
		Title:       "Itinerary pending: " + req.Destination,
		Description: "We could not generate your itinerary right now. Your trip was saved and the plan will be completed by our team.",
		DailyPlan:   plan,
		Highlights:  []string{"Itinerary pending"},
		Coordinates: &model.Coordinates{Lat: 0, Lng: 0},
		Fallback:    true,
	}
}

// validate checks generated content and trims the plan to the requested
// number of days, renumbering from 1.
func validate(it model.Itinerary, days int) (model.Itinerary, error) {
	if strings.TrimSpace(it.Title) == "" {
		return model.Itinerary{}, fmt.Errorf("%w: empty title", model.ErrGeneration)
	}
	if len(it.DailyPlan) < days {
		return model.Itinerary{}, fmt.Errorf("%w: plan has %d days, want %d", model.ErrGeneration, len(it.DailyPlan), days)
	}
	if c := it.Coordinates; c != nil && (c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180) {
		return model.Itinerary{}, fmt.Errorf("%w: coordinates out of range", model.ErrGeneration)
	}

	plan := make([]model.DayPlan, 0, days)
	for i := 0; i < days; i++ {
		activity := strings.TrimSpace(it.DailyPlan[i].Activity)
		if activity == "" {
			return model.Itinerary{}, fmt.Errorf("%w: day %d has no activity", model.ErrGeneration, i+1)
		}
		plan = append(plan, model.DayPlan{Day: i + 1, Activity: activity})
	}

	it.DailyPlan = plan
	if it.Highlights == nil {
		it.Highlights = []string{}
	}
	it.Fallback = false
	return it, nil
}
