package generator

import (
	"context"
	"fmt"

	"go-travel-planner/internal/model"
)

// TemplateGenerator builds deterministic itinerary content without any
// network call.
type TemplateGenerator struct{}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

func (g *TemplateGenerator) Generate(ctx context.Context, req model.TripRequest) (model.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return model.Itinerary{}, err
	}

	plan := make([]model.DayPlan, 0, req.Days)
	for day := 1; day <= req.Days; day++ {
		plan = append(plan, model.DayPlan{
			Day:      day,
			Activity: fmt.Sprintf("Day %d: exploring %s with a %s focus.", day, req.Destination, req.Budget),
		})
	}

	return validate(model.Itinerary{
		Title:       "Exclusive experience in " + req.Destination,
		Description: fmt.Sprintf("A %d-day trip designed for a %s style.", req.Days, req.Budget),
		Highlights: []string{
			"Dinner with panoramic views",
			"Private tour of the historic centre",
			"Local gastronomy experience",
		},
		DailyPlan: plan,
	}, req.Days)
}
