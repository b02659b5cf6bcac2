package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"go-travel-planner/internal/generator"
	"go-travel-planner/internal/metrics"
	"go-travel-planner/internal/model"
	"go-travel-planner/internal/pricing"
	"go-travel-planner/internal/util"
	"go-travel-planner/pkg/apierror"
)

const maxDestinationLength = 120

type TripStore interface {
	Create(ctx context.Context, t model.Trip) (model.Trip, error)
	ListByOwner(ctx context.Context, userID string) ([]model.Trip, error)
	GetByOwner(ctx context.Context, id string, userID string) (model.Trip, error)
}

type TripService struct {
	trips     TripStore
	generator generator.Generator
	timeout   time.Duration
	now       func() time.Time
}

func NewTripService(trips TripStore, gen generator.Generator, timeout time.Duration) *TripService {
	return &TripService{
		trips:     trips,
		generator: gen,
		timeout:   timeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create always persists a draft when the input is valid. A failing or slow
// generator yields placeholder content instead of an error.
func (s *TripService) Create(ctx context.Context, userID string, in model.GenerateTripRequest) (model.Trip, error) {
	req, err := validateTripRequest(in)
	if err != nil {
		return model.Trip{}, err
	}

	itinerary := s.generate(ctx, req)

	trip, err := s.trips.Create(ctx, model.Trip{
		ID:          uuid.NewString(),
		UserID:      userID,
		Destination: req.Destination,
		TripData:    itinerary,
		Status:      model.TripStatusDraft,
		Budget:      req.Budget,
		Days:        req.Days,
		Travelers:   req.Travelers,
		Price:       pricing.Price(req.Days, req.Budget, req.Travelers),
		CreatedAt:   s.now(),
	})
	if err != nil {
		return model.Trip{}, err
	}

	metrics.TripsCreatedTotal.WithLabelValues(trip.Budget, strconv.FormatBool(itinerary.Fallback)).Inc()
	slog.Info("trip created",
		"trip_id", trip.ID,
		"user_id", userID,
		"destination", trip.Destination,
		"price", trip.Price,
		"fallback", itinerary.Fallback,
	)

	return trip, nil
}

type generated struct {
	itinerary model.Itinerary
	err       error
}

func (s *TripService) generate(ctx context.Context, req model.TripRequest) model.Itinerary {
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	done := make(chan generated, 1)
	go func() {
		it, err := s.generator.Generate(genCtx, req)
		done <- generated{itinerary: it, err: err}
	}()

	var res generated
	select {
	case res = <-done:
	case <-genCtx.Done():
		res = generated{err: genCtx.Err()}
	}
	metrics.GeneratorDuration.Observe(time.Since(started).Seconds())

	if res.err == nil {
		metrics.GeneratorRequestsTotal.WithLabelValues("ok").Inc()
		return res.itinerary
	}

	outcome := "error"
	if errors.Is(res.err, context.DeadlineExceeded) {
		outcome = "timeout"
	}
	metrics.GeneratorRequestsTotal.WithLabelValues(outcome).Inc()
	slog.Warn("itinerary generation failed, storing placeholder",
		"destination", req.Destination,
		"outcome", outcome,
		"error", res.err,
	)

	return generator.Fallback(req)
}

func (s *TripService) List(ctx context.Context, userID string) ([]model.Trip, error) {
	return s.trips.ListByOwner(ctx, userID)
}

func (s *TripService) Get(ctx context.Context, userID string, tripID string) (model.Trip, error) {
	if _, err := uuid.Parse(tripID); err != nil {
		return model.Trip{}, model.ErrTripNotFound
	}
	return s.trips.GetByOwner(ctx, tripID, userID)
}

func validateTripRequest(in model.GenerateTripRequest) (model.TripRequest, error) {
	destination := util.CleanText(in.Destination, false)
	if destination == "" {
		return model.TripRequest{}, apierror.Validation("destination is required", "destination")
	}
	if utf8.RuneCountInString(destination) > maxDestinationLength {
		return model.TripRequest{}, apierror.Validation("destination is too long", "destination")
	}
	if in.Days < 1 || in.Days > pricing.MaxDays {
		return model.TripRequest{}, apierror.Validation(fmt.Sprintf("days must be between 1 and %d", pricing.MaxDays), "days")
	}
	if in.Travelers < 1 || in.Travelers > pricing.MaxTravelers {
		return model.TripRequest{}, apierror.Validation(fmt.Sprintf("travelers must be between 1 and %d", pricing.MaxTravelers), "travelers")
	}

	budget, ok := model.NormalizeBudget(in.Budget)
	if !ok {
		return model.TripRequest{}, apierror.Validation("budget must be one of Lujo, Aventura, Relax, Cultural", "budget")
	}

	return model.TripRequest{
		Destination: destination,
		Days:        in.Days,
		Budget:      budget,
		Travelers:   in.Travelers,
	}, nil
}
