package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"go-travel-planner/internal/model"
)

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, u model.User) (model.User, error) {
	args := m.Called(ctx, u)
	if fn, ok := args.Get(0).(func(context.Context, model.User) model.User); ok {
		return fn(ctx, u), args.Error(1)
	}
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch, now time.Time) (model.User, error) {
	args := m.Called(ctx, id, patch, now)
	return args.Get(0).(model.User), args.Error(1)
}

type MockTripStore struct {
	mock.Mock
}

func (m *MockTripStore) Create(ctx context.Context, t model.Trip) (model.Trip, error) {
	args := m.Called(ctx, t)
	if fn, ok := args.Get(0).(func(context.Context, model.Trip) model.Trip); ok {
		return fn(ctx, t), args.Error(1)
	}
	return args.Get(0).(model.Trip), args.Error(1)
}

func (m *MockTripStore) ListByOwner(ctx context.Context, userID string) ([]model.Trip, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Trip), args.Error(1)
}

func (m *MockTripStore) GetByOwner(ctx context.Context, id string, userID string) (model.Trip, error) {
	args := m.Called(ctx, id, userID)
	return args.Get(0).(model.Trip), args.Error(1)
}

func (m *MockTripStore) MarkPaid(ctx context.Context, p model.Payment) (model.Trip, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Trip), args.Error(1)
}

func (m *MockTripStore) PaymentByTrip(ctx context.Context, tripID string, userID string) (model.Payment, error) {
	args := m.Called(ctx, tripID, userID)
	return args.Get(0).(model.Payment), args.Error(1)
}

type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) Create(ctx context.Context, msg model.Message) (model.Message, error) {
	args := m.Called(ctx, msg)
	if fn, ok := args.Get(0).(func(context.Context, model.Message) model.Message); ok {
		return fn(ctx, msg), args.Error(1)
	}
	return args.Get(0).(model.Message), args.Error(1)
}

func (m *MockMessageStore) ListByUser(ctx context.Context, userID string, limit int) ([]model.Message, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Message), args.Error(1)
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, req model.TripRequest) (model.Itinerary, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.Itinerary), args.Error(1)
}
