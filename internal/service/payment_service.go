package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-travel-planner/internal/metrics"
	"go-travel-planner/internal/model"
	"go-travel-planner/internal/util"
	"go-travel-planner/pkg/apierror"
)

// Cards ending in this suffix are always declined by the simulator.
const declinedCardSuffix = "0000"

type PaymentStore interface {
	MarkPaid(ctx context.Context, p model.Payment) (model.Trip, error)
	GetByOwner(ctx context.Context, id string, userID string) (model.Trip, error)
	PaymentByTrip(ctx context.Context, tripID string, userID string) (model.Payment, error)
}

// PaymentService simulates a card processor: it waits a fixed delay,
// declines sentinel cards and marks the trip paid exactly once.
type PaymentService struct {
	store  PaymentStore
	delay  time.Duration
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
	nextID func() string
}

func NewPaymentService(store PaymentStore, delay time.Duration) *PaymentService {
	return &PaymentService{
		store:  store,
		delay:  delay,
		now:    func() time.Time { return time.Now().UTC() },
		sleep:  sleepContext,
		nextID: transactionID,
	}
}

func (s *PaymentService) Pay(ctx context.Context, userID string, req model.PayRequest) (model.PaymentResult, error) {
	tripID := strings.TrimSpace(req.TripID)
	if tripID == "" {
		return model.PaymentResult{}, apierror.Validation("tripId is required", "tripId")
	}
	holder := util.CleanText(req.CardHolder, false)
	if holder == "" {
		return model.PaymentResult{}, apierror.Validation("cardHolder is required", "cardHolder")
	}
	digits, ok := normalizeCardNumber(req.CardNumber)
	if !ok {
		return model.PaymentResult{}, apierror.Validation("cardNumber must contain 12 to 19 digits", "cardNumber")
	}

	if err := s.sleep(ctx, s.delay); err != nil {
		return model.PaymentResult{}, err
	}

	last4 := digits[len(digits)-4:]
	if strings.HasSuffix(digits, declinedCardSuffix) {
		metrics.PaymentsTotal.WithLabelValues("declined").Inc()
		slog.Info("payment declined", "trip_id", tripID, "user_id", userID, "card_last4", last4)
		return model.PaymentResult{}, model.ErrCardRejected
	}

	if _, err := uuid.Parse(tripID); err != nil {
		metrics.PaymentsTotal.WithLabelValues("not_found").Inc()
		return model.PaymentResult{}, model.ErrTripNotFound
	}

	payment := model.Payment{
		ID:            uuid.NewString(),
		TripID:        tripID,
		UserID:        userID,
		TransactionID: s.nextID(),
		CardHolder:    holder,
		CardLast4:     last4,
		CreatedAt:     s.now(),
	}

	trip, err := s.store.MarkPaid(ctx, payment)
	if errors.Is(err, model.ErrTripAlreadyPaid) {
		return s.existingPayment(ctx, userID, tripID)
	}
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues("error").Inc()
		return model.PaymentResult{}, err
	}

	metrics.PaymentsTotal.WithLabelValues("paid").Inc()
	slog.Info("payment accepted",
		"trip_id", trip.ID,
		"user_id", userID,
		"transaction_id", payment.TransactionID,
		"amount", trip.Price,
		"card_last4", last4,
	)

	return model.PaymentResult{TransactionID: payment.TransactionID, Trip: trip}, nil
}

// existingPayment resolves a MarkPaid miss: either the trip is not the
// caller's draft to pay, or it was already paid and the original
// transaction is returned.
func (s *PaymentService) existingPayment(ctx context.Context, userID, tripID string) (model.PaymentResult, error) {
	trip, err := s.store.GetByOwner(ctx, tripID, userID)
	if err != nil {
		if errors.Is(err, model.ErrTripNotFound) {
			metrics.PaymentsTotal.WithLabelValues("not_found").Inc()
		}
		return model.PaymentResult{}, err
	}

	if trip.Status != model.TripStatusPaid {
		metrics.PaymentsTotal.WithLabelValues("error").Inc()
		return model.PaymentResult{}, fmt.Errorf("trip %s left in status %q after payment attempt", tripID, trip.Status)
	}

	p, err := s.store.PaymentByTrip(ctx, tripID, userID)
	if err != nil {
		metrics.PaymentsTotal.WithLabelValues("error").Inc()
		return model.PaymentResult{}, fmt.Errorf("load original payment: %w", err)
	}

	metrics.PaymentsTotal.WithLabelValues("already_paid").Inc()
	slog.Info("payment already recorded", "trip_id", tripID, "user_id", userID, "transaction_id", p.TransactionID)

	return model.PaymentResult{TransactionID: p.TransactionID, AlreadyPaid: true, Trip: trip}, nil
}

// normalizeCardNumber strips spaces and dashes and requires 12-19 digits.
func normalizeCardNumber(raw string) (string, bool) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == ' ' || r == '-':
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			return "", false
		}
	}
	digits := b.String()
	return digits, len(digits) >= 12 && len(digits) <= 19
}

func transactionID() string {
	return fmt.Sprintf("TXN-%06d", rand.IntN(1_000_000))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
