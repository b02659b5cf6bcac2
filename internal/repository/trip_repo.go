package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-travel-planner/internal/model"
)

const tripColumns = `id, user_id, destination, trip_data, status, budget, days, travelers, price, created_at`

type TripRepository struct {
	pool *pgxpool.Pool
}

func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

func scanTrip(row pgx.Row) (model.Trip, error) {
	var (
		t    model.Trip
		data []byte
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Destination, &data, &t.Status, &t.Budget,
		&t.Days, &t.Travelers, &t.Price, &t.CreatedAt); err != nil {
		return model.Trip{}, err
	}
	if err := json.Unmarshal(data, &t.TripData); err != nil {
		return model.Trip{}, fmt.Errorf("decode trip_data: %w", err)
	}
	return t, nil
}

func (r *TripRepository) Create(ctx context.Context, t model.Trip) (model.Trip, error) {
	data, err := json.Marshal(t.TripData)
	if err != nil {
		return model.Trip{}, fmt.Errorf("encode trip_data: %w", err)
	}

	created, err := scanTrip(r.pool.QueryRow(ctx,
		`INSERT INTO trips (id, user_id, destination, trip_data, status, budget, days, travelers, price, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING `+tripColumns,
		t.ID, t.UserID, t.Destination, data, t.Status, t.Budget, t.Days, t.Travelers, t.Price, t.CreatedAt))
	if err != nil {
		return model.Trip{}, fmt.Errorf("create trip: %w", err)
	}
	return created, nil
}

// ListByOwner returns the user's trips, newest first.
func (r *TripRepository) ListByOwner(ctx context.Context, userID string) ([]model.Trip, error) {
	query, args, err := psql.Select(tripColumns).
		From("trips").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list trips: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	trips := make([]model.Trip, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// GetByOwner treats a trip owned by someone else exactly like a missing one.
func (r *TripRepository) GetByOwner(ctx context.Context, id, userID string) (model.Trip, error) {
	t, err := scanTrip(r.pool.QueryRow(ctx,
		`SELECT `+tripColumns+` FROM trips WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == pgerrcode.InvalidTextRepresentation {
		return model.Trip{}, model.ErrTripNotFound
	}
	if err != nil {
		return model.Trip{}, fmt.Errorf("get trip: %w", err)
	}
	return t, nil
}

// MarkPaid flips a draft trip to paid and records the payment in one
// transaction. ErrTripAlreadyPaid means no draft row matched; the caller
// decides between "missing" and "already paid".
func (r *TripRepository) MarkPaid(ctx context.Context, p model.Payment) (model.Trip, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.Trip{}, fmt.Errorf("begin mark paid: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	t, err := scanTrip(tx.QueryRow(ctx,
		`UPDATE trips SET status = 'paid'
		 WHERE id = $1 AND user_id = $2 AND status = 'draft'
		 RETURNING `+tripColumns, p.TripID, p.UserID))
	if errors.Is(err, pgx.ErrNoRows) || pgCode(err) == pgerrcode.InvalidTextRepresentation {
		return model.Trip{}, model.ErrTripAlreadyPaid
	}
	if err != nil {
		return model.Trip{}, fmt.Errorf("mark trip paid: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO payments (id, trip_id, user_id, transaction_id, card_holder, card_last4, amount, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.TripID, p.UserID, p.TransactionID, p.CardHolder, p.CardLast4, t.Price, p.CreatedAt)
	if err != nil {
		if pgCode(err) == pgerrcode.UniqueViolation {
			return model.Trip{}, model.ErrTripAlreadyPaid
		}
		return model.Trip{}, fmt.Errorf("insert payment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Trip{}, fmt.Errorf("commit mark paid: %w", err)
	}
	return t, nil
}

func (r *TripRepository) PaymentByTrip(ctx context.Context, tripID, userID string) (model.Payment, error) {
	var p model.Payment
	err := r.pool.QueryRow(ctx,
		`SELECT id, trip_id, user_id, transaction_id, card_holder, card_last4, amount, created_at
		 FROM payments WHERE trip_id = $1 AND user_id = $2`, tripID, userID).
		Scan(&p.ID, &p.TripID, &p.UserID, &p.TransactionID, &p.CardHolder, &p.CardLast4, &p.Amount, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Payment{}, model.ErrPaymentNotFound
	}
	if err != nil {
		return model.Payment{}, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}
