package model

import "time"

type Payment struct {
	ID            string    `json:"id"`
	TripID        string    `json:"trip_id"`
	UserID        string    `json:"user_id"`
	TransactionID string    `json:"transaction_id"`
	CardHolder    string    `json:"card_holder"`
	CardLast4     string    `json:"card_last4"`
	Amount        int       `json:"amount"`
	CreatedAt     time.Time `json:"created_at"`
}

// PaymentResult is what a confirmed (or previously confirmed) payment yields.
type PaymentResult struct {
	TransactionID string
	AlreadyPaid   bool
	Trip          Trip
}
