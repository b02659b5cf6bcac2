package model

import "errors"

var (
	// User related errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Session related errors
	ErrUnauthenticated = errors.New("no active session")
	ErrInvalidToken    = errors.New("invalid session token")
	ErrTokenExpired    = errors.New("session token expired")

	// Trip related errors
	ErrTripNotFound    = errors.New("trip not found")
	ErrTripAlreadyPaid = errors.New("trip already paid")

	// Payment related errors
	ErrCardRejected    = errors.New("card rejected")
	ErrPaymentNotFound = errors.New("payment not found")

	// Itinerary generation errors
	ErrGeneration = errors.New("itinerary generation failed")
)
