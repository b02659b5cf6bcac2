package model

// ErrorResponse is the body of every failed request. Error carries the
// human-readable message; Code is a stable machine-readable identifier.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	Message string     `json:"message,omitempty"`
	User    PublicUser `json:"user"`
}

type TripResponse struct {
	Message string `json:"message"`
	Trip    Trip   `json:"trip"`
}

type PaymentResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
	AlreadyPaid   bool   `json:"alreadyPaid"`
	Trip          Trip   `json:"trip"`
}

type PriceResponse struct {
	Price int `json:"price"`
}

type ChatReply struct {
	Reply  string `json:"reply"`
	Sender string `json:"sender"`
}
