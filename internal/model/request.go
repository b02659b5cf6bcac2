package model

type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"omitempty,max=120"`
	Email    string `json:"email" validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"omitempty,min=6,max=72"`
	Avatar   string `json:"avatar"`
}

type GenerateTripRequest struct {
	Destination string `json:"destination" validate:"required,max=120"`
	Days        int    `json:"days" validate:"required,gt=0,lte=30"`
	Budget      string `json:"budget" validate:"required"`
	Travelers   int    `json:"travelers" validate:"required,gt=0,lte=20"`
}

type PayRequest struct {
	TripID     string `json:"tripId" validate:"required"`
	CardHolder string `json:"cardHolder" validate:"required,max=120"`
	CardNumber string `json:"cardNumber" validate:"required"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}
