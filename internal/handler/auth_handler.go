package handler

import (
	"net/http"

	"go-travel-planner/internal/model"
	"go-travel-planner/internal/service"
	"go-travel-planner/internal/session"
)

type AuthHandler struct {
	service *service.AuthService
	cookies *session.CookieTransport
}

func NewAuthHandler(service *service.AuthService, cookies *session.CookieTransport) *AuthHandler {
	return &AuthHandler{service: service, cookies: cookies}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Set(w, r, res.Token, res.ExpiresAt)
	writeJSON(w, http.StatusCreated, model.UserResponse{Message: "User created", User: res.User.Public()})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.service.Login(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	h.cookies.Set(w, r, res.Token, res.ExpiresAt)
	writeJSON(w, http.StatusOK, model.UserResponse{Message: "Login successful", User: res.User.Public()})
}

// Logout needs no session: clearing an absent cookie is harmless.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.Clear(w, r)
	writeJSON(w, http.StatusOK, model.MessageResponse{Message: "Logged out"})
}
