package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-travel-planner/internal/middleware"
	"go-travel-planner/internal/model"
	"go-travel-planner/pkg/apierror"
)

// maxBodyBytes bounds JSON request bodies. Avatars arrive base64 encoded,
// so this sits above the avatar size limit.
const maxBodyBytes = 4 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.ErrorResponse{
		Code:  "INTERNAL_ERROR",
		Error: "Unexpected server error",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Error = apiErr.Message
		body.Details = apiErr.Details
	} else if errors.Is(err, model.ErrEmailTaken) {
		status = http.StatusBadRequest
		body.Code = "EMAIL_TAKEN"
		body.Error = "This email is already registered"
	} else if errors.Is(err, model.ErrInvalidCredentials) {
		status = http.StatusBadRequest
		body.Code = "INVALID_CREDENTIALS"
		body.Error = "Invalid credentials"
	} else if errors.Is(err, model.ErrUnauthenticated) {
		status = http.StatusUnauthorized
		body.Code = "UNAUTHENTICATED"
		body.Error = "Authentication required"
	} else if errors.Is(err, model.ErrInvalidToken) || errors.Is(err, model.ErrTokenExpired) {
		status = http.StatusUnauthorized
		body.Code = "INVALID_TOKEN"
		body.Error = "Invalid or expired session"
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Error = "User not found"
	} else if errors.Is(err, model.ErrTripNotFound) {
		status = http.StatusNotFound
		body.Code = "NOT_FOUND"
		body.Error = "Trip not found"
	} else if errors.Is(err, model.ErrCardRejected) {
		status = http.StatusPaymentRequired
		body.Code = "PAYMENT_DECLINED"
		body.Error = "Insufficient funds or card declined"
	} else if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusServiceUnavailable
		body.Code = "REQUEST_CANCELLED"
		body.Error = "Request was cancelled before it completed"
	} else {
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apierror.New("PAYLOAD_TOO_LARGE", "request body is too large", "", http.StatusRequestEntityTooLarge)
		}
		return apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest)
	}

	return validate(dst)
}

// sessionUserID returns the authenticated user id placed in the context by
// middleware.RequireSession.
func sessionUserID(r *http.Request) (string, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.UserID == "" {
		return "", model.ErrUnauthenticated
	}
	return claims.UserID, nil
}
