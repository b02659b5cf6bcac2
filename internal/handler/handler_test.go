package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-travel-planner/internal/middleware"
	"go-travel-planner/internal/model"
	"go-travel-planner/internal/service"
	"go-travel-planner/internal/session"
	"go-travel-planner/pkg/apierror"
)

const testTripID = "0b8f0c2e-9a57-4f57-8a0e-1f3a8e5e7c11"

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithClaims(req.Context(), &model.SessionClaims{UserID: userID, Role: model.RoleMember}))
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func newAuthHandler(t *testing.T, users *service.MockUserStore) *AuthHandler {
	t.Helper()
	issuer, err := session.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	svc, err := service.NewAuthService(users, issuer, service.WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	return NewAuthHandler(svc, session.NewCookieTransport(time.Hour, false))
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	return nil
}

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"api error", apierror.Validation("days is required", "days"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"wrapped api error", fmt.Errorf("generate trip: %w", apierror.Validation("days is required", "days")), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"duplicate email", model.ErrEmailTaken, http.StatusBadRequest, "EMAIL_TAKEN"},
		{"bad credentials", model.ErrInvalidCredentials, http.StatusBadRequest, "INVALID_CREDENTIALS"},
		{"no session", model.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"expired", model.ErrTokenExpired, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"missing trip", model.ErrTripNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"declined", model.ErrCardRejected, http.StatusPaymentRequired, "PAYMENT_DECLINED"},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable, "REQUEST_CANCELLED"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeBody[model.ErrorResponse](t, rec)
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.NotContains(t, body.Error, "connection reset")
		})
	}
}

func TestDecodeJSON_RejectsMalformedAndInvalid(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	var payload model.ChatRequest
	err := decodeJSON(rec, req, &payload)

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "BAD_REQUEST", apiErr.Code)

	req = jsonRequest(t, http.MethodPost, "/", map[string]string{"message": ""})
	err = decodeJSON(rec, req, &payload)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, "message", apiErr.Details)
	assert.Contains(t, apiErr.Message, "message is required")
}

func TestAuthHandler_Register(t *testing.T) {
	users := new(service.MockUserStore)
	h := newAuthHandler(t, users)

	users.On("FindByEmail", mock.Anything, "ana@example.com").Return(model.User{}, model.ErrUserNotFound)
	users.On("Create", mock.Anything, mock.AnythingOfType("model.User")).
		Return(func(_ context.Context, u model.User) model.User { return u }, nil)

	rec := httptest.NewRecorder()
	h.Register(rec, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"fullName": "Ana Lima",
		"email":    "ana@example.com",
		"password": "secret1",
	}))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody[model.UserResponse](t, rec)
	assert.Equal(t, "ana@example.com", body.User.Email)
	assert.NotContains(t, rec.Body.String(), "password")

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)

	issuer, err := session.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	claims, err := issuer.Verify(cookie.Value)
	require.NoError(t, err)
	assert.Equal(t, claims.ExpiresAt.Unix(), cookie.Expires.Unix())
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	users := new(service.MockUserStore)
	h := newAuthHandler(t, users)

	users.On("FindByEmail", mock.Anything, "ana@example.com").Return(model.User{ID: "u-1"}, nil)

	rec := httptest.NewRecorder()
	h.Register(rec, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"fullName": "Ana Lima",
		"email":    "ana@example.com",
		"password": "secret1",
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "EMAIL_TAKEN", decodeBody[model.ErrorResponse](t, rec).Code)
	assert.Nil(t, sessionCookie(rec))
}

func TestAuthHandler_Login(t *testing.T) {
	users := new(service.MockUserStore)
	h := newAuthHandler(t, users)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	users.On("FindByEmail", mock.Anything, "ana@example.com").
		Return(model.User{ID: "u-1", Email: "ana@example.com", PasswordHash: string(hash), Role: model.RoleMember}, nil)

	rec := httptest.NewRecorder()
	h.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "secret1",
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, sessionCookie(rec))

	rec = httptest.NewRecorder()
	h.Login(rec, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-pass",
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeBody[model.ErrorResponse](t, rec).Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	h := newAuthHandler(t, new(service.MockUserStore))

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/users/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}

func TestUserHandler_GetProfile(t *testing.T) {
	users := new(service.MockUserStore)
	issuer, err := session.NewIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	auth, err := service.NewAuthService(users, issuer, service.WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	h := NewUserHandler(service.NewProfileService(users, auth, service.NewAvatarProcessor(1<<20, 64)))

	users.On("FindByID", mock.Anything, "u-1").
		Return(model.User{ID: "u-1", FullName: "Ana Lima", Email: "ana@example.com", PasswordHash: "hash"}, nil)

	rec := httptest.NewRecorder()
	h.GetProfile(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/users/profile", nil), "u-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[model.PublicUser](t, rec)
	assert.Equal(t, "Ana Lima", body.FullName)
	assert.NotContains(t, rec.Body.String(), "hash")

	rec = httptest.NewRecorder()
	h.GetProfile(rec, httptest.NewRequest(http.MethodGet, "/api/users/profile", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestTripHandler_Generate(t *testing.T) {
	trips := new(service.MockTripStore)
	gen := new(service.MockGenerator)
	h := NewTripHandler(service.NewTripService(trips, gen, time.Second))

	gen.On("Generate", mock.Anything, mock.Anything).Return(model.Itinerary{}, model.ErrGeneration)
	trips.On("Create", mock.Anything, mock.AnythingOfType("model.Trip")).
		Return(func(_ context.Context, t model.Trip) model.Trip { return t }, nil)

	rec := httptest.NewRecorder()
	h.Generate(rec, withUser(jsonRequest(t, http.MethodPost, "/api/trips/generate", map[string]any{
		"destination": "Lisbon",
		"days":        3,
		"budget":      "luxury",
		"travelers":   2,
	}), "u-1"))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody[model.TripResponse](t, rec)
	assert.Equal(t, model.TripStatusDraft, body.Trip.Status)
	assert.Equal(t, model.BudgetLuxury, body.Trip.Budget)
	assert.Equal(t, 975, body.Trip.Price)
	assert.True(t, body.Trip.TripData.Fallback)
	assert.Len(t, body.Trip.TripData.DailyPlan, 3)
}

func TestTripHandler_Generate_Validation(t *testing.T) {
	h := NewTripHandler(service.NewTripService(new(service.MockTripStore), new(service.MockGenerator), time.Second))

	rec := httptest.NewRecorder()
	h.Generate(rec, withUser(jsonRequest(t, http.MethodPost, "/api/trips/generate", map[string]any{
		"destination": "Lisbon",
		"days":        0,
		"budget":      "Relax",
		"travelers":   2,
	}), "u-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "days", decodeBody[model.ErrorResponse](t, rec).Details)
}

func TestTripHandler_Get(t *testing.T) {
	trips := new(service.MockTripStore)
	h := NewTripHandler(service.NewTripService(trips, new(service.MockGenerator), time.Second))

	trips.On("GetByOwner", mock.Anything, testTripID, "u-1").Return(model.Trip{ID: testTripID, Destination: "Lisbon"}, nil)
	trips.On("GetByOwner", mock.Anything, testTripID, "u-2").Return(model.Trip{}, model.ErrTripNotFound)

	r := chi.NewRouter()
	r.Get("/api/trips/{id}", h.Get)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/trips/"+testTripID, nil), "u-1"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Lisbon", decodeBody[model.Trip](t, rec).Destination)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/trips/"+testTripID, nil), "u-2"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/trips/not-a-uuid", nil), "u-1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTripHandler_MyTrips_EmptyIsArray(t *testing.T) {
	trips := new(service.MockTripStore)
	h := NewTripHandler(service.NewTripService(trips, new(service.MockGenerator), time.Second))

	trips.On("ListByOwner", mock.Anything, "u-1").Return([]model.Trip{}, nil)

	rec := httptest.NewRecorder()
	h.MyTrips(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/trips/my-trips", nil), "u-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestPaymentHandler_Pay(t *testing.T) {
	store := new(service.MockTripStore)
	h := NewPaymentHandler(service.NewPaymentService(store, 0))

	store.On("MarkPaid", mock.Anything, mock.AnythingOfType("model.Payment")).
		Return(model.Trip{ID: testTripID, Status: model.TripStatusPaid}, nil)

	rec := httptest.NewRecorder()
	h.Pay(rec, withUser(jsonRequest(t, http.MethodPost, "/api/payments/pay", map[string]string{
		"tripId":     testTripID,
		"cardHolder": "Ana Lima",
		"cardNumber": "4242 4242 4242 4242",
	}), "u-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[model.PaymentResponse](t, rec)
	assert.True(t, body.Success)
	assert.Regexp(t, `^TXN-\d{6}$`, body.TransactionID)
	assert.Equal(t, model.TripStatusPaid, body.Trip.Status)
}

func TestPaymentHandler_Pay_Declined(t *testing.T) {
	store := new(service.MockTripStore)
	h := NewPaymentHandler(service.NewPaymentService(store, 0))

	rec := httptest.NewRecorder()
	h.Pay(rec, withUser(jsonRequest(t, http.MethodPost, "/api/payments/pay", map[string]string{
		"tripId":     testTripID,
		"cardHolder": "Ana Lima",
		"cardNumber": "4000 0000 0000 0000",
	}), "u-1"))

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "PAYMENT_DECLINED", decodeBody[model.ErrorResponse](t, rec).Code)
	store.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything)
}

func TestPriceHandler_Quote(t *testing.T) {
	h := NewPriceHandler()

	tests := []struct {
		query  string
		status int
		price  int
	}{
		{"days=3&budget=Lujo&travelers=2", http.StatusOK, 975},
		{"days=3&budget=luxury&travelers=2", http.StatusOK, 975},
		{"days=1&budget=Relax&travelers=1", http.StatusOK, 275},
		{"days=0&budget=Relax&travelers=1", http.StatusBadRequest, 0},
		{"days=2&travelers=1", http.StatusBadRequest, 0},
		{"days=abc&budget=Relax&travelers=1", http.StatusBadRequest, 0},
		{"days=30&budget=Relax&travelers=20", http.StatusOK, 6050},
		{"days=31&budget=Relax&travelers=1", http.StatusBadRequest, 0},
		{"days=61489146912365173&budget=Relax&travelers=1", http.StatusBadRequest, 0},
		{"days=1&budget=Relax&travelers=21", http.StatusBadRequest, 0},
		{"days=1&budget=Relax&travelers=-4", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.Quote(rec, httptest.NewRequest(http.MethodGet, "/api/price?"+tt.query, nil))

			require.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.price, decodeBody[model.PriceResponse](t, rec).Price)
				return
			}
			assert.Equal(t, "VALIDATION_ERROR", decodeBody[model.ErrorResponse](t, rec).Code)
		})
	}
}

func TestChatHandler_SendAndHistory(t *testing.T) {
	messages := new(service.MockMessageStore)
	trips := new(service.MockTripStore)
	h := NewChatHandler(service.NewChatService(messages, trips, 0))

	messages.On("Create", mock.Anything, mock.AnythingOfType("model.Message")).
		Return(func(_ context.Context, m model.Message) model.Message { return m }, nil)
	trips.On("ListByOwner", mock.Anything, "u-1").Return([]model.Trip{}, nil)
	messages.On("ListByUser", mock.Anything, "u-1", mock.AnythingOfType("int")).Return([]model.Message{
		{Sender: model.SenderUser, Text: "hello"},
		{Sender: model.SenderAssistant, Text: "Hi there"},
	}, nil)

	rec := httptest.NewRecorder()
	h.Send(rec, withUser(jsonRequest(t, http.MethodPost, "/api/chat/send", map[string]string{"message": "hello"}), "u-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	reply := decodeBody[model.ChatReply](t, rec)
	assert.Equal(t, model.SenderAssistant, reply.Sender)
	assert.NotEmpty(t, reply.Reply)

	rec = httptest.NewRecorder()
	h.History(rec, withUser(httptest.NewRequest(http.MethodGet, "/api/chat/history", nil), "u-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	history := decodeBody[[]model.Message](t, rec)
	require.Len(t, history, 2)
	assert.Equal(t, model.SenderUser, history[0].Sender)
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(stubPinger{}, nil).Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","dependencies":{"database":"up"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewHealthHandler(stubPinger{err: errors.New("down")}, nil).Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"degraded","dependencies":{"database":"down"}}`, rec.Body.String())
}
