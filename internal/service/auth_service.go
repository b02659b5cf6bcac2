package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-travel-planner/internal/model"
	"go-travel-planner/internal/util"
	"go-travel-planner/pkg/apierror"
)

const defaultHashCost = 12

type UserStore interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	UpdateProfile(ctx context.Context, id string, patch model.ProfilePatch, now time.Time) (model.User, error)
}

type TokenIssuer interface {
	Issue(userID string, role string) (string, time.Time, error)
}

// AuthResult is a user together with a freshly issued session token.
type AuthResult struct {
	User      model.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users    UserStore
	issuer   TokenIssuer
	hashCost int
	now      func() time.Time

	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash []byte
}

type AuthOption func(*AuthService)

func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

func WithAuthClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(users UserStore, issuer TokenIssuer, opts ...AuthOption) (*AuthService, error) {
	s := &AuthService{
		users:    users,
		issuer:   issuer,
		hashCost: defaultHashCost,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}

	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (AuthResult, error) {
	fullName := util.CleanText(req.FullName, false)
	email := strings.TrimSpace(req.Email)

	if fullName == "" {
		return AuthResult{}, apierror.Validation("full name is required", "fullName")
	}
	if email == "" {
		return AuthResult{}, apierror.Validation("email is required", "email")
	}
	if err := checkPassword(req.Password); err != nil {
		return AuthResult{}, err
	}

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return AuthResult{}, model.ErrEmailTaken
	case !errors.Is(err, model.ErrUserNotFound):
		return AuthResult{}, err
	}

	hash, err := s.hashPassword(req.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := s.now()
	user, err := s.users.Create(ctx, model.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleMember,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return AuthResult{}, err
	}

	slog.Info("user registered", "user_id", user.ID)

	return s.startSession(user)
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, model.ErrUserNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(req.Password))
		return AuthResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return AuthResult{}, model.ErrInvalidCredentials
	}

	return s.startSession(user)
}

func (s *AuthService) startSession(user model.User) (AuthResult, error) {
	token, expiresAt, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue session: %w", err)
	}
	return AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func checkPassword(password string) error {
	if len(password) < 6 {
		return apierror.Validation("password must be at least 6 characters", "password")
	}
	// bcrypt only looks at the first 72 bytes.
	if len(password) > 72 {
		return apierror.Validation("password must be at most 72 bytes", "password")
	}
	return nil
}

func (s *AuthService) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
