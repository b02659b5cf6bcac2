package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"dario.cat/mergo"

	"go-travel-planner/internal/model"
	"go-travel-planner/internal/util"
)

type ProfileService struct {
	users   UserStore
	auth    *AuthService
	avatars *AvatarProcessor
}

func NewProfileService(users UserStore, auth *AuthService, avatars *AvatarProcessor) *ProfileService {
	return &ProfileService{users: users, auth: auth, avatars: avatars}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Update overlays the supplied fields onto the stored profile and writes
// only the columns that actually change.
func (s *ProfileService) Update(ctx context.Context, userID string, req model.UpdateProfileRequest) (model.User, error) {
	current, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.User{}, err
	}

	incoming := model.User{
		FullName: util.CleanText(req.FullName, false),
		Email:    strings.TrimSpace(req.Email),
	}

	if req.Password != "" {
		if err := checkPassword(req.Password); err != nil {
			return model.User{}, err
		}
		incoming.PasswordHash, err = s.auth.hashPassword(req.Password)
		if err != nil {
			return model.User{}, err
		}
	}

	if strings.TrimSpace(req.Avatar) != "" {
		incoming.Avatar, err = s.avatars.Normalize(req.Avatar)
		if err != nil {
			return model.User{}, err
		}
	}

	merged := current
	if err := mergo.Merge(&merged, incoming, mergo.WithOverride); err != nil {
		return model.User{}, fmt.Errorf("merge profile: %w", err)
	}

	patch := diffProfile(current, merged)
	if patch == (model.ProfilePatch{}) {
		return current, nil
	}

	updated, err := s.users.UpdateProfile(ctx, userID, patch, s.auth.now())
	if err != nil {
		return model.User{}, err
	}

	slog.Info("profile updated",
		"user_id", userID,
		"email_changed", patch.Email != "",
		"password_changed", patch.PasswordHash != "",
		"avatar_changed", patch.Avatar != "",
	)

	return updated, nil
}

func diffProfile(before, after model.User) model.ProfilePatch {
	var patch model.ProfilePatch
	if after.FullName != before.FullName {
		patch.FullName = after.FullName
	}
	if after.Email != before.Email {
		patch.Email = after.Email
	}
	if after.PasswordHash != before.PasswordHash {
		patch.PasswordHash = after.PasswordHash
	}
	if after.Avatar != before.Avatar {
		patch.Avatar = after.Avatar
	}
	return patch
}
