package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
	"github.com/target/recruit-admin/internal/ports"
)

// ProfileRefresher reloads the signed-in principal after a profile edit.
// *SessionManager satisfies it.
type ProfileRefresher interface {
	RefreshProfile(ctx context.Context) error
}

// ProfileServiceOptions groups dependencies for ProfileService.
type ProfileServiceOptions struct {
	API    ports.AdminsAPI
	Logger *slog.Logger
}

// ProfileService edits the signed-in admin's own account.
type ProfileService struct {
	api    ports.AdminsAPI
	logger *slog.Logger
}

// NewProfileService constructs a new ProfileService.
func NewProfileService(opts ProfileServiceOptions) *ProfileService {
	return &ProfileService{api: opts.API, logger: opts.Logger}
}

func (s *ProfileService) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Update saves the profile and then refreshes the session's principal.
// A failed refresh after a successful save is logged, not returned.
func (s *ProfileService) Update(ctx context.Context, session ProfileRefresher, req model.UpdateProfileRequest) error {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	if errs := req.Validate(); len(errs) > 0 {
		return apperrors.ValidationFields(formErrorMessage, errs)
	}
	if err := s.api.UpdateProfile(ctx, req); err != nil {
		return apperrors.FromAPI(err)
	}
	if session == nil {
		return nil
	}
	if err := session.RefreshProfile(ctx); err != nil {
		s.log().WarnContext(ctx, "profile saved but refresh failed", "error", err)
	}
	return nil
}

// ChangePassword rotates the signed-in admin's password.
func (s *ProfileService) ChangePassword(ctx context.Context, req model.ChangePasswordRequest) error {
	if errs := req.Validate(); len(errs) > 0 {
		return apperrors.ValidationFields(formErrorMessage, errs)
	}
	if err := s.api.ChangePassword(ctx, req); err != nil {
		return apperrors.FromAPI(err)
	}
	s.log().InfoContext(ctx, "admin password changed")
	return nil
}
