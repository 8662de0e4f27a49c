package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
	"github.com/target/recruit-admin/internal/ports"
)

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	API    ports.UsersAPI
	Logger *slog.Logger
}

// UserService manages applicant accounts.
type UserService struct {
	api    ports.UsersAPI
	logger *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	return &UserService{api: opts.API, logger: opts.Logger}
}

func (s *UserService) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// List returns one page of applicants.
func (s *UserService) List(ctx context.Context, opts model.UserListOptions) (model.UserList, error) {
	opts.Page, opts.Limit = model.NormalizePage(opts.Page, opts.Limit)
	list, err := s.api.ListUsers(ctx, opts)
	if err != nil {
		return model.UserList{}, apperrors.FromAPI(err)
	}
	return list, nil
}

// Delete removes one applicant.
func (s *UserService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.Validation("user id is required")
	}
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return apperrors.FromAPI(err)
	}
	s.log().InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

// BulkDelete removes every selected applicant. Blank and duplicate ids are dropped;
// an empty selection is a validation failure.
func (s *UserService) BulkDelete(ctx context.Context, ids []string) (model.BulkDeleteResult, error) {
	selected := uniqueIDs(ids)
	if len(selected) == 0 {
		return model.BulkDeleteResult{}, apperrors.ValidationField("userIds", "Please select users to delete")
	}
	res, err := s.api.BulkDeleteUsers(ctx, selected)
	if err != nil {
		return model.BulkDeleteResult{}, apperrors.FromAPI(err)
	}
	s.log().InfoContext(ctx, "users bulk deleted", "requested", len(selected), "deleted", res.DeletedCount)
	return res, nil
}

// SetVerified marks an applicant verified or unverified.
func (s *UserService) SetVerified(ctx context.Context, id string, verified bool) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.Validation("user id is required")
	}
	if err := s.api.SetUserVerified(ctx, id, verified); err != nil {
		return apperrors.FromAPI(err)
	}
	return nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
