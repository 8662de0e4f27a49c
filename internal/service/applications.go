package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
	"github.com/target/recruit-admin/internal/ports"
)

// ApplicationServiceOptions groups dependencies for ApplicationService.
type ApplicationServiceOptions struct {
	API    ports.ApplicationsAPI
	Logger *slog.Logger
}

// ApplicationService reads and moderates job applications through the backend.
type ApplicationService struct {
	api    ports.ApplicationsAPI
	logger *slog.Logger
}

// NewApplicationService constructs a new ApplicationService.
func NewApplicationService(opts ApplicationServiceOptions) *ApplicationService {
	return &ApplicationService{api: opts.API, logger: opts.Logger}
}

func (s *ApplicationService) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// List returns one page of applications matching opts.
func (s *ApplicationService) List(ctx context.Context, opts model.ApplicationListOptions) (model.ApplicationList, error) {
	if st := strings.TrimSpace(opts.Status); st != "" && st != model.FilterAll && !model.ApplicationStatus(st).Valid() {
		return model.ApplicationList{}, apperrors.ValidationField("status", "Unknown status filter")
	}
	opts.Page, opts.Limit = model.NormalizePage(opts.Page, opts.Limit)
	list, err := s.api.ListApplications(ctx, opts)
	if err != nil {
		return model.ApplicationList{}, apperrors.FromAPI(err)
	}
	return list, nil
}

// Get returns a single application with its notes.
func (s *ApplicationService) Get(ctx context.Context, id string) (model.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Application{}, apperrors.Validation("application id is required")
	}
	app, err := s.api.GetApplication(ctx, id)
	if err != nil {
		return model.Application{}, apperrors.FromAPI(err)
	}
	return app, nil
}

// Document returns one named document of an application.
func (s *ApplicationService) Document(ctx context.Context, id, name string) (model.Document, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Document{}, apperrors.Validation("document name is required")
	}
	app, err := s.Get(ctx, id)
	if err != nil {
		return model.Document{}, err
	}
	doc, ok := app.Documents[name]
	if !ok {
		return model.Document{}, apperrors.NotFound("Document not found")
	}
	if !doc.Available() {
		return model.Document{}, apperrors.NotFound("Document data not available")
	}
	return doc, nil
}

// UpdateStatus moves an application to a new status with an optional note.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id string, req model.UpdateApplicationStatusRequest) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.Validation("application id is required")
	}
	req.Note = strings.TrimSpace(req.Note)
	if err := req.Validate(); err != nil {
		return apperrors.ValidationField("status", "Please choose a valid status")
	}
	if err := s.api.UpdateApplicationStatus(ctx, id, req); err != nil {
		return apperrors.FromAPI(err)
	}
	s.log().InfoContext(ctx, "application status updated", "application_id", id, "status", req.Status)
	return nil
}

// Delete removes an application.
func (s *ApplicationService) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.Validation("application id is required")
	}
	if err := s.api.DeleteApplication(ctx, id); err != nil {
		return apperrors.FromAPI(err)
	}
	s.log().InfoContext(ctx, "application deleted", "application_id", id)
	return nil
}
