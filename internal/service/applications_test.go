package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/recruit-admin/internal/apiclient"
	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
)

func TestApplicationService_ListNormalizesPaging(t *testing.T) {
	t.Parallel()
	fb := newFakeBackend()
	svc := NewApplicationService(ApplicationServiceOptions{API: fb})

	_, err := svc.List(context.Background(), model.ApplicationListOptions{Page: -3, Limit: 1000, Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, 1, fb.lastListed.Page)
	assert.Equal(t, model.MaxPageLimit, fb.lastListed.Limit)
	assert.Equal(t, "approved", fb.lastListed.Status)
}

func TestApplicationService_ListRejectsUnknownStatus(t *testing.T) {
	t.Parallel()
	fb := newFakeBackend()
	svc := NewApplicationService(ApplicationServiceOptions{API: fb})

	_, err := svc.List(context.Background(), model.ApplicationListOptions{Status: "archived"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, fb.Calls())

	_, err = svc.List(context.Background(), model.ApplicationListOptions{Status: model.FilterAll})
	assert.NoError(t, err)
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	t.Parallel()
	fb := newFakeBackend()
	svc := NewApplicationService(ApplicationServiceOptions{API: fb})
	ctx := context.Background()

	err := svc.UpdateStatus(ctx, "a1", model.UpdateApplicationStatusRequest{Status: "shipped"})
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "status", apperrors.GetField(err))

	err = svc.UpdateStatus(ctx, " ", model.UpdateApplicationStatusRequest{Status: model.ApplicationStatusApproved})
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, fb.Calls())

	require.NoError(t, svc.UpdateStatus(ctx, "a1", model.UpdateApplicationStatusRequest{
		Status: model.ApplicationStatusUnderReview, Note: "  checking passport  ",
	}))
	assert.Equal(t, []string{"UpdateApplicationStatus a1"}, fb.Calls())
	assert.Equal(t, "checking passport", fb.lastStatus.Note)
}

func TestApplicationService_MapsBackendErrors(t *testing.T) {
	t.Parallel()
	fb := newFakeBackend()
	fb.err = &apiclient.ResponseError{StatusCode: http.StatusNotFound, Message: "Application not found"}
	svc := NewApplicationService(ApplicationServiceOptions{API: fb})

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Application not found", apperrors.Message(err, ""))

	err = svc.Delete(context.Background(), "missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestApplicationService_Document(t *testing.T) {
	t.Parallel()
	fb := newFakeBackend()
	fb.apps["a1"] = model.Application{ID: "a1", Documents: map[string]model.Document{
		"cv":     {FileName: "cv.pdf", FileType: "application/pdf", Base64Data: "JVBERi0="},
		"letter": {FileName: "letter.docx"},
	}}
	svc := NewApplicationService(ApplicationServiceOptions{API: fb})
	ctx := context.Background()

	doc, err := svc.Document(ctx, "a1", "cv")
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", doc.FileName)

	_, err = svc.Document(ctx, "a1", "passport")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Document not found", apperrors.Message(err, ""))

	_, err = svc.Document(ctx, "a1", "letter")
	assert.True(t, apperrors.IsNotFound(err))
	assert.Equal(t, "Document data not available", apperrors.Message(err, ""))

	_, err = svc.Document(ctx, "a1", " ")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, []string{"GetApplication a1", "GetApplication a1", "GetApplication a1"}, fb.Calls())
}
