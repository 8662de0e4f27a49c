// Package model defines the recruitment records the admin console reads from the backend.
package model

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus represents where an application is in review.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type ApplicationStatus string

const (
	ApplicationStatusSubmitted   ApplicationStatus = "submitted"
	ApplicationStatusUnderReview ApplicationStatus = "under_review"
	ApplicationStatusProcessing  ApplicationStatus = "processing"
	ApplicationStatusApproved    ApplicationStatus = "approved"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// ApplicationStatuses lists the statuses in review order.
func ApplicationStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		ApplicationStatusSubmitted,
		ApplicationStatusUnderReview,
		ApplicationStatusProcessing,
		ApplicationStatusApproved,
		ApplicationStatusRejected,
	}
}

// Valid returns true if the status is known.
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Label renders the status for display, e.g. "UNDER REVIEW".
func (s ApplicationStatus) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "_", " "))
}

// UnmarshalText implements encoding.TextUnmarshaler for ApplicationStatus.
func (s *ApplicationStatus) UnmarshalText(text []byte) error {
	v := ApplicationStatus(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid ApplicationStatus: %q", v)
	}
	*s = v
	return nil
}

// AdminNote is one entry of an application's review history.
type AdminNote struct {
	Note          string            `json:"note"                     yaml:"note"`
	Status        ApplicationStatus `json:"status,omitempty"         yaml:"status,omitempty"`
	AdminUsername string            `json:"admin_username,omitempty" yaml:"admin_username,omitempty"`
	Timestamp     time.Time         `json:"timestamp"                yaml:"timestamp"`
}

// Document is an uploaded file attached to an application. The backend stores it
// either inline as a base64 data URL or as a link.
type Document struct {
	FileName   string `json:"fileName,omitempty"   yaml:"file_name,omitempty"`
	FileType   string `json:"fileType,omitempty"   yaml:"file_type,omitempty"`
	FileSize   int64  `json:"fileSize,omitempty"   yaml:"file_size,omitempty"`
	Base64Data string `json:"base64Data,omitempty" yaml:"-"`
	URL        string `json:"url,omitempty"        yaml:"url,omitempty"`
}

// ErrDocumentUnavailable means the document carries neither inline data nor a link.
var ErrDocumentUnavailable = errors.New("document data not available")

// HasData reports whether the document content is stored inline.
func (d Document) HasData() bool { return strings.TrimSpace(d.Base64Data) != "" }

// Available reports whether the document can be viewed at all.
func (d Document) Available() bool { return d.HasData() || d.URL != "" }

// Viewable reports whether browsers can show the document inline (images and PDFs).
func (d Document) Viewable() bool {
	t := d.FileType
	return strings.HasPrefix(t, "image/") || t == "application/pdf"
}

// Kind is a short label for the file type.
func (d Document) Kind() string {
	t := strings.ToLower(d.FileType)
	switch {
	case strings.HasPrefix(t, "image/"):
		return "image"
	case t == "application/pdf":
		return "pdf"
	case strings.Contains(t, "word"), strings.Contains(t, "document"):
		return "document"
	case strings.Contains(t, "excel"), strings.Contains(t, "spreadsheet"):
		return "spreadsheet"
	default:
		return "file"
	}
}

// SizeLabel renders FileSize in KB with one decimal, or "" when unknown.
func (d Document) SizeLabel() string {
	if d.FileSize <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f KB", float64(d.FileSize)/1024)
}

// Content decodes the inline data. It accepts a "data:<type>;base64,<payload>" URL
// or a bare base64 payload. The content type prefers FileType, then the data URL's.
func (d Document) Content() (contentType string, data []byte, err error) {
	raw := strings.TrimSpace(d.Base64Data)
	if raw == "" {
		return "", nil, ErrDocumentUnavailable
	}
	contentType = d.FileType
	if rest, ok := strings.CutPrefix(raw, "data:"); ok {
		header, payload, found := strings.Cut(rest, ",")
		if !found {
			return "", nil, fmt.Errorf("malformed data URL for %q", d.FileName)
		}
		mediaType, params, _ := strings.Cut(header, ";")
		if !strings.Contains(params, "base64") {
			return "", nil, fmt.Errorf("data URL for %q is not base64 encoded", d.FileName)
		}
		if contentType == "" {
			contentType = mediaType
		}
		raw = payload
	}
	data, err = base64.StdEncoding.DecodeString(raw)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(raw, "="))
		if err != nil {
			return "", nil, fmt.Errorf("decode %q: %w", d.FileName, err)
		}
	}
	return contentType, data, nil
}

// Application is a submitted job application.
type Application struct {
	ID                string              `json:"id"                          yaml:"id"`
	ApplicationNumber string              `json:"application_number,omitempty" yaml:"application_number,omitempty"`
	Status            ApplicationStatus   `json:"status"                      yaml:"status"`
	FullName          string              `json:"full_name"                   yaml:"full_name"`
	Email             string              `json:"email,omitempty"             yaml:"email,omitempty"`
	Phone             string              `json:"phone,omitempty"             yaml:"phone,omitempty"`
	WhatsAppNumber    string              `json:"whatsapp_number,omitempty"   yaml:"whatsapp_number,omitempty"`
	DateOfBirth       string              `json:"date_of_birth,omitempty"     yaml:"date_of_birth,omitempty"`
	Nationality       string              `json:"nationality,omitempty"       yaml:"nationality,omitempty"`
	PassportNumber    string              `json:"passport_number,omitempty"   yaml:"passport_number,omitempty"`
	Address           string              `json:"address,omitempty"           yaml:"address,omitempty"`
	UserName          string              `json:"user_name,omitempty"         yaml:"user_name,omitempty"`
	UserEmail         string              `json:"user_email,omitempty"        yaml:"user_email,omitempty"`
	IPAddress         string              `json:"ip_address,omitempty"        yaml:"ip_address,omitempty"`
	Documents         map[string]Document `json:"documents,omitempty"         yaml:"documents,omitempty"`
	Agreements        map[string]bool     `json:"agreements,omitempty"        yaml:"agreements,omitempty"`
	AdminNotes        []AdminNote         `json:"admin_notes,omitempty"       yaml:"admin_notes,omitempty"`
	SubmittedAt       *time.Time          `json:"submitted_at,omitempty"      yaml:"submitted_at,omitempty"`
	UpdatedAt         *time.Time          `json:"updated_at,omitempty"        yaml:"updated_at,omitempty"`
}

// UpdateApplicationStatusRequest is the body of a status change.
type UpdateApplicationStatusRequest struct {
	Status ApplicationStatus `json:"status"`
	Note   string            `json:"note,omitempty"`
}

// Validate checks the requested status is known.
func (r UpdateApplicationStatusRequest) Validate() error {
	if !r.Status.Valid() {
		return fmt.Errorf("invalid status %q", r.Status)
	}
	return nil
}

// ApplicationListOptions filters the application list.
type ApplicationListOptions struct {
	Page   int
	Limit  int
	Status string // "all" or an ApplicationStatus
	Search string
}

// ApplicationList is one page of applications.
type ApplicationList struct {
	Applications []Application `json:"applications" yaml:"applications"`
	Pagination   Pagination    `json:"pagination"   yaml:"pagination"`
}
