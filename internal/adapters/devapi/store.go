package devapi

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
)

var (
	errNotFound       = errors.New("not found")
	errUsernameTaken  = errors.New("username already exists")
	errEmailTaken     = errors.New("email already exists")
	errWrongPassword  = errors.New("current password is incorrect")
	errBadCredentials = errors.New("invalid credentials")
	errInactive       = errors.New("account is deactivated")
)

type adminRecord struct {
	principal    domainauth.Principal
	passwordHash []byte
}

// Store is the in-memory state behind the development backend.
type Store struct {
	now  func() time.Time
	cost int

	mu           sync.RWMutex
	admins       map[string]*adminRecord
	applicants   map[string]model.Applicant
	applications map[string]model.Application
}

func newStore(now func() time.Time, cost int) *Store {
	return &Store{
		now:          now,
		cost:         cost,
		admins:       make(map[string]*adminRecord),
		applicants:   make(map[string]model.Applicant),
		applications: make(map[string]model.Application),
	}
}

// AddAdmin creates an admin account and returns it.
func (s *Store) AddAdmin(req model.CreateAdminRequest) (domainauth.Principal, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return domainauth.Principal{}, fmt.Errorf("hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if strings.EqualFold(a.principal.Username, req.Username) {
			return domainauth.Principal{}, errUsernameTaken
		}
		if req.Email != "" && strings.EqualFold(a.principal.Email, req.Email) {
			return domainauth.Principal{}, errEmailTaken
		}
	}
	created := s.now()
	p := domainauth.Principal{
		ID:        uuid.NewString(),
		Username:  req.Username,
		FullName:  req.FullName,
		Email:     req.Email,
		Role:      req.Role,
		IsActive:  true,
		CreatedAt: &created,
	}
	s.admins[p.ID] = &adminRecord{principal: p, passwordHash: hash}
	return p, nil
}

// Authenticate checks a username/password pair and stamps the last login.
func (s *Store) Authenticate(username, password string) (domainauth.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.admins {
		if !strings.EqualFold(a.principal.Username, username) {
			continue
		}
		if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
			return domainauth.Principal{}, errBadCredentials
		}
		if !a.principal.IsActive {
			return domainauth.Principal{}, errInactive
		}
		at := s.now()
		a.principal.LastLogin = &at
		return a.principal, nil
	}
	return domainauth.Principal{}, errBadCredentials
}

// Admin returns one admin by ID.
func (s *Store) Admin(id string) (domainauth.Principal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[id]
	if !ok {
		return domainauth.Principal{}, errNotFound
	}
	return a.principal, nil
}

// Admins lists admin accounts, oldest first.
func (s *Store) Admins() []domainauth.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domainauth.Principal, 0, len(s.admins))
	for _, a := range s.admins {
		out = append(out, a.principal)
	}
	sort.Slice(out, func(i, j int) bool { return timeOf(out[i].CreatedAt).Before(timeOf(out[j].CreatedAt)) })
	return out
}

func (s *Store) updateAdmin(id string, fn func(*adminRecord) error) (domainauth.Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.admins[id]
	if !ok {
		return domainauth.Principal{}, errNotFound
	}
	if err := fn(a); err != nil {
		return domainauth.Principal{}, err
	}
	return a.principal, nil
}

// SetRole changes an admin's role.
func (s *Store) SetRole(id string, role domainauth.Role) (domainauth.Principal, error) {
	return s.updateAdmin(id, func(a *adminRecord) error {
		a.principal.Role = role
		return nil
	})
}

// SetActive activates or deactivates an admin.
func (s *Store) SetActive(id string, active bool) (domainauth.Principal, error) {
	return s.updateAdmin(id, func(a *adminRecord) error {
		a.principal.IsActive = active
		return nil
	})
}

// UpdateProfile edits an admin's name and email.
func (s *Store) UpdateProfile(id string, req model.UpdateProfileRequest) (domainauth.Principal, error) {
	s.mu.RLock()
	for otherID, a := range s.admins {
		if otherID != id && strings.EqualFold(a.principal.Email, req.Email) {
			s.mu.RUnlock()
			return domainauth.Principal{}, errEmailTaken
		}
	}
	s.mu.RUnlock()
	return s.updateAdmin(id, func(a *adminRecord) error {
		a.principal.FullName = req.FullName
		a.principal.Email = req.Email
		return nil
	})
}

// ChangePassword verifies the current password before storing the new one.
func (s *Store) ChangePassword(id, current, next string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.updateAdmin(id, func(a *adminRecord) error {
		if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(current)) != nil {
			return errWrongPassword
		}
		a.passwordHash = hash
		return nil
	})
	return err
}

// AddApplicant stores an applicant.
func (s *Store) AddApplicant(a model.Applicant) model.Applicant {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt == nil {
		at := s.now()
		a.CreatedAt = &at
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applicants[a.ID] = a
	return a
}

// Applicants returns one filtered, sorted page of applicants.
func (s *Store) Applicants(opts model.UserListOptions) model.UserList {
	s.mu.RLock()
	all := make([]model.Applicant, 0, len(s.applicants))
	for _, a := range s.applicants {
		if matchesApplicant(a, opts) {
			all = append(all, a)
		}
	}
	s.mu.RUnlock()

	desc := !strings.EqualFold(opts.SortOrder, "asc")
	sort.Slice(all, func(i, j int) bool {
		less := applicantLess(all[i], all[j], opts.SortBy)
		if desc {
			return applicantLess(all[j], all[i], opts.SortBy)
		}
		return less
	})
	items, p := paginate(all, opts.Page, opts.Limit)
	return model.UserList{Users: items, Pagination: p}
}

func matchesApplicant(a model.Applicant, opts model.UserListOptions) bool {
	switch opts.Verified {
	case "true":
		if !a.IsVerified {
			return false
		}
	case "false":
		if a.IsVerified {
			return false
		}
	}
	return containsFold(opts.Search, a.Name, a.Email, a.Phone)
}

func applicantLess(a, b model.Applicant, field string) bool {
	switch field {
	case "name":
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case "email":
		return strings.ToLower(a.Email) < strings.ToLower(b.Email)
	default:
		return timeOf(a.CreatedAt).Before(timeOf(b.CreatedAt))
	}
}

// DeleteApplicants removes applicants by ID and reports how many existed.
func (s *Store) DeleteApplicants(ids ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, id := range ids {
		if _, ok := s.applicants[id]; ok {
			delete(s.applicants, id)
			n++
		}
	}
	return n
}

// SetVerified flips an applicant's verified flag.
func (s *Store) SetVerified(id string, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applicants[id]
	if !ok {
		return errNotFound
	}
	a.IsVerified = verified
	s.applicants[id] = a
	return nil
}

// AddApplication stores an application.
func (s *Store) AddApplication(app model.Application) model.Application {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.SubmittedAt == nil {
		at := s.now()
		app.SubmittedAt = &at
	}
	if app.Status == "" {
		app.Status = model.ApplicationStatusSubmitted
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applications[app.ID] = app
	return app
}

// Applications returns one filtered page of applications, newest first.
func (s *Store) Applications(opts model.ApplicationListOptions) model.ApplicationList {
	s.mu.RLock()
	all := make([]model.Application, 0, len(s.applications))
	for _, app := range s.applications {
		if opts.Status != "" && opts.Status != model.FilterAll && string(app.Status) != opts.Status {
			continue
		}
		if !containsFold(opts.Search, app.FullName, app.Email, app.ApplicationNumber, app.PassportNumber) {
			continue
		}
		all = append(all, app)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return timeOf(all[j].SubmittedAt).Before(timeOf(all[i].SubmittedAt)) })
	items, p := paginate(all, opts.Page, opts.Limit)
	return model.ApplicationList{Applications: items, Pagination: p}
}

// Application returns one application.
func (s *Store) Application(id string) (model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.applications[id]
	if !ok {
		return model.Application{}, errNotFound
	}
	return app, nil
}

// UpdateStatus moves an application to a new status and appends a review note.
func (s *Store) UpdateStatus(id string, req model.UpdateApplicationStatusRequest, by string) (model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.applications[id]
	if !ok {
		return model.Application{}, errNotFound
	}
	at := s.now()
	app.Status = req.Status
	app.UpdatedAt = &at
	app.AdminNotes = append(slices.Clone(app.AdminNotes), model.AdminNote{
		Note:          req.Note,
		Status:        req.Status,
		AdminUsername: by,
		Timestamp:     at,
	})
	s.applications[id] = app
	return app, nil
}

// DeleteApplication removes an application.
func (s *Store) DeleteApplication(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applications[id]; !ok {
		return errNotFound
	}
	delete(s.applications, id)
	return nil
}

func paginate[T any](all []T, page, limit int) ([]T, model.Pagination) {
	page, limit = model.NormalizePage(page, limit)
	total := len(all)
	pages := (total + limit - 1) / limit
	start := min((page-1)*limit, total)
	end := min(start+limit, total)
	return all[start:end], model.Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		Total:       total,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}

func containsFold(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func timeOf(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
