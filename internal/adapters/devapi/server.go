// Package devapi is an in-memory stand-in for the recruitment backend's admin REST API.
// It is meant for local development and tests, never for production traffic.
package devapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
)

// Messages returned by the dev backend.
const (
	MsgInvalidCredentials = "Invalid credentials"
	MsgInvalidToken       = "Invalid or expired token"
	MsgSuperAdminOnly     = "Access denied. Super admin privileges required."
	MsgWrongPassword      = "Current password is incorrect"
	MsgValidationFailed   = "Validation failed"
)

// Options configures a Server.
type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	// SeedUsername and SeedPassword create the initial super admin when both are set.
	SeedUsername   string
	SeedPassword   string
	SeedApplicants int
	// BcryptCost defaults to bcrypt.DefaultCost; tests lower it.
	BcryptCost int
	Now        func() time.Time
	Logger     *slog.Logger
}

// Server serves the admin REST API from an in-memory Store.
type Server struct {
	store  *Store
	tokens hmacTokens
	logger *slog.Logger
}

// New builds a Server and seeds it.
func New(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.JWTSecret) == "" {
		return nil, errors.New("devapi: JWT secret is required")
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = domainauth.DefaultTokenTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	s := &Server{
		store:  newStore(opts.Now, opts.BcryptCost),
		tokens: hmacTokens{secret: []byte(opts.JWTSecret), ttl: opts.TokenTTL, now: opts.Now},
		logger: opts.Logger,
	}
	if err := s.seed(opts); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Store exposes the backing state so tests can arrange fixtures.
func (s *Server) Store() *Store { return s.store }

// IssueToken signs an admin token without a password check. Tests use it to skip the login call.
func (s *Server) IssueToken(p domainauth.Principal) (string, error) {
	return s.tokens.issue(p.ID, string(p.Role))
}

// Handler returns the chi router for the admin API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)

	r.Route("/api/admin", func(r chi.Router) {
		r.Post("/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdmin)
			r.Get("/me", s.me)
			r.Put("/update-profile", s.updateProfile)
			r.Put("/change-password", s.changePassword)

			r.Get("/dashboard/applications", s.listApplications)
			r.Get("/dashboard/application/{id}", s.getApplication)
			r.Put("/dashboard/application/{id}/status", s.updateApplicationStatus)
			r.Delete("/dashboard/application/{id}", s.deleteApplication)

			r.Get("/users", s.listUsers)
			r.Delete("/users/bulk-delete", s.bulkDeleteUsers)
			r.Delete("/users/{id}", s.deleteUser)
			r.Put("/users/{id}/verify", s.verifyUser)

			r.Group(func(r chi.Router) {
				r.Use(requireSuperAdmin)
				r.Get("/admins", s.listAdmins)
				r.Put("/admins/{id}/role", s.setAdminRole)
				r.Put("/admins/{id}/activate", s.setAdminActive(true))
				r.Put("/admins/{id}/deactivate", s.setAdminActive(false))
				r.Post("/create-admin", s.createAdmin)
			})
		})
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log().InfoContext(r.Context(), "devapi",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

type adminKey struct{}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerToken(r)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, MsgInvalidToken)
			return
		}
		claims, err := s.tokens.parse(raw)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, MsgInvalidToken)
			return
		}
		admin, err := s.store.Admin(claims.AdminID)
		if err != nil || !admin.IsActive {
			writeMessage(w, http.StatusUnauthorized, MsgInvalidToken)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey{}, admin)))
	})
}

func requireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !currentAdmin(r).Role.IsSuperAdmin() {
			writeMessage(w, http.StatusForbidden, MsgSuperAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentAdmin(r *http.Request) domainauth.Principal {
	p, _ := r.Context().Value(adminKey{}).(domainauth.Principal)
	return p
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	fields := fieldErrors{}
	fields.require("username", req.Username, "Username is required")
	fields.require("password", req.Password, "Password is required")
	if fields.write(w) {
		return
	}

	admin, err := s.store.Authenticate(req.Username, req.Password)
	switch {
	case errors.Is(err, errInactive):
		writeMessage(w, http.StatusForbidden, "Account is deactivated")
		return
	case err != nil:
		writeMessage(w, http.StatusUnauthorized, MsgInvalidCredentials)
		return
	}
	token, err := s.tokens.issue(admin.ID, string(admin.Role))
	if err != nil {
		s.log().ErrorContext(r.Context(), "issue token", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"token":   token,
		"admin":   admin,
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentAdmin(r))
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateProfileRequest
	if !decode(w, r, &req) {
		return
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	fields := fieldErrors{}
	fields.require("full_name", req.FullName, "Full name is required")
	fields.email("email", req.Email)
	if fields.write(w) {
		return
	}
	admin, err := s.store.UpdateProfile(currentAdmin(r).ID, req)
	if errors.Is(err, errEmailTaken) {
		writeMessage(w, http.StatusConflict, "Email is already in use")
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Profile updated successfully", "admin": admin})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req model.ChangePasswordRequest
	if !decode(w, r, &req) {
		return
	}
	fields := fieldErrors{}
	fields.require("currentPassword", req.CurrentPassword, "Current password is required")
	fields.password("newPassword", req.NewPassword)
	if fields.write(w) {
		return
	}
	err := s.store.ChangePassword(currentAdmin(r).ID, req.CurrentPassword, req.NewPassword)
	if errors.Is(err, errWrongPassword) {
		writeMessage(w, http.StatusBadRequest, MsgWrongPassword)
		return
	}
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list := s.store.Applications(model.ApplicationListOptions{
		Page:   atoi(q.Get("page")),
		Limit:  atoi(q.Get("limit")),
		Status: q.Get("status"),
		Search: q.Get("search"),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"applications": list.Applications,
		"pagination":   wirePagination(list.Pagination, "totalApplications"),
	})
}

func (s *Server) getApplication(w http.ResponseWriter, r *http.Request) {
	app, err := s.store.Application(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (s *Server) updateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateApplicationStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, fieldErrors{"status": "Invalid status"})
		return
	}
	app, err := s.store.UpdateStatus(chi.URLParam(r, "id"), req, currentAdmin(r).Username)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Application status updated", "application": app})
}

func (s *Server) deleteApplication(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteApplication(chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Application deleted successfully")
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list := s.store.Applicants(model.UserListOptions{
		Page:      atoi(q.Get("page")),
		Limit:     atoi(q.Get("limit")),
		Verified:  q.Get("verified"),
		Search:    q.Get("search"),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"users":      list.Users,
		"pagination": wirePagination(list.Pagination, "totalUsers"),
	})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if s.store.DeleteApplicants(chi.URLParam(r, "id")) == 0 {
		writeStoreError(w, errNotFound)
		return
	}
	writeMessage(w, http.StatusOK, "User deleted successfully")
}

func (s *Server) bulkDeleteUsers(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserIDs []string `json:"userIds"`
	}
	if !decode(w, r, &req) {
		return
	}
	if len(req.UserIDs) == 0 {
		writeValidation(w, fieldErrors{"userIds": "Please select users to delete"})
		return
	}
	n := s.store.DeleteApplicants(req.UserIDs...)
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("%d users deleted successfully", n),
		"deletedCount": n,
	})
}

func (s *Server) verifyUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Verified bool `json:"verified"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.store.SetVerified(chi.URLParam(r, "id"), req.Verified); err != nil {
		writeStoreError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "User verification updated")
}

func (s *Server) listAdmins(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Admins())
}

func (s *Server) setAdminRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Role string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}
	role, err := domainauth.ParseRole(req.Role)
	if err != nil {
		writeValidation(w, fieldErrors{"role": "Role must be admin or superadmin"})
		return
	}
	id := chi.URLParam(r, "id")
	if id == currentAdmin(r).ID {
		writeMessage(w, http.StatusBadRequest, "Cannot change your own role")
		return
	}
	admin, err := s.store.SetRole(id, role)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Admin role updated", "admin": admin})
}

func (s *Server) setAdminActive(active bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == currentAdmin(r).ID {
			writeMessage(w, http.StatusBadRequest, "Cannot change your own status")
			return
		}
		admin, err := s.store.SetActive(id, active)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"message": "Admin status updated", "admin": admin})
	}
}

func (s *Server) createAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		FullName string `json:"full_name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if !decode(w, r, &req) {
		return
	}
	fields := fieldErrors{}
	fields.require("username", strings.TrimSpace(req.Username), "Username is required")
	fields.email("email", strings.TrimSpace(req.Email))
	fields.password("password", req.Password)
	role, err := domainauth.ParseRole(req.Role)
	if err != nil {
		fields["role"] = "Role must be admin or superadmin"
	}
	if fields.write(w) {
		return
	}

	admin, err := s.store.AddAdmin(model.CreateAdminRequest{
		Username: strings.TrimSpace(req.Username),
		FullName: strings.TrimSpace(req.FullName),
		Email:    strings.TrimSpace(req.Email),
		Password: req.Password,
		Role:     role,
	})
	switch {
	case errors.Is(err, errUsernameTaken):
		writeMessage(w, http.StatusConflict, "Username already exists")
	case errors.Is(err, errEmailTaken):
		writeMessage(w, http.StatusConflict, "Email already exists")
	case err != nil:
		writeStoreError(w, err)
	default:
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Admin created successfully", "admin": admin})
	}
}

func wirePagination(p model.Pagination, totalKey string) map[string]any {
	return map[string]any{
		"currentPage": p.CurrentPage,
		"totalPages":  p.TotalPages,
		totalKey:      p.Total,
		"hasNextPage": p.HasNextPage,
		"hasPrevPage": p.HasPrevPage,
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
