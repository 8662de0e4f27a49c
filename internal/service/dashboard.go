package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/target/recruit-admin/internal/domain/model"
	apperrors "github.com/target/recruit-admin/internal/errors"
	"github.com/target/recruit-admin/internal/ports"
)

// RecentApplicationsLimit is how many applications the dashboard previews.
const RecentApplicationsLimit = 5

// DashboardStats summarizes the platform for the landing page.
type DashboardStats struct {
	TotalUsers        int
	TotalApplications int
	ByStatus          map[model.ApplicationStatus]int
	Recent            []model.Application
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Applications ports.ApplicationsAPI
	Users        ports.UsersAPI
	Logger       *slog.Logger
}

// DashboardService gathers dashboard counts from the backend concurrently.
type DashboardService struct {
	apps   ports.ApplicationsAPI
	users  ports.UsersAPI
	logger *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	return &DashboardService{apps: opts.Applications, users: opts.Users, logger: opts.Logger}
}

// Stats fetches totals per status, the applicant count and the latest applications.
// The first failing fetch cancels the rest.
func (s *DashboardService) Stats(ctx context.Context) (DashboardStats, error) {
	stats := DashboardStats{ByStatus: make(map[model.ApplicationStatus]int)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.users.ListUsers(gctx, model.UserListOptions{Page: 1, Limit: 1})
		if err != nil {
			return err
		}
		mu.Lock()
		stats.TotalUsers = list.Pagination.Total
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		list, err := s.apps.ListApplications(gctx, model.ApplicationListOptions{Page: 1, Limit: RecentApplicationsLimit})
		if err != nil {
			return err
		}
		mu.Lock()
		stats.TotalApplications = list.Pagination.Total
		stats.Recent = list.Applications
		mu.Unlock()
		return nil
	})
	for _, status := range model.ApplicationStatuses() {
		g.Go(func() error {
			list, err := s.apps.ListApplications(gctx, model.ApplicationListOptions{Page: 1, Limit: 1, Status: string(status)})
			if err != nil {
				return err
			}
			mu.Lock()
			stats.ByStatus[status] = list.Pagination.Total
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "dashboard stats failed", "error", err)
		}
		return DashboardStats{}, apperrors.FromAPI(err)
	}
	return stats, nil
}
