package devapi

import (
	"fmt"
	"strings"
	"time"

	domainauth "github.com/target/recruit-admin/internal/domain/auth"
	"github.com/target/recruit-admin/internal/domain/model"
)

var (
	seedFirstNames = []string{"Amina", "Bilal", "Carmen", "Daniel", "Esra", "Farid", "Grace", "Hassan", "Imani", "Jonas"}
	seedLastNames  = []string{"Okafor", "Rahman", "Silva", "Novak", "Yilmaz", "Haddad", "Mensah", "Ali", "Kariuki", "Berg"}
	seedPositions  = []string{"Warehouse Operative", "Caregiver", "Electrician", "Driver", "Hospitality Staff"}
)

// seedPhoto is a 1x1 PNG stored inline the way the applicant portal uploads photos.
const seedPhoto = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

// seed creates the initial super admin and demo applicants with one application each.
func (s *Server) seed(opts Options) error {
	if opts.SeedUsername != "" && opts.SeedPassword != "" {
		if _, err := s.store.AddAdmin(model.CreateAdminRequest{
			Username: opts.SeedUsername,
			FullName: "Super Admin",
			Email:    opts.SeedUsername + "@example.com",
			Password: opts.SeedPassword,
			Role:     domainauth.RoleSuperAdmin,
		}); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	statuses := model.ApplicationStatuses()
	base := opts.Now().Add(-time.Duration(opts.SeedApplicants) * time.Hour)
	for i := range opts.SeedApplicants {
		name := seedFirstNames[i%len(seedFirstNames)] + " " + seedLastNames[(i/len(seedFirstNames)+i)%len(seedLastNames)]
		email := fmt.Sprintf("%s.%d@example.com", strings.ToLower(strings.ReplaceAll(name, " ", ".")), i+1)
		created := base.Add(time.Duration(i) * time.Hour)
		applicant := s.store.AddApplicant(model.Applicant{
			Name:       name,
			Email:      email,
			Phone:      fmt.Sprintf("+1555%07d", i+1),
			IsVerified: i%3 != 0,
			CreatedAt:  &created,
		})
		submitted := created.Add(30 * time.Minute)
		s.store.AddApplication(model.Application{
			ApplicationNumber: fmt.Sprintf("APP-%05d", i+1),
			Status:            statuses[i%len(statuses)],
			FullName:          name,
			Email:             email,
			Phone:             applicant.Phone,
			Nationality:       "Kenyan",
			PassportNumber:    fmt.Sprintf("P%08d", 1000+i),
			UserName:          name,
			UserEmail:         email,
			Agreements:        map[string]bool{"terms": true, "privacy": true},
			Documents: map[string]model.Document{
				"passport": {FileName: "passport.pdf", FileType: "application/pdf", URL: "/uploads/" + applicant.ID + "/passport.pdf"},
				"photo":    {FileName: "photo.png", FileType: "image/png", FileSize: 68, Base64Data: seedPhoto},
			},
			AdminNotes:  []model.AdminNote{{Note: "Applied for " + seedPositions[i%len(seedPositions)], Timestamp: submitted}},
			SubmittedAt: &submitted,
		})
	}
	s.log().Info("devapi seeded", "admins", len(s.store.Admins()), "applicants", opts.SeedApplicants)
	return nil
}
