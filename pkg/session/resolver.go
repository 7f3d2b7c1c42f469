package session

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// fetchUserData populates profile, global roles, and active memberships for
// an identity. The three fetches run concurrently and are independent: a
// failure in one is logged and degrades to no data without affecting the
// others. Results are applied only if the store's identity generation has
// not moved on since the fetch was scheduled.
func (s *Store) fetchUserData(ctx context.Context, userID uuid.UUID, gen uint64) {
	var (
		profile     *domain.Profile
		roles       []domain.AppRole
		memberships []domain.CompanyUser
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var p domain.Profile
		found, err := s.backend.From("profiles").
			Select("*").
			Eq("user_id", userID).
			MaybeSingle(ctx, &p)
		if err != nil {
			s.logger.Error("failed to fetch profile", "user_id", userID, "error", err)
			return nil
		}
		if found {
			profile = &p
		}
		return nil
	})

	g.Go(func() error {
		var rows []domain.UserRole
		err := s.backend.From("user_roles").
			Select("role").
			Eq("user_id", userID).
			Get(ctx, &rows)
		if err != nil {
			s.logger.Error("failed to fetch global roles", "user_id", userID, "error", err)
			return nil
		}
		roles = make([]domain.AppRole, 0, len(rows))
		for _, row := range rows {
			roles = append(roles, row.Role)
		}
		return nil
	})

	g.Go(func() error {
		var rows []domain.CompanyUser
		// Oldest membership first so "primary" is stable across fetches.
		err := s.backend.From("company_users").
			Select("id,company_id,user_id,employee_id,role,is_active,created_at,companies(id,name,slug)").
			Eq("user_id", userID).
			Eq("is_active", true).
			Order("created_at", true).
			Get(ctx, &rows)
		if err != nil {
			s.logger.Error("failed to fetch company memberships", "user_id", userID, "error", err)
			return nil
		}
		memberships = rows
		return nil
	})

	_ = g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		// The identity changed while the fetches were in flight.
		s.logger.Debug("discarding stale user data", "user_id", userID)
		return
	}
	if profile != nil {
		s.profile = profile
	}
	if roles != nil {
		s.roles = roles
	}
	if memberships != nil {
		s.memberships = memberships
	}
}
