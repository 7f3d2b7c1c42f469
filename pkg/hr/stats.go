package hr

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// DashboardStats summarizes a company for the dashboard cards.
type DashboardStats struct {
	Headcount       int
	TodayAttendance map[domain.AttendanceStatus]int
	PendingLeaves   int
}

// DashboardStatsFor gathers headcount, today's attendance tally, and the
// pending-leave count for a company. Date is today in YYYY-MM-DD form.
func (s *Service) DashboardStatsFor(ctx context.Context, companyID uuid.UUID, date string) (*DashboardStats, error) {
	stats := &DashboardStats{
		TodayAttendance: make(map[domain.AttendanceStatus]int),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		employees, err := s.ListEmployees(ctx, companyID)
		if err != nil {
			return err
		}
		stats.Headcount = len(employees)
		return nil
	})

	g.Go(func() error {
		records, err := s.ListAttendanceByDate(ctx, companyID, date)
		if err != nil {
			return err
		}
		for _, record := range records {
			stats.TodayAttendance[record.Status]++
		}
		return nil
	})

	g.Go(func() error {
		pending, err := s.ListPendingLeaves(ctx, companyID)
		if err != nil {
			return err
		}
		stats.PendingLeaves = len(pending)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}
