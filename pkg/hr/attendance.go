package hr

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// AttendanceEntry holds the fields accepted when recording attendance.
// Date is a calendar date in YYYY-MM-DD form.
type AttendanceEntry struct {
	EmployeeID uuid.UUID
	Date       string
	Status     domain.AttendanceStatus
	CheckIn    *string
	CheckOut   *string
	Notes      *string
}

// RecordAttendance writes one employee-day attendance record.
func (s *Service) RecordAttendance(ctx context.Context, companyID uuid.UUID, entry AttendanceEntry) (*domain.Attendance, error) {
	if !entry.Status.Known() {
		return nil, fmt.Errorf("record attendance: unknown status %q", entry.Status)
	}

	row := map[string]any{
		"company_id":  companyID,
		"employee_id": entry.EmployeeID,
		"date":        entry.Date,
		"status":      entry.Status,
	}
	if entry.CheckIn != nil {
		row["check_in"] = *entry.CheckIn
	}
	if entry.CheckOut != nil {
		row["check_out"] = *entry.CheckOut
	}
	if entry.Notes != nil {
		row["notes"] = *entry.Notes
	}

	var record domain.Attendance
	if err := s.backend.From("attendance").Insert(ctx, row, &record); err != nil {
		return nil, fmt.Errorf("record attendance: %w", err)
	}
	return &record, nil
}

// ListAttendanceByDate returns a company's attendance records for one date.
func (s *Service) ListAttendanceByDate(ctx context.Context, companyID uuid.UUID, date string) ([]domain.Attendance, error) {
	var records []domain.Attendance
	err := s.backend.From("attendance").
		Select("*").
		Eq("company_id", companyID).
		Eq("date", date).
		Get(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	return records, nil
}

// ListEmployeeAttendance returns one employee's attendance, newest first.
func (s *Service) ListEmployeeAttendance(ctx context.Context, companyID, employeeID uuid.UUID) ([]domain.Attendance, error) {
	var records []domain.Attendance
	err := s.backend.From("attendance").
		Select("*").
		Eq("company_id", companyID).
		Eq("employee_id", employeeID).
		Order("date", false).
		Get(ctx, &records)
	if err != nil {
		return nil, fmt.Errorf("list employee attendance: %w", err)
	}
	return records, nil
}
