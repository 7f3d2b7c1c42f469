package hr

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// LeaveApplication holds the fields accepted when submitting a leave
// request. Dates are calendar dates in YYYY-MM-DD form.
type LeaveApplication struct {
	EmployeeID uuid.UUID
	LeaveType  string
	StartDate  string
	EndDate    string
	Reason     *string
}

// SubmitLeave files a leave request in pending state.
func (s *Service) SubmitLeave(ctx context.Context, companyID uuid.UUID, in LeaveApplication) (*domain.LeaveRequest, error) {
	row := map[string]any{
		"company_id":  companyID,
		"employee_id": in.EmployeeID,
		"leave_type":  in.LeaveType,
		"start_date":  in.StartDate,
		"end_date":    in.EndDate,
		"status":      domain.LeavePending,
	}
	if in.Reason != nil {
		row["reason"] = *in.Reason
	}

	var request domain.LeaveRequest
	if err := s.backend.From("leave_requests").Insert(ctx, row, &request); err != nil {
		return nil, fmt.Errorf("submit leave: %w", err)
	}
	return &request, nil
}

// ListLeaves returns a company's leave requests, newest first.
func (s *Service) ListLeaves(ctx context.Context, companyID uuid.UUID) ([]domain.LeaveRequest, error) {
	var requests []domain.LeaveRequest
	err := s.backend.From("leave_requests").
		Select("*").
		Eq("company_id", companyID).
		Order("created_at", false).
		Get(ctx, &requests)
	if err != nil {
		return nil, fmt.Errorf("list leaves: %w", err)
	}
	return requests, nil
}

// ListPendingLeaves returns a company's pending leave requests.
func (s *Service) ListPendingLeaves(ctx context.Context, companyID uuid.UUID) ([]domain.LeaveRequest, error) {
	var requests []domain.LeaveRequest
	err := s.backend.From("leave_requests").
		Select("*").
		Eq("company_id", companyID).
		Eq("status", domain.LeavePending).
		Order("created_at", true).
		Get(ctx, &requests)
	if err != nil {
		return nil, fmt.Errorf("list pending leaves: %w", err)
	}
	return requests, nil
}

// ApproveLeave marks a leave request approved, recording the approver and
// approval time.
func (s *Service) ApproveLeave(ctx context.Context, companyID, requestID, approverID uuid.UUID) error {
	err := s.backend.From("leave_requests").
		Eq("company_id", companyID).
		Eq("id", requestID).
		Update(ctx, map[string]any{
			"status":      domain.LeaveApproved,
			"approved_by": approverID,
			"approved_at": time.Now().UTC().Format(time.RFC3339),
		})
	if err != nil {
		return fmt.Errorf("approve leave: %w", err)
	}
	return nil
}

// RejectLeave marks a leave request rejected with a reason.
func (s *Service) RejectLeave(ctx context.Context, companyID, requestID, approverID uuid.UUID, reason string) error {
	err := s.backend.From("leave_requests").
		Eq("company_id", companyID).
		Eq("id", requestID).
		Update(ctx, map[string]any{
			"status":           domain.LeaveRejected,
			"approved_by":      approverID,
			"rejection_reason": reason,
		})
	if err != nil {
		return fmt.Errorf("reject leave: %w", err)
	}
	return nil
}
