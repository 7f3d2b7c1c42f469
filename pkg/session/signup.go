package session

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/crewbase/crewbase-go/pkg/backend"
	"github.com/crewbase/crewbase-go/pkg/domain"
)

// adminPosition is the employee position written for the founding member.
const adminPosition = "Company Admin"

// SignUp creates a new identity. When companyName is non-empty it also
// creates the company (with a generated unique slug), an employee record for
// the new identity, and a company_admin membership.
//
// The three writes are sequential and not transactional: a company-creation
// failure stops the flow, while an employee or membership failure after the
// company row exists leaves that row orphaned and surfaces the error to the
// caller. No rollback or retry is attempted.
func (s *Store) SignUp(ctx context.Context, email, password, fullName, companyName string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidEmail, email)
	}

	session, err := s.backend.Auth.SignUp(ctx, backend.SignUpParams{
		Email:    email,
		Password: password,
		Metadata: map[string]string{"full_name": fullName},
	})
	if err != nil {
		return err
	}

	if companyName == "" {
		return nil
	}

	userID := session.User.ID

	var company domain.Company
	err = s.backend.From("companies").Insert(ctx, map[string]any{
		"name":  companyName,
		"slug":  generateCompanySlug(companyName),
		"email": email,
	}, &company)
	if err != nil {
		return fmt.Errorf("create company: %w", err)
	}

	var employee domain.Employee
	err = s.backend.From("employees").Insert(ctx, map[string]any{
		"user_id":    userID,
		"company_id": company.ID,
		"full_name":  fullName,
		"email":      email,
		"position":   adminPosition,
		"status":     domain.EmployeeStatusActive,
	}, &employee)
	if err != nil {
		// The company row persists; see the partial-failure note above.
		s.logger.Error("company created but employee record failed",
			"company_id", company.ID, "user_id", userID, "error", err)
		return fmt.Errorf("create employee record: %w", err)
	}

	err = s.backend.From("company_users").Insert(ctx, map[string]any{
		"user_id":     userID,
		"company_id":  company.ID,
		"employee_id": employee.ID,
		"role":        domain.RoleCompanyAdmin,
		"is_active":   true,
	}, nil)
	if err != nil {
		s.logger.Error("company created but membership failed",
			"company_id", company.ID, "user_id", userID, "error", err)
		return fmt.Errorf("create membership: %w", err)
	}

	// Refresh derived state so the new membership is visible without
	// waiting for the next identity change.
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	s.tasks.enqueue(func() {
		s.fetchUserData(context.Background(), userID, gen)
	})

	return nil
}
