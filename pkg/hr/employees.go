package hr

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// NewEmployee holds the fields accepted when creating an employee.
type NewEmployee struct {
	FullName     string
	Email        string
	Phone        *string
	Position     *string
	DepartmentID *uuid.UUID
	EmployeeCode *string
	JoiningDate  *string
	UserID       *uuid.UUID
}

// EmployeePatch is a partial employee update. Nil fields are untouched.
type EmployeePatch struct {
	FullName     *string    `json:"full_name,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Position     *string    `json:"position,omitempty"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	Status       *string    `json:"status,omitempty"`
	AvatarURL    *string    `json:"avatar_url,omitempty"`
}

// ListEmployees returns a company's employees, newest first.
func (s *Service) ListEmployees(ctx context.Context, companyID uuid.UUID) ([]domain.Employee, error) {
	var employees []domain.Employee
	err := s.backend.From("employees").
		Select("*").
		Eq("company_id", companyID).
		Order("created_at", false).
		Get(ctx, &employees)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return employees, nil
}

// GetEmployee returns one employee within a company.
func (s *Service) GetEmployee(ctx context.Context, companyID, employeeID uuid.UUID) (*domain.Employee, error) {
	var employee domain.Employee
	found, err := s.backend.From("employees").
		Select("*").
		Eq("company_id", companyID).
		Eq("id", employeeID).
		MaybeSingle(ctx, &employee)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	if !found {
		return nil, domain.ErrEmployeeNotFound
	}
	return &employee, nil
}

// CreateEmployee adds an employee to a company with status active.
func (s *Service) CreateEmployee(ctx context.Context, companyID uuid.UUID, in NewEmployee) (*domain.Employee, error) {
	row := map[string]any{
		"company_id": companyID,
		"full_name":  in.FullName,
		"email":      in.Email,
		"status":     domain.EmployeeStatusActive,
	}
	if in.Phone != nil {
		row["phone"] = *in.Phone
	}
	if in.Position != nil {
		row["position"] = *in.Position
	}
	if in.DepartmentID != nil {
		row["department_id"] = *in.DepartmentID
	}
	if in.EmployeeCode != nil {
		row["employee_code"] = *in.EmployeeCode
	}
	if in.JoiningDate != nil {
		row["joining_date"] = *in.JoiningDate
	}
	if in.UserID != nil {
		row["user_id"] = *in.UserID
	}

	var employee domain.Employee
	if err := s.backend.From("employees").Insert(ctx, row, &employee); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	return &employee, nil
}

// UpdateEmployee patches an employee record.
func (s *Service) UpdateEmployee(ctx context.Context, companyID, employeeID uuid.UUID, patch EmployeePatch) error {
	err := s.backend.From("employees").
		Eq("company_id", companyID).
		Eq("id", employeeID).
		Update(ctx, patch)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	return nil
}
