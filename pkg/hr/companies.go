package hr

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/crewbase/crewbase-go/pkg/domain"
)

// GetCompany returns a company record.
func (s *Service) GetCompany(ctx context.Context, companyID uuid.UUID) (*domain.Company, error) {
	var company domain.Company
	found, err := s.backend.From("companies").
		Select("*").
		Eq("id", companyID).
		MaybeSingle(ctx, &company)
	if err != nil {
		return nil, fmt.Errorf("get company: %w", err)
	}
	if !found {
		return nil, domain.ErrCompanyNotFound
	}
	return &company, nil
}
