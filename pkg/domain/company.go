package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company is an isolated customer organization (the tenant).
// Branding columns feed the theme resolver.
type Company struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Email           *string   `json:"email"`
	Phone           *string   `json:"phone"`
	Address         *string   `json:"address"`
	Website         *string   `json:"website"`
	IsActive        *bool     `json:"is_active"`
	LogoURL         *string   `json:"logo_url"`
	PrimaryColor    *string   `json:"primary_color"`
	SecondaryColor  *string   `json:"secondary_color"`
	AccentColor     *string   `json:"accent_color"`
	TextColor       *string   `json:"text_color"`
	BackgroundColor *string   `json:"background_color"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CompanyRef is the subset of company fields embedded in membership queries.
type CompanyRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CompanyUser is the role-scoped link between an Identity and a Company.
// Only rows with IsActive=true participate in role resolution.
type CompanyUser struct {
	ID         uuid.UUID   `json:"id"`
	CompanyID  uuid.UUID   `json:"company_id"`
	UserID     uuid.UUID   `json:"user_id"`
	EmployeeID *uuid.UUID  `json:"employee_id"`
	Role       AppRole     `json:"role"`
	IsActive   bool        `json:"is_active"`
	Company    *CompanyRef `json:"companies"`
	CreatedAt  time.Time   `json:"created_at"`
}

// UserRole is a global role assignment held independent of any company.
type UserRole struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Role   AppRole   `json:"role"`
}
