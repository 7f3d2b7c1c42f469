// Package hr provides typed access to the HR tables: employees, attendance,
// and leave requests, all scoped to a company.
package hr

import (
	"log/slog"

	"github.com/crewbase/crewbase-go/pkg/backend"
)

// Service bundles the HR table accessors.
type Service struct {
	backend *backend.Client
	logger  *slog.Logger
}

// NewService creates an HR service over the backend client.
func NewService(client *backend.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{backend: client, logger: logger}
}
