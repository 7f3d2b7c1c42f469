package session

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)

// generateCompanySlug derives a unique slug from a company name.
// The name is lowercased, runs of non-alphanumeric characters collapse to a
// single hyphen, leading/trailing hyphens are stripped, and an 8-char
// uniqueness token is appended.
// Example: "Acme Corp!!" -> "acme-corp-1a2b3c4d"
func generateCompanySlug(name string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "company"
	}

	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return slug + "-" + token
}
