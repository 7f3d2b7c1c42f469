package stub

import (
	"net/http/httptest"
	"testing"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantFilters map[string]string
		wantOrder   string
		wantAsc     bool
		wantLimit   int
		wantSelect  string
	}{
		{
			name:        "bare",
			url:         "/rest/v1/employees",
			wantFilters: map[string]string{},
		},
		{
			name:        "equality filters",
			url:         "/rest/v1/employees?company_id=eq.c1&status=eq.active",
			wantFilters: map[string]string{"company_id": "c1", "status": "active"},
		},
		{
			name:        "select order and limit",
			url:         "/rest/v1/employees?select=id,full_name&order=created_at.desc&limit=10",
			wantFilters: map[string]string{},
			wantOrder:   "created_at",
			wantAsc:     false,
			wantLimit:   10,
			wantSelect:  "id,full_name",
		},
		{
			name:        "ascending order",
			url:         "/rest/v1/company_users?order=created_at.asc",
			wantFilters: map[string]string{},
			wantOrder:   "created_at",
			wantAsc:     true,
		},
		{
			name:        "order without direction defaults ascending",
			url:         "/rest/v1/employees?order=full_name",
			wantFilters: map[string]string{},
			wantOrder:   "full_name",
			wantAsc:     true,
		},
		{
			name:        "non-eq values ignored",
			url:         "/rest/v1/employees?company_id=gt.5",
			wantFilters: map[string]string{},
		},
		{
			name:        "embedded relation select",
			url:         "/rest/v1/company_users?select=id,role,companies(id,name,slug)&user_id=eq.u1",
			wantFilters: map[string]string{"user_id": "u1"},
			wantSelect:  "id,role,companies(id,name,slug)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			filters, orderColumn, orderAsc, limit, selectCols, err := parseQuery(req)
			if err != nil {
				t.Fatalf("parseQuery: %v", err)
			}

			if len(filters) != len(tt.wantFilters) {
				t.Errorf("filters = %v, want %v", filters, tt.wantFilters)
			}
			for k, v := range tt.wantFilters {
				if filters[k] != v {
					t.Errorf("filter %q = %q, want %q", k, filters[k], v)
				}
			}
			if orderColumn != tt.wantOrder {
				t.Errorf("order column = %q, want %q", orderColumn, tt.wantOrder)
			}
			if tt.wantOrder != "" && orderAsc != tt.wantAsc {
				t.Errorf("order asc = %v, want %v", orderAsc, tt.wantAsc)
			}
			if limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", limit, tt.wantLimit)
			}
			if selectCols != tt.wantSelect {
				t.Errorf("select = %q, want %q", selectCols, tt.wantSelect)
			}
		})
	}
}

func TestParseQueryBadLimit(t *testing.T) {
	req := httptest.NewRequest("GET", "/rest/v1/employees?limit=ten", nil)
	if _, _, _, _, _, err := parseQuery(req); err == nil {
		t.Fatal("expected error for non-numeric limit")
	}
}
