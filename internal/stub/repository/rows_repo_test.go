package repository

import (
	"testing"
	"time"
)

func TestKnownTable(t *testing.T) {
	for _, table := range []string{
		"profiles", "user_roles", "companies", "company_users",
		"employees", "attendance", "leave_requests",
	} {
		if !KnownTable(table) {
			t.Errorf("KnownTable(%q) = false", table)
		}
	}

	for _, table := range []string{"auth_users", "auth_sessions", "pg_tables", ""} {
		if KnownTable(table) {
			t.Errorf("KnownTable(%q) = true, table must not be exposed", table)
		}
	}
}

func TestValidColumn(t *testing.T) {
	tests := []struct {
		table  string
		column string
		want   bool
	}{
		{table: "employees", column: "full_name", want: true},
		{table: "employees", column: "id", want: true},
		{table: "employees", column: "created_at", want: true},
		{table: "employees", column: "password_hash", want: false},
		{table: "companies", column: "accent_color", want: true},
		{table: "companies", column: "joining_date", want: false},
		{table: "leave_requests", column: "rejection_reason", want: true},
		{table: "user_roles", column: "role", want: true},
		{table: "user_roles", column: "status", want: false},
	}

	for _, tt := range tests {
		if got := validColumn(tt.table, tt.column); got != tt.want {
			t.Errorf("validColumn(%q, %q) = %v, want %v", tt.table, tt.column, got, tt.want)
		}
	}
}

func TestBuildWhere(t *testing.T) {
	where, args, err := buildWhere("employees", map[string]string{
		"company_id": "c1",
		"status":     "active",
	})
	if err != nil {
		t.Fatalf("buildWhere: %v", err)
	}

	// Columns are sorted, so the clause is deterministic
	want := " WHERE company_id = $1 AND status = $2"
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 2 || args[0] != "c1" || args[1] != "active" {
		t.Errorf("args = %v", args)
	}

	if _, _, err := buildWhere("employees", map[string]string{"password_hash": "x"}); err == nil {
		t.Error("unknown column accepted in filter")
	}

	where, args, err = buildWhere("employees", nil)
	if err != nil || where != "" || args != nil {
		t.Errorf("empty filters: %q %v %v", where, args, err)
	}
}

func TestBuildWhereQualified(t *testing.T) {
	where, _, err := buildWhereQualified("company_users", "cu", map[string]string{
		"user_id":   "u1",
		"is_active": "true",
	})
	if err != nil {
		t.Fatalf("buildWhereQualified: %v", err)
	}

	want := " WHERE cu.is_active = $1 AND cu.user_id = $2"
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
}

func TestNormalizeValue(t *testing.T) {
	if got := normalizeValue("name", []byte("Acme")); got != "Acme" {
		t.Errorf("byte slice = %v, want string", got)
	}

	day := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	if got := normalizeValue("date", day); got != "2026-08-29" {
		t.Errorf("date column = %v, want 2026-08-29", got)
	}
	if got := normalizeValue("joining_date", day); got != "2026-08-29" {
		t.Errorf("joining_date column = %v, want 2026-08-29", got)
	}
	if got := normalizeValue("created_at", day); got != day {
		t.Errorf("timestamp column = %v, want unchanged time", got)
	}
	if got := normalizeValue("notes", nil); got != nil {
		t.Errorf("nil = %v, want nil", got)
	}
}
