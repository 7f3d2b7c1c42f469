package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// tableColumns allowlists the tables the row API serves and their writable
// columns. Table and column names are validated against this map before
// they are interpolated into SQL; values always travel as parameters.
var tableColumns = map[string]map[string]bool{
	"profiles":   cols("user_id", "email", "full_name", "avatar_url", "phone"),
	"user_roles": cols("user_id", "role"),
	"companies": cols("name", "slug", "email", "phone", "address", "website",
		"is_active", "logo_url", "primary_color", "secondary_color",
		"accent_color", "text_color", "background_color"),
	"company_users": cols("company_id", "user_id", "employee_id", "role", "is_active"),
	"employees": cols("company_id", "user_id", "department_id", "full_name",
		"email", "phone", "position", "employee_code", "joining_date",
		"status", "avatar_url"),
	"attendance": cols("company_id", "employee_id", "date", "status",
		"check_in", "check_out", "notes"),
	"leave_requests": cols("company_id", "employee_id", "leave_type",
		"start_date", "end_date", "reason", "status", "approved_by",
		"approved_at", "rejection_reason"),
}

// tablesWithUpdatedAt get updated_at bumped on every update.
var tablesWithUpdatedAt = map[string]bool{
	"profiles": true, "companies": true, "employees": true,
	"attendance": true, "leave_requests": true,
}

// dateColumns are rendered as bare calendar dates rather than timestamps.
var dateColumns = map[string]bool{
	"date": true, "start_date": true, "end_date": true, "joining_date": true,
}

func cols(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// KnownTable reports whether the row API serves the table.
func KnownTable(table string) bool {
	_, ok := tableColumns[table]
	return ok
}

// validColumn accepts allowlisted writable columns plus the read-only
// columns every table carries.
func validColumn(table, column string) bool {
	switch column {
	case "id", "created_at", "updated_at":
		return true
	}
	return tableColumns[table][column]
}

// RowsRepository serves generic row access for the REST surface.
type RowsRepository struct {
	db *sql.DB
}

// NewRowsRepository creates a new rows repository.
func NewRowsRepository(db *sql.DB) *RowsRepository {
	return &RowsRepository{db: db}
}

// Select fetches rows matching equality filters.
func (r *RowsRepository) Select(ctx context.Context, table string, filters map[string]string, orderColumn string, orderAsc bool, limit int) ([]map[string]any, error) {
	if !KnownTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	query := fmt.Sprintf("SELECT * FROM %s", table)
	where, args, err := buildWhere(table, filters)
	if err != nil {
		return nil, err
	}
	query += where

	if orderColumn != "" {
		if !validColumn(table, orderColumn) {
			return nil, fmt.Errorf("unknown column %q", orderColumn)
		}
		dir := "DESC"
		if orderAsc {
			dir = "ASC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", orderColumn, dir)
	}
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// Insert writes a row and returns the stored representation.
func (r *RowsRepository) Insert(ctx context.Context, table string, values map[string]any) (map[string]any, error) {
	if !KnownTable(table) {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	columns := make([]string, 0, len(values)+1)
	for column := range values {
		if !tableColumns[table][column] {
			return nil, fmt.Errorf("unknown column %q", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	args := make([]any, 0, len(values)+1)
	for _, column := range columns {
		args = append(args, values[column])
	}

	columns = append([]string{"id"}, columns...)
	args = append([]any{uuid.New()}, args...)

	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stored, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("insert into %s returned no row", table)
	}
	return stored[0], nil
}

// Update patches rows matching equality filters.
func (r *RowsRepository) Update(ctx context.Context, table string, filters map[string]string, values map[string]any) error {
	if !KnownTable(table) {
		return fmt.Errorf("unknown table %q", table)
	}
	if len(filters) == 0 {
		return fmt.Errorf("update on %s requires a filter", table)
	}
	if len(values) == 0 {
		return nil
	}

	columns := make([]string, 0, len(values))
	for column := range values {
		if !tableColumns[table][column] {
			return fmt.Errorf("unknown column %q", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	sets := make([]string, 0, len(columns)+1)
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		args = append(args, values[column])
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if tablesWithUpdatedAt[table] {
		sets = append(sets, "updated_at = NOW()")
	}

	where, whereArgs, err := buildWhereOffset(table, filters, len(args))
	if err != nil {
		return err
	}
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(sets, ", "), where)
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

// CompanyUserRow is a membership row joined with company display fields.
type CompanyUserRow struct {
	Row     map[string]any
	Company map[string]any
}

// SelectCompanyUsersWithCompany serves the membership query with the
// embedded companies(id,name,slug) relation.
func (r *RowsRepository) SelectCompanyUsersWithCompany(ctx context.Context, filters map[string]string, orderAsc bool) ([]CompanyUserRow, error) {
	where, args, err := buildWhereQualified("company_users", "cu", filters)
	if err != nil {
		return nil, err
	}

	dir := "DESC"
	if orderAsc {
		dir = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT cu.id, cu.company_id, cu.user_id, cu.employee_id, cu.role,
		       cu.is_active, cu.created_at, c.id, c.name, c.slug
		FROM company_users cu
		LEFT JOIN companies c ON c.id = cu.company_id
		%s
		ORDER BY cu.created_at %s
	`, where, dir)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CompanyUserRow
	for rows.Next() {
		var id, companyID, userID, employeeID, role, isActive, createdAt, cID, cName, cSlug any
		if err := rows.Scan(&id, &companyID, &userID, &employeeID, &role, &isActive, &createdAt, &cID, &cName, &cSlug); err != nil {
			return nil, err
		}

		row := CompanyUserRow{
			Row: map[string]any{
				"id":          normalizeValue("id", id),
				"company_id":  normalizeValue("company_id", companyID),
				"user_id":     normalizeValue("user_id", userID),
				"employee_id": normalizeValue("employee_id", employeeID),
				"role":        normalizeValue("role", role),
				"is_active":   normalizeValue("is_active", isActive),
				"created_at":  normalizeValue("created_at", createdAt),
			},
		}
		if cID != nil {
			row.Company = map[string]any{
				"id":   normalizeValue("id", cID),
				"name": normalizeValue("name", cName),
				"slug": normalizeValue("slug", cSlug),
			}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func buildWhere(table string, filters map[string]string) (string, []any, error) {
	return buildWhereOffset(table, filters, 0)
}

func buildWhereOffset(table string, filters map[string]string, argOffset int) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	columns := make([]string, 0, len(filters))
	for column := range filters {
		if !validColumn(table, column) {
			return "", nil, fmt.Errorf("unknown column %q", column)
		}
		columns = append(columns, column)
	}
	sort.Strings(columns)

	conditions := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, column := range columns {
		args = append(args, filters[column])
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, argOffset+len(args)))
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

func buildWhereQualified(table, alias string, filters map[string]string) (string, []any, error) {
	where, args, err := buildWhere(table, filters)
	if err != nil {
		return "", nil, err
	}
	if where == "" {
		return "", nil, nil
	}
	// Qualify bare columns with the alias.
	where = strings.ReplaceAll(where, " WHERE ", " WHERE "+alias+".")
	where = strings.ReplaceAll(where, " AND ", " AND "+alias+".")
	return where, args, nil
}

// scanRows reads all rows into generic maps keyed by column name.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var result []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, column := range columns {
			row[column] = normalizeValue(column, values[i])
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// normalizeValue converts driver values into JSON-friendly ones. Byte
// slices become strings (uuid and text columns) and date columns render as
// bare calendar dates.
func normalizeValue(column string, value any) any {
	switch v := value.(type) {
	case []byte:
		return string(v)
	case time.Time:
		if dateColumns[column] {
			return v.Format("2006-01-02")
		}
		return v
	}
	return value
}
