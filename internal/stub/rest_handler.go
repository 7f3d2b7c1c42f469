package stub

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/crewbase/crewbase-go/internal/httputil"
	"github.com/crewbase/crewbase-go/internal/stub/repository"
)

// RestHandler serves the row API: equality-filtered select, insert, and
// update over the allowlisted tables.
type RestHandler struct {
	logger *slog.Logger
	rows   *repository.RowsRepository
}

// NewRestHandler creates a REST handler.
func NewRestHandler(logger *slog.Logger, rows *repository.RowsRepository) *RestHandler {
	return &RestHandler{logger: logger, rows: rows}
}

// Get handles GET /rest/v1/{table}.
func (h *RestHandler) Get(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if !repository.KnownTable(table) {
		httputil.Error(w, http.StatusNotFound, "unknown table")
		return
	}

	filters, orderColumn, orderAsc, limit, selectCols, err := parseQuery(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// The membership query embeds company display fields.
	if table == "company_users" && strings.Contains(selectCols, "companies(") {
		joined, err := h.rows.SelectCompanyUsersWithCompany(r.Context(), filters, orderAsc)
		if err != nil {
			h.logger.Error("select failed", "table", table, "error", err)
			httputil.Error(w, http.StatusBadRequest, "select failed")
			return
		}
		result := make([]map[string]any, 0, len(joined))
		for _, row := range joined {
			out := row.Row
			if row.Company != nil {
				out["companies"] = row.Company
			} else {
				out["companies"] = nil
			}
			result = append(result, out)
		}
		httputil.JSON(w, http.StatusOK, result)
		return
	}

	rows, err := h.rows.Select(r.Context(), table, filters, orderColumn, orderAsc, limit)
	if err != nil {
		h.logger.Error("select failed", "table", table, "error", err)
		httputil.Error(w, http.StatusBadRequest, "select failed")
		return
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	httputil.JSON(w, http.StatusOK, rows)
}

// Post handles POST /rest/v1/{table}.
func (h *RestHandler) Post(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if !repository.KnownTable(table) {
		httputil.Error(w, http.StatusNotFound, "unknown table")
		return
	}

	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := h.rows.Insert(r.Context(), table, values)
	if err != nil {
		h.logger.Error("insert failed", "table", table, "error", err)
		httputil.Error(w, http.StatusBadRequest, "insert failed")
		return
	}

	if strings.Contains(r.Header.Get("Prefer"), "return=representation") {
		httputil.JSON(w, http.StatusCreated, []map[string]any{stored})
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// Patch handles PATCH /rest/v1/{table}.
func (h *RestHandler) Patch(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")
	if !repository.KnownTable(table) {
		httputil.Error(w, http.StatusNotFound, "unknown table")
		return
	}

	filters, _, _, _, _, err := parseQuery(r)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(filters) == 0 {
		httputil.Error(w, http.StatusBadRequest, "update requires a filter")
		return
	}

	var values map[string]any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		httputil.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.rows.Update(r.Context(), table, filters, values); err != nil {
		h.logger.Error("update failed", "table", table, "error", err)
		httputil.Error(w, http.StatusBadRequest, "update failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// parseQuery splits the query string into equality filters and the select,
// order, and limit directives.
func parseQuery(r *http.Request) (filters map[string]string, orderColumn string, orderAsc bool, limit int, selectCols string, err error) {
	filters = make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) == 0 {
			continue
		}
		value := values[0]
		switch key {
		case "select":
			selectCols = value
		case "order":
			column, dir, found := strings.Cut(value, ".")
			orderColumn = column
			orderAsc = !found || dir != "desc"
		case "limit":
			limit, err = strconv.Atoi(value)
			if err != nil {
				return nil, "", false, 0, "", err
			}
		default:
			eqValue, found := strings.CutPrefix(value, "eq.")
			if !found {
				continue
			}
			filters[key] = eqValue
		}
	}
	return filters, orderColumn, orderAsc, limit, selectCols, nil
}
