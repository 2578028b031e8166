// Package query translates list parameters (search, ordering, filters,
// pagination) into bounded, deterministic GORM queries. Every field a client
// can search, order, or filter on is whitelisted per resource.
package query

import (
	"errors"
	"strconv"
	"strings"

	"ictclub-portal/internal/pkg/pagination"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	// ErrUnknownOrderField is returned when the ordering parameter names a
	// field outside the resource whitelist.
	ErrUnknownOrderField = errors.New("unknown ordering field")

	// ErrInvalidFilterValue is returned when a filter value cannot be parsed.
	ErrInvalidFilterValue = errors.New("invalid filter value")
)

// Spec is the per-resource whitelist of queryable fields
type Spec struct {
	// SearchFields are the columns matched by the free-text search parameter
	// (case-insensitive substring).
	SearchFields []string

	// OrderFields maps exposed ordering names to columns. A leading "-" on
	// the parameter means descending.
	OrderFields map[string]string

	// Filters maps query parameter names to columns for equality filters.
	// An empty column means the parameter is captured for the repository to
	// interpret itself.
	Filters map[string]string

	// IntFilters maps query parameter names to integer columns, typically
	// foreign keys. Non-numeric values fail with ErrInvalidFilterValue.
	IntFilters map[string]string

	// BoolFilters maps query parameter names to boolean columns.
	BoolFilters map[string]string

	// DefaultOrder is the order clause used when no ordering is requested,
	// e.g. "created_at DESC".
	DefaultOrder string
}

// Params holds the parsed list parameters for one request
type Params struct {
	Search   string
	Ordering string
	Filters  map[string]string
	Page     int
	PageSize int
}

// Offset returns the record offset for the current page
func (p *Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Parse extracts and validates list parameters from the request.
// An unknown ordering field fails with ErrUnknownOrderField; an integer or
// boolean filter that does not parse fails with ErrInvalidFilterValue.
func Parse(c *fiber.Ctx, spec Spec) (*Params, error) {
	p := &Params{
		Search:   c.Query("search"),
		Ordering: c.Query("ordering"),
		Filters:  make(map[string]string),
	}

	if _, err := spec.OrderClause(p.Ordering); err != nil {
		return nil, err
	}

	for param := range spec.Filters {
		if v := c.Query(param); v != "" {
			p.Filters[param] = v
		}
	}
	for param := range spec.IntFilters {
		if v := c.Query(param); v != "" {
			if _, err := strconv.ParseUint(v, 10, 64); err != nil {
				return nil, ErrInvalidFilterValue
			}
			p.Filters[param] = v
		}
	}
	for param := range spec.BoolFilters {
		if v := c.Query(param); v != "" {
			if _, err := strconv.ParseBool(v); err != nil {
				return nil, ErrInvalidFilterValue
			}
			p.Filters[param] = v
		}
	}

	pg := pagination.GetParams(c)
	p.Page = pg.Page
	p.PageSize = pg.PageSize

	return p, nil
}

// OrderClause resolves the ordering parameter against the whitelist and
// appends the stable id tie-break.
func (s Spec) OrderClause(ordering string) (string, error) {
	if ordering == "" {
		if s.DefaultOrder == "" {
			return "id ASC", nil
		}
		return s.DefaultOrder + ", id ASC", nil
	}

	field := ordering
	desc := false
	if strings.HasPrefix(field, "-") {
		field = field[1:]
		desc = true
	}

	column, ok := s.OrderFields[field]
	if !ok {
		return "", ErrUnknownOrderField
	}

	clause := column + " ASC"
	if desc {
		clause = column + " DESC"
	}
	return clause + ", id ASC", nil
}

// Apply adds the search, filter, and ordering clauses to the query.
// Pagination is applied by the caller via Offset/PageSize.
func (s Spec) Apply(db *gorm.DB, p *Params) (*gorm.DB, error) {
	order, err := s.OrderClause(p.Ordering)
	if err != nil {
		return nil, err
	}

	if p.Search != "" && len(s.SearchFields) > 0 {
		pattern := "%" + strings.ToLower(escapeLike(p.Search)) + "%"
		conds := make([]string, len(s.SearchFields))
		args := make([]interface{}, len(s.SearchFields))
		for i, field := range s.SearchFields {
			conds[i] = "LOWER(" + field + ") LIKE ?"
			args[i] = pattern
		}
		db = db.Where(strings.Join(conds, " OR "), args...)
	}

	for param, column := range s.Filters {
		if column == "" {
			continue // interpreted by the repository
		}
		if v, ok := p.Filters[param]; ok {
			db = db.Where(column+" = ?", v)
		}
	}

	for param, column := range s.IntFilters {
		v, ok := p.Filters[param]
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return nil, ErrInvalidFilterValue
		}
		db = db.Where(column+" = ?", n)
	}

	for param, column := range s.BoolFilters {
		v, ok := p.Filters[param]
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, ErrInvalidFilterValue
		}
		db = db.Where(column+" = ?", b)
	}

	return db.Order(order), nil
}

// escapeLike escapes LIKE metacharacters in user-supplied search text
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
