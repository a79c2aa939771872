package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100

	dateLayout = "2006-01-02"
)

// Criteria is the serializable filter state of a list request: a free-text
// search term OR'd across a fixed set of columns, exact-match field filters
// AND'd together, an inclusive date range on a designated date column, and
// pagination. The same semantics exist twice: as gorm scopes for server-side
// pushdown and as pure predicates clients can mirror.
type Criteria struct {
	Search  string            `json:"search,omitempty"`
	Filters map[string]string `json:"filters,omitempty"`
	From    *time.Time        `json:"from,omitempty"`
	To      *time.Time        `json:"to,omitempty"`
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
}

// Parse builds Criteria from a request query string. Only the given filter
// keys are honored; unknown parameters are ignored. A request without an
// explicit page always lands on page 1.
func Parse(values url.Values, filterKeys ...string) Criteria {
	c := Criteria{
		Search:  strings.TrimSpace(values.Get("search")),
		Filters: make(map[string]string),
		Page:    1,
		Limit:   DefaultLimit,
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		c.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		if limit > MaxLimit {
			limit = MaxLimit
		}
		c.Limit = limit
	}

	if from, err := time.Parse(dateLayout, values.Get("from")); err == nil {
		c.From = &from
	}
	if to, err := time.Parse(dateLayout, values.Get("to")); err == nil {
		// Push the bound to the end of the day so the range stays inclusive.
		end := to.Add(24*time.Hour - time.Nanosecond)
		c.To = &end
	}

	for _, key := range filterKeys {
		if v := strings.TrimSpace(values.Get(key)); v != "" {
			c.Filters[key] = v
		}
	}
	return c
}

// Scope pushes the search, filter and date-range predicates into the query.
// searchColumns is the fixed set of string columns the search term is OR'd
// across; dateColumn receives the range bounds.
func (c Criteria) Scope(searchColumns []string, dateColumn string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if c.Search != "" && len(searchColumns) > 0 {
			pattern := "%" + c.Search + "%"
			clauses := make([]string, len(searchColumns))
			args := make([]interface{}, len(searchColumns))
			for i, col := range searchColumns {
				clauses[i] = fmt.Sprintf("%s ILIKE ?", col)
				args[i] = pattern
			}
			db = db.Where(strings.Join(clauses, " OR "), args...)
		}
		for key, value := range c.Filters {
			db = db.Where(fmt.Sprintf("%s = ?", key), value)
		}
		if dateColumn != "" {
			if c.From != nil {
				db = db.Where(fmt.Sprintf("%s >= ?", dateColumn), *c.From)
			}
			if c.To != nil {
				db = db.Where(fmt.Sprintf("%s <= ?", dateColumn), *c.To)
			}
		}
		return db
	}
}

// Paginate applies the offset/limit slice of the criteria.
func (c Criteria) Paginate() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(c.Offset()).Limit(c.Limit)
	}
}

// Offset returns the row offset for the current page.
func (c Criteria) Offset() int {
	page := c.Page
	if page < 1 {
		page = 1
	}
	limit := c.Limit
	if limit < 1 {
		limit = DefaultLimit
	}
	return (page - 1) * limit
}

// TotalPages computes the page count for a result total.
func TotalPages(total int64, limit int) int {
	if limit < 1 {
		limit = DefaultLimit
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return pages
}

// MatchesSearch is the pure mirror of the search pushdown: a case-insensitive
// substring match OR'd across the given field values. An empty term matches.
func MatchesSearch(term string, fields ...string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// MatchesFilters is the pure mirror of the exact-match filter pushdown; every
// filter must match its field value.
func MatchesFilters(filters map[string]string, field func(string) string) bool {
	for key, want := range filters {
		if field(key) != want {
			return false
		}
	}
	return true
}

// InDateRange is the pure mirror of the date-range pushdown, inclusive on
// both bounds. Nil bounds are open.
func InDateRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// Matches evaluates the whole criteria (minus pagination) against one item.
// field resolves a filter key to the item's value; date is the value of the
// designated date field; searchFields are the values searched over.
func (c Criteria) Matches(field func(string) string, date time.Time, searchFields ...string) bool {
	return MatchesSearch(c.Search, searchFields...) &&
		MatchesFilters(c.Filters, field) &&
		InDateRange(date, c.From, c.To)
}
