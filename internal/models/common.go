package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ListFilter is the shared admin list query: free-text search, declared filters,
// paging and ordering.
type ListFilter struct {
	Search    string
	Filters   map[string]string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Normalized returns the filter with paging and ordering clamped to sane values.
func (f ListFilter) Normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 || f.PageSize > maxPageSize {
		f.PageSize = defaultPageSize
	}
	f.SortOrder = strings.ToUpper(f.SortOrder)
	if f.SortOrder != "ASC" && f.SortOrder != "DESC" {
		f.SortOrder = "DESC"
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// Offset is the row offset for the current page.
func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginate builds pagination metadata for the filter.
func (f ListFilter) Paginate(total int) *Pagination {
	n := f.Normalized()
	return &Pagination{Page: n.Page, PageSize: n.PageSize, TotalCount: total}
}

// DateLayout is the wire and storage format of calendar dates.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(raw string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return Date{}, err
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Before reports whether d is strictly before other, compared by day.
func (d Date) Before(other Date) bool {
	return d.String() < other.String()
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		d.Time = time.Time{}
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
	case []byte:
		return d.Scan(string(v))
	case string:
		parsed, err := time.Parse(DateLayout, v[:min(len(v), len(DateLayout))])
		if err != nil {
			return fmt.Errorf("scan date: %w", err)
		}
		d.Time = parsed
	default:
		return fmt.Errorf("scan date: unsupported type %T", src)
	}
	return nil
}
