// Package admin holds the declarative list configuration of the admin API.
package admin

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/student-records-api/internal/models"
)

//go:embed registry.yaml
var defaultRegistry []byte

// Filter value types.
const (
	FilterString = "string"
	FilterInt    = "int"
	FilterDate   = "date"
)

// Filter declares one list filter accepted as a query parameter.
type Filter struct {
	Field   string   `yaml:"field" json:"field"`
	Type    string   `yaml:"type" json:"type"`
	Choices []string `yaml:"choices,omitempty" json:"choices,omitempty"`
}

// Entity is the admin configuration of one resource.
type Entity struct {
	VerboseName      string   `yaml:"verbose_name" json:"verbose_name"`
	ListDisplay      []string `yaml:"list_display" json:"list_display"`
	SearchFields     []string `yaml:"search_fields" json:"search_fields"`
	ListFilter       []Filter `yaml:"list_filter" json:"list_filter"`
	DateHierarchy    string   `yaml:"date_hierarchy,omitempty" json:"date_hierarchy,omitempty"`
	FilterHorizontal []string `yaml:"filter_horizontal,omitempty" json:"filter_horizontal,omitempty"`
	Ordering         []string `yaml:"ordering" json:"ordering"`
}

// Registry maps resource names (as used in URLs) to their configuration.
type Registry struct {
	Entities map[string]Entity `yaml:"entities" json:"entities"`
}

// Default parses the embedded registry.
func Default() (*Registry, error) {
	return Parse(defaultRegistry)
}

// Parse decodes and validates a registry document.
func Parse(data []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("decode admin registry: %w", err)
	}
	if len(reg.Entities) == 0 {
		return nil, fmt.Errorf("admin registry declares no entities")
	}
	for name, entity := range reg.Entities {
		if len(entity.ListDisplay) == 0 {
			return nil, fmt.Errorf("admin registry: %s has no list_display", name)
		}
		for _, f := range entity.ListFilter {
			switch f.Type {
			case FilterString, FilterInt, FilterDate:
			default:
				return nil, fmt.Errorf("admin registry: %s filter %s has unknown type %q", name, f.Field, f.Type)
			}
		}
	}
	return &reg, nil
}

// Names lists the registered resources in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Entities))
	for name := range r.Entities {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entity returns the configuration of a resource.
func (r *Registry) Entity(name string) (Entity, bool) {
	e, ok := r.Entities[name]
	return e, ok
}

// Query is the subset of request query parameters a list endpoint reads.
type Query interface {
	Query(key string) string
}

// ParseList builds a ListFilter from query parameters, accepting only the
// filters and sort fields declared for the entity.
func (e Entity) ParseList(q Query) (models.ListFilter, error) {
	filter := models.ListFilter{
		Search:    strings.TrimSpace(q.Query("search")),
		Filters:   map[string]string{},
		SortOrder: q.Query("order"),
	}
	var err error
	if filter.Page, err = optionalInt(q.Query("page")); err != nil {
		return filter, fmt.Errorf("page: %w", err)
	}
	if filter.PageSize, err = optionalInt(q.Query("limit")); err != nil {
		return filter, fmt.Errorf("limit: %w", err)
	}
	if sortBy := strings.TrimSpace(q.Query("sort")); sortBy != "" {
		if !contains(e.Ordering, sortBy) {
			return filter, fmt.Errorf("cannot sort by %q", sortBy)
		}
		filter.SortBy = sortBy
	}
	if order := strings.ToLower(filter.SortOrder); order != "" && order != "asc" && order != "desc" {
		return filter, fmt.Errorf("order must be asc or desc")
	}

	for _, f := range e.ListFilter {
		raw := strings.TrimSpace(q.Query(f.Field))
		if raw == "" {
			continue
		}
		value, err := f.normalize(raw)
		if err != nil {
			return filter, err
		}
		filter.Filters[f.Field] = value
	}
	return filter, nil
}

func (f Filter) normalize(raw string) (string, error) {
	switch f.Type {
	case FilterInt:
		if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
			return "", fmt.Errorf("%s must be an integer", f.Field)
		}
	case FilterDate:
		if _, err := models.ParseDate(raw); err != nil {
			return "", fmt.Errorf("%s must be a date (YYYY-MM-DD)", f.Field)
		}
	}
	if len(f.Choices) > 0 && !contains(f.Choices, raw) {
		return "", fmt.Errorf("%s must be one of %s", f.Field, strings.Join(f.Choices, ", "))
	}
	return raw, nil
}

func optionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("must be an integer")
	}
	return v, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
