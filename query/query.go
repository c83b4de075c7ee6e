// Package query turns listing request parameters into a validated filter,
// sort and page descriptor that the store backends translate natively.
package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"foodrunner-api/apperror"
)

type Kind int

const (
	String Kind = iota
	StringList
	Number
	Bool
	Time
)

type Op string

const (
	Eq  Op = "eq"
	Gt  Op = "gt"
	Gte Op = "gte"
	Lt  Op = "lt"
	Lte Op = "lte"
	In  Op = "in"
)

var allowedOps = map[Kind][]Op{
	String:     {Eq, In},
	StringList: {Eq, In},
	Number:     {Eq, Gt, Gte, Lt, Lte, In},
	Bool:       {Eq},
	Time:       {Gt, Gte, Lt, Lte},
}

type Field struct {
	Kind     Kind
	Sortable bool
	// NoFilter marks fields that may only be sorted or selected.
	NoFilter bool
}

// Schema lists the fields a collection exposes to listing requests. Field
// names double as JSON keys, column names and BSON keys.
type Schema map[string]Field

const (
	MaxLimit    = 100
	DefaultSort = "-created_at"
)

var reservedKeys = map[string]bool{"select": true, "sort": true, "page": true, "limit": true}

type Condition struct {
	Field string
	Kind  Kind
	Op    Op
	// Value is a string, float64, bool or time.Time; In carries a []any.
	Value any
}

type SortField struct {
	Field string
	Desc  bool
}

type Query struct {
	Conditions []Condition
	Sort       []SortField
	Select     []string
	Page       int
	Limit      int
}

func (q *Query) Offset() int {
	return (q.Page - 1) * q.Limit
}

type PageRef struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

type Pagination struct {
	Next *PageRef `json:"next,omitempty"`
	Prev *PageRef `json:"prev,omitempty"`
}

// Paginate computes next/prev against total, the number of documents
// matching the same filter.
func (q *Query) Paginate(total int64) *Pagination {
	p := &Pagination{}
	start := q.Offset()
	end := q.Page * q.Limit
	if int64(end) < total {
		p.Next = &PageRef{Page: q.Page + 1, Limit: q.Limit}
	}
	if start > 0 {
		p.Prev = &PageRef{Page: q.Page - 1, Limit: q.Limit}
	}
	return p
}

var keyPattern = regexp.MustCompile(`^([a-z_]+)(?:\[([a-z]+)\])?$`)

// Parse validates params against schema. Unknown fields, operators or
// malformed values are rejected with an InvalidInput error.
func Parse(schema Schema, params url.Values, defaultLimit int) (*Query, error) {
	q := &Query{
		Page:  positiveInt(params.Get("page"), 1),
		Limit: positiveInt(params.Get("limit"), defaultLimit),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if reservedKeys[key] {
			continue
		}
		m := keyPattern.FindStringSubmatch(key)
		if m == nil {
			return nil, apperror.InvalidInput(fmt.Sprintf("invalid filter parameter %q", key))
		}
		name, op := m[1], Op(m[2])
		if op == "" {
			op = Eq
		}
		field, ok := schema[name]
		if !ok || field.NoFilter {
			return nil, apperror.InvalidInput(fmt.Sprintf("cannot filter on field %q", name))
		}
		if !opAllowed(field.Kind, op) {
			return nil, apperror.InvalidInput(fmt.Sprintf("operator %q is not supported for field %q", op, name))
		}
		for _, raw := range params[key] {
			value, err := parseValue(field.Kind, op, raw)
			if err != nil {
				return nil, apperror.InvalidInput(fmt.Sprintf("invalid value for %s: %v", key, err))
			}
			q.Conditions = append(q.Conditions, Condition{Field: name, Kind: field.Kind, Op: op, Value: value})
		}
	}

	sortParam := params.Get("sort")
	if sortParam == "" {
		sortParam = DefaultSort
	}
	for _, part := range splitCSV(sortParam) {
		sf := SortField{Field: part}
		if strings.HasPrefix(part, "-") {
			sf = SortField{Field: part[1:], Desc: true}
		}
		if f, ok := schema[sf.Field]; !ok || !f.Sortable {
			return nil, apperror.InvalidInput(fmt.Sprintf("cannot sort on field %q", sf.Field))
		}
		q.Sort = append(q.Sort, sf)
	}

	for _, name := range splitCSV(params.Get("select")) {
		if _, ok := schema[name]; !ok && name != "id" {
			return nil, apperror.InvalidInput(fmt.Sprintf("cannot select field %q", name))
		}
		q.Select = append(q.Select, name)
	}

	return q, nil
}

func opAllowed(kind Kind, op Op) bool {
	for _, o := range allowedOps[kind] {
		if o == op {
			return true
		}
	}
	return false
}

func parseValue(kind Kind, op Op, raw string) (any, error) {
	if op == In {
		parts := splitCSV(raw)
		if len(parts) == 0 {
			return nil, fmt.Errorf("empty list")
		}
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := parseScalar(kind, p)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}
	return parseScalar(kind, raw)
}

func parseScalar(kind Kind, raw string) (any, error) {
	switch kind {
	case Number:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		return f, nil
	case Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean", raw)
		}
		return b, nil
	case Time:
		t, err := parseTime(raw)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	if raw == "" {
		return nil, fmt.Errorf("empty value")
	}
	return raw, nil
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
