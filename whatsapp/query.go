package whatsapp

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// Filter is one predicate of a filtered list call. Predicates are serialized
// as JSON into the filtering query parameter.
type Filter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// ListOptions carries the query modifiers shared by list endpoints: field
// selection (joined by comma), pagination cursors and limit (passed through
// verbatim), and filter predicates.
type ListOptions struct {
	Fields    []string
	Limit     int
	After     string
	Before    string
	Filtering []Filter
}

func (o *ListOptions) query() (url.Values, error) {
	values := url.Values{}
	if o == nil {
		return values, nil
	}
	if len(o.Fields) > 0 {
		values.Set("fields", strings.Join(o.Fields, ","))
	}
	if o.Limit > 0 {
		values.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.After != "" {
		values.Set("after", o.After)
	}
	if o.Before != "" {
		values.Set("before", o.Before)
	}
	if len(o.Filtering) > 0 {
		encoded, err := json.Marshal(o.Filtering)
		if err != nil {
			return nil, newValidationError("filtering", "cannot serialize predicates: %v", err)
		}
		values.Set("filtering", string(encoded))
	}
	return values, nil
}

// withQuery appends encoded query values to a resource path.
func withQuery(path string, values url.Values) string {
	if len(values) == 0 {
		return path
	}
	return path + "?" + values.Encode()
}

// fieldsQuery is the shorthand for endpoints that only support field
// selection.
func fieldsQuery(fields []string) url.Values {
	values := url.Values{}
	if len(fields) > 0 {
		values.Set("fields", strings.Join(fields, ","))
	}
	return values
}

// Paging is the Graph cursor envelope on list responses.
type Paging struct {
	Cursors  PagingCursors `json:"cursors"`
	Next     string        `json:"next,omitempty"`
	Previous string        `json:"previous,omitempty"`
}

// PagingCursors holds the opaque cursor pair.
type PagingCursors struct {
	Before string `json:"before"`
	After  string `json:"after"`
}
