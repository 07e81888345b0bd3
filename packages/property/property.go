// Package property defines the key/value/type triple used uniformly for
// headers, URL parameters, body-form fields, and injected credentials,
// together with the merge rules shared by the request builder.
package property

import "strings"

// Kind tells how a property is applied to an outbound request.
type Kind string

const (
	// KindParam is appended to the request URL as a query parameter.
	KindParam Kind = "param"
	// KindHeader is set as a request header.
	KindHeader Kind = "header"
	// KindBodyForm is encoded into the request body as a form field.
	KindBodyForm Kind = "bodyForm"
)

// Property is a single configured key/value pair. Ordering of property
// lists is insertion order; keys need not be unique across merged lists.
type Property struct {
	Key   string `json:"key" yaml:"key" mapstructure:"key"`
	Value string `json:"value" yaml:"value" mapstructure:"value"`
	Type  Kind   `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
}

// MergeHeaders folds datasource-level and query-level header properties
// into a single map. Keys are trimmed and lower-cased, entries with a
// blank key or value are skipped, and later (query-level) entries win on
// collision.
func MergeHeaders(datasource, query []Property) map[string]string {
	merged := make(map[string]string, len(datasource)+len(query))
	for _, p := range append(append([]Property{}, datasource...), query...) {
		key := strings.ToLower(strings.TrimSpace(p.Key))
		if key == "" || strings.TrimSpace(p.Value) == "" {
			continue
		}
		merged[key] = p.Value
	}
	return merged
}

// MergeParams folds datasource-level and query-level URL parameters into
// a single map; query-level values win on key collision.
func MergeParams(datasource, query []Property) map[string]string {
	merged := make(map[string]string, len(datasource)+len(query))
	for _, p := range datasource {
		if p.Key == "" {
			continue
		}
		merged[p.Key] = p.Value
	}
	for _, p := range query {
		if p.Key == "" {
			continue
		}
		merged[p.Key] = p.Value
	}
	return merged
}

// MergeFormData concatenates datasource-level and query-level body-form
// fields, datasource first, keeping the first occurrence of each key.
func MergeFormData(datasource, query []Property) []Property {
	seen := make(map[string]struct{}, len(datasource)+len(query))
	merged := make([]Property, 0, len(datasource)+len(query))
	for _, p := range append(append([]Property{}, datasource...), query...) {
		if p.Key == "" {
			continue
		}
		if _, ok := seen[p.Key]; ok {
			continue
		}
		seen[p.Key] = struct{}{}
		merged = append(merged, p)
	}
	return merged
}

// Partition splits a property list by kind. Properties with an unknown
// kind are dropped.
func Partition(props []Property) (params, headers []Property) {
	for _, p := range props {
		switch p.Type {
		case KindParam:
			params = append(params, p)
		case KindHeader:
			headers = append(headers, p)
		}
	}
	return params, headers
}
