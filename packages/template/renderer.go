// Package template renders {{name}} placeholders in configuration strings
// against the runtime parameters supplied with each query invocation.
//
// The engine consumes the Renderer interface only; this package also
// ships the default implementation so the plugin works out of the box.
package template

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/datalink-dev/restquery/packages/property"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Renderer substitutes runtime parameters into template strings.
type Renderer interface {
	// Render replaces every {{name}} placeholder with the parameter's
	// string form. Unknown placeholders are left untouched.
	Render(tmpl string, params map[string]any) string
	// RenderJSON behaves like Render but JSON-escapes substituted string
	// values so the surrounding JSON document stays syntactically valid.
	RenderJSON(tmpl string, params map[string]any) string
}

// Default is the placeholder renderer used when the host supplies none.
type Default struct{}

var _ Renderer = Default{}

func (Default) Render(tmpl string, params map[string]any) string {
	return replace(tmpl, params, false)
}

func (Default) RenderJSON(tmpl string, params map[string]any) string {
	return replace(tmpl, params, true)
}

func replace(tmpl string, params map[string]any, jsonEscape bool) string {
	return placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		val, ok := params[name]
		if !ok {
			return match
		}
		if !jsonEscape {
			return stringify(val)
		}
		return jsonValue(val)
	})
}

func stringify(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// jsonValue renders a parameter for substitution inside a JSON document.
// Strings are escaped without the surrounding quotes, since the template
// normally supplies them ({"name":"{{name}}"}). Non-string values are
// serialized as JSON literals.
func jsonValue(val any) string {
	switch v := val.(type) {
	case string:
		encoded, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return string(encoded[1 : len(encoded)-1])
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return stringify(v)
		}
		return string(encoded)
	}
}

// RenderProperties renders key and value of each property independently
// through r, preserving order and kind.
func RenderProperties(r Renderer, props []property.Property, params map[string]any) []property.Property {
	rendered := make([]property.Property, len(props))
	for i, p := range props {
		rendered[i] = property.Property{
			Key:   r.Render(p.Key, params),
			Value: r.Render(p.Value, params),
			Type:  p.Type,
		}
	}
	return rendered
}
