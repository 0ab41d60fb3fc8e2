package validator

import (
	"regexp"
	"strings"

	"github.com/dmitrymomot/tablecheck/pkg/table"
)

// placeholder matches named parameters in the form %{name}.
var placeholder = regexp.MustCompile(`%\{([^}]+)\}`)

// render substitutes %{name} placeholders with formatted params.
// Unknown placeholders are left as they are.
func render(tmpl string, params map[string]any) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-1]
		if v, ok := params[name]; ok {
			return formatParam(v)
		}
		return match
	})
}

func formatParam(v any) string {
	switch x := v.(type) {
	case []string:
		return strings.Join(x, ", ")
	case []int:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = table.Format(n)
		}
		return strings.Join(parts, ", ")
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = formatParam(e)
		}
		return strings.Join(parts, ", ")
	case []Group:
		parts := make([]string, len(x))
		for i, g := range x {
			parts[i] = g.String()
		}
		return strings.Join(parts, ", ")
	}
	return table.Format(v)
}
