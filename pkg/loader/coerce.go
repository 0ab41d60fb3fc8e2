package loader

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// timeLayouts are tried in order when a cell is hinted as time.
var timeLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	time.DateTime,
	"2006/01/02",
}

// Hints maps column names to the type their cells should be coerced to.
type Hints map[string]validator.Type

// coerceString converts a raw text cell. Empty cells are null, and so are
// blank cells of non-string columns; cells that do not parse as the hinted
// type are returned unchanged.
func coerceString(raw string, hint validator.Type) any {
	if raw == "" {
		return nil
	}
	if hint == validator.TypeString || hint == "" {
		return raw
	}
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	switch hint {
	case validator.TypeInt:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			if n, ok := integral(f); ok {
				return n
			}
		}
	case validator.TypeFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case validator.TypeBool:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	case validator.TypeTime:
		if t, ok := parseTime(s); ok {
			return t
		}
	}
	return raw
}

// coerceJSON converts a value decoded with UseNumber.
func coerceJSON(v any, hint validator.Type) any {
	switch x := v.(type) {
	case json.Number:
		return coerceNumber(x, hint)
	case string:
		if hint == validator.TypeTime {
			if t, ok := parseTime(strings.TrimSpace(x)); ok {
				return t
			}
		}
		return x
	}
	return v
}

func coerceNumber(n json.Number, hint validator.Type) any {
	switch hint {
	case validator.TypeFloat:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}

	if i, err := n.Int64(); err == nil {
		return i
	}
	f, err := n.Float64()
	if err != nil {
		return n.String()
	}
	if hint == validator.TypeInt {
		if n, ok := integral(f); ok {
			return n
		}
	}
	return f
}

// integral converts f to int64 when it is a whole number inside the int64
// range.
func integral(f float64) (int64, bool) {
	if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
