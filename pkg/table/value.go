package table

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// Float converts any Go numeric value to float64.
// It returns false for non-numeric values, including numeric strings.
func Float(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	}
	return 0, false
}

// IsInteger reports whether v is an integer type or a float holding an
// integral value.
func IsInteger(v any) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case float32:
		f := float64(x)
		return !math.IsInf(f, 0) && f == math.Trunc(f)
	case float64:
		return !math.IsInf(x, 0) && x == math.Trunc(x)
	}
	return false
}

// maxExactFloat is the largest magnitude up to which every integer has an
// exact float64 representation.
const maxExactFloat = 1 << 53

// Key normalizes a value for equality comparisons across rows. Integers of
// any Go type key as int64 (uint64 above math.MaxInt64), integral floats
// within ±2^53 key as the same int64, and other floats stay float64. Times
// compare by instant, everything else by its dynamic value. Values that
// cannot be compared with == (slices, maps) are keyed by their formatted form.
func Key(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint:
		return unsignedKey(uint64(x))
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return unsignedKey(x)
	case float32:
		return floatKey(float64(x))
	case float64:
		return floatKey(x)
	case time.Time:
		return x.UTC()
	}
	if v != nil && !reflect.TypeOf(v).Comparable() {
		return fmt.Sprintf("%T:%v", v, v)
	}
	return v
}

func unsignedKey(u uint64) any {
	if u > math.MaxInt64 {
		return u
	}
	return int64(u)
}

func floatKey(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) <= maxExactFloat {
		return int64(f)
	}
	return f
}

// Format renders a value for messages and group keys.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case time.Time:
		if x.Equal(x.Truncate(24*time.Hour)) && x.Location() == time.UTC {
			return x.Format(time.DateOnly)
		}
		return x.Format(time.RFC3339)
	case float32, float64:
		f, _ := Float(x)
		if math.IsNaN(f) {
			return "null"
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}
