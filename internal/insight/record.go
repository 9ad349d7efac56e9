package insight

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RawRecord is an untyped onboarding record as collected by the intake form,
// produced by document extraction, or loaded from storage. No schema is
// enforced at this layer; Normalize decides what each value means.
type RawRecord map[string]any

// coerceString extracts a usable string from a raw value. Strings are
// trimmed and kept only if non-empty; finite numbers are stringified.
// Anything else (booleans, objects, arrays, NaN) yields "".
func coerceString(v any) string {
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case float64:
		if !isFinite(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return coerceString(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return strings.TrimSpace(x.String())
	}
	return ""
}

// coerceNumber extracts a finite number from a raw value. Numbers pass
// through; numeric strings are trimmed and parsed. Everything else, and
// anything non-finite, is reported as absent.
func coerceNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, isFinite(x)
	case float32:
		return coerceNumber(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil && isFinite(f)
	case json.Number:
		return coerceNumber(x.String())
	}
	return 0, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
