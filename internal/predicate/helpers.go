// Validra is a declarative data-validation engine.
// Copyright (C) 2026 Matthew Burns
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package predicate

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// toFloat coerces a JSON-decoded number (always float64 from
// encoding/json) or a native Go numeric type into a float64. It never
// parses strings: comparison predicates operate on numeric operands, not
// numeric-looking text, per spec §4.1.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// finiteNumber reports whether v is a numeric value that is neither NaN
// nor +/-Inf, per spec §4.1's "reject Not-a-Number" requirement on the
// comparison family.
func finiteNumber(v any) (float64, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toTime coerces a time.Time, *time.Time, or RFC3339 string into a
// time.Time. Records produced by encoding/json never decode directly
// into time.Time, so callers that build records from JSON must parse
// timestamp fields themselves before validation, or rules should target
// the pre-parsed form; string RFC3339 values are accepted directly here
// as a convenience for that common case.
func toTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed, true
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

// toStringStrict returns v as a string only if v is actually a string;
// it never stringifies other types, since several predicates (isEmpty,
// minLength/maxLength, contains...) must fail on non-text input rather
// than silently coerce it.
func toStringStrict(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// paramFloat extracts and validates a required numeric rule parameter by
// name, for use inside a predicate's Freeze function.
func paramFloat(params map[string]any, name string) (float64, error) {
	raw, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, fmt.Errorf("parameter %q must be numeric, got %T", name, raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parameter %q must be a finite number", name)
	}
	return f, nil
}

// paramString extracts and validates a required string rule parameter.
func paramString(params map[string]any, name string) (string, error) {
	raw, ok := params[name]
	if !ok {
		return "", fmt.Errorf("missing parameter %q", name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string, got %T", name, raw)
	}
	return s, nil
}

// paramStrings extracts a "single name or list" parameter shape used by
// hasProperty: either a bare string or a []any/[]string of strings.
func paramStrings(params map[string]any, name string) ([]string, error) {
	raw, ok := params[name]
	if !ok {
		return nil, fmt.Errorf("missing parameter %q", name)
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return append([]string(nil), v...), nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("parameter %q must contain only strings", name)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("parameter %q must be a string or list of strings, got %T", name, raw)
	}
}

// numStr renders a float without a trailing ".0" for integer values, for
// use in generated parameter validation messages.
func numStr(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
