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
	"math"

	"github.com/mattburns/validra/internal/ruledef"
)

func typeEntries() []*Entry {
	return []*Entry{
		{Name: "isString", Category: "type", Fn: noParamFn(func(v any) bool {
			_, ok := v.(string)
			return ok
		})},
		{Name: "isNumber", Category: "type", Fn: noParamFn(func(v any) bool {
			f, ok := toFloat(v)
			return ok && !math.IsNaN(f) // infinities count, per spec; only NaN is excluded
		})},
		{Name: "isBoolean", Category: "type", Fn: noParamFn(func(v any) bool {
			_, ok := v.(bool)
			return ok
		})},
		{Name: "isDate", Category: "type", Fn: noParamFn(func(v any) bool {
			_, ok := toTime(v)
			return ok
		})},
		{Name: "isArray", Category: "type", Fn: noParamFn(func(v any) bool {
			_, ok := v.([]any)
			return ok
		})},
		{Name: "isObject", Category: "type", Fn: noParamFn(func(v any) bool {
			_, ok := v.(map[string]any)
			return ok
		})},
	}
}

// noParamFn adapts a plain value predicate into a ruledef.PredicateFunc
// for the parameterless type-check family. Absence never satisfies a
// type check: an absent value has no type.
func noParamFn(check func(v any) bool) ruledef.PredicateFunc {
	return func(_ ruledef.PredicateContext, value any, _ []any) (bool, error) {
		if ruledef.IsAbsent(value) {
			return false, nil
		}
		return check(value), nil
	}
}
