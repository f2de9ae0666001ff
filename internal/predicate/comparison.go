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

import "github.com/mattburns/validra/internal/ruledef"

func comparisonEntries() []*Entry {
	return []*Entry{
		{Name: "gt", Category: "comparison", ParamNames: []string{"value"}, Freeze: freezeNumericValue, Fn: orderedFn(func(v, want float64) bool { return v > want })},
		{Name: "gte", Category: "comparison", ParamNames: []string{"value"}, Freeze: freezeNumericValue, Fn: orderedFn(func(v, want float64) bool { return v >= want })},
		{Name: "lt", Category: "comparison", ParamNames: []string{"value"}, Freeze: freezeNumericValue, Fn: orderedFn(func(v, want float64) bool { return v < want })},
		{Name: "lte", Category: "comparison", ParamNames: []string{"value"}, Freeze: freezeNumericValue, Fn: orderedFn(func(v, want float64) bool { return v <= want })},
		{Name: "between", Category: "comparison", ParamNames: []string{"min", "max"}, Freeze: freezeMinMax, Fn: betweenFn(false)},
		{Name: "notBetween", Category: "comparison", ParamNames: []string{"min", "max"}, Freeze: freezeMinMax, Fn: betweenFn(true)},
	}
}

func freezeNumericValue(params map[string]any) ([]any, error) {
	f, err := paramFloat(params, "value")
	if err != nil {
		return nil, err
	}
	return []any{f}, nil
}

func freezeMinMax(params map[string]any) ([]any, error) {
	min, err := paramFloat(params, "min")
	if err != nil {
		return nil, err
	}
	max, err := paramFloat(params, "max")
	if err != nil {
		return nil, err
	}
	return []any{min, max}, nil
}

// orderedFn builds gt/gte/lt/lte. Both the record value and the frozen
// parameter must be finite numeric values (spec §4.1: "fail if any
// operand is absent or not a finite numeric value, reject NaN").
func orderedFn(cmp func(v, want float64) bool) ruledef.PredicateFunc {
	return func(_ ruledef.PredicateContext, value any, params []any) (bool, error) {
		v, ok := finiteNumber(value)
		if !ok {
			return false, nil
		}
		want := params[0].(float64)
		return cmp(v, want), nil
	}
}

func betweenFn(negate bool) ruledef.PredicateFunc {
	return func(_ ruledef.PredicateContext, value any, params []any) (bool, error) {
		v, ok := finiteNumber(value)
		if !ok {
			return false, nil
		}
		min, max := params[0].(float64), params[1].(float64)
		inRange := v >= min && v <= max
		return inRange != negate, nil
	}
}
