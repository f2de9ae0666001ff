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
	"reflect"

	"github.com/mattburns/validra/internal/ruledef"
)

func equalityEntries() []*Entry {
	return []*Entry{
		{
			Name:       "eq",
			Category:   "equality",
			ParamNames: []string{"value"},
			Freeze:     freezeSingleValue,
			Fn:         equalFn(false),
		},
		{
			Name:       "neq",
			Category:   "equality",
			ParamNames: []string{"value"},
			Freeze:     freezeSingleValue,
			Fn:         equalFn(true),
		},
	}
}

func freezeSingleValue(params map[string]any) ([]any, error) {
	v, ok := params["value"]
	if !ok {
		return nil, errMissingParam("value")
	}
	return []any{v}, nil
}

// equalFn builds eq/neq: values are compared by absolute instant when
// both sides coerce to a timestamp, otherwise by deep equality. Either
// operand being absent means the comparison cannot be made, so the
// predicate does not satisfy (returns false), per spec §4.1.
func equalFn(negatedOutcome bool) ruledef.PredicateFunc {
	return func(_ ruledef.PredicateContext, value any, params []any) (bool, error) {
		want := params[0]
		if ruledef.IsAbsent(value) || ruledef.IsAbsent(want) {
			return false, nil
		}

		var eq bool
		if vt, ok1 := toTime(value); ok1 {
			if wt, ok2 := toTime(want); ok2 {
				eq = vt.Equal(wt)
				return eq != negatedOutcome, nil
			}
		}
		eq = reflect.DeepEqual(value, want)
		return eq != negatedOutcome, nil
	}
}

func errMissingParam(name string) error {
	return &paramError{name: name}
}

type paramError struct{ name string }

func (e *paramError) Error() string { return "missing parameter \"" + e.name + "\"" }
