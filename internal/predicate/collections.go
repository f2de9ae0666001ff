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

func collectionEntries() []*Entry {
	return []*Entry{
		{Name: "isEmptyCollection", Category: "collection", Fn: isEmptyCollectionFn},
		{Name: "hasProperty", Category: "collection", ParamNames: []string{"properties"}, Freeze: freezeProperties, Fn: hasPropertyFn},
		{Name: "containsItem", Category: "collection", ParamNames: []string{"item"}, Freeze: freezeItem, Fn: containsItemFn},
	}
}

func isEmptyCollectionFn(_ ruledef.PredicateContext, value any, _ []any) (bool, error) {
	switch v := value.(type) {
	case []any:
		return len(v) == 0, nil
	case map[string]any:
		return len(v) == 0, nil
	default:
		return false, nil
	}
}

func freezeProperties(params map[string]any) ([]any, error) {
	names, err := paramStrings(params, "properties")
	if err != nil {
		return nil, err
	}
	return []any{names}, nil
}

// hasPropertyFn checks that every named property is present on a
// mapping value. The Go record model (map[string]any) has no analogue
// of JavaScript's prototype-inherited keys, so "presence" here means own
// keys only; this is a deliberate, documented resolution of the spec's
// open question about inherited-property semantics (see DESIGN.md), not
// an accidental behavior change.
func hasPropertyFn(_ ruledef.PredicateContext, value any, params []any) (bool, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return false, nil
	}
	names := params[0].([]string)
	for _, name := range names {
		if _, present := m[name]; !present {
			return false, nil
		}
	}
	return true, nil
}

func freezeItem(params map[string]any) ([]any, error) {
	item, ok := params["item"]
	if !ok {
		return nil, errMissingParam("item")
	}
	return []any{item}, nil
}

// containsItemFn checks list or mapping membership by strict equality:
// comparable scalars compare by value, and non-comparable container
// values (maps, slices) compare by reference identity rather than deep
// structural equality, per spec §4.1 ("object identity, not
// structural").
func containsItemFn(_ ruledef.PredicateContext, value any, params []any) (bool, error) {
	want := params[0]
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if strictEqual(item, want) {
				return true, nil
			}
		}
		return false, nil
	case map[string]any:
		for _, item := range v {
			if strictEqual(item, want) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, nil
	}
}

func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	if as, aok := a.(string); aok {
		bs, bok := b.(string)
		return bok && as == bs
	}
	if ab, aok := a.(bool); aok {
		bb, bok := b.(bool)
		return bok && ab == bb
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	switch av.Kind() {
	case reflect.Map, reflect.Slice, reflect.Ptr, reflect.Chan, reflect.Func:
		if av.Kind() != bv.Kind() {
			return false
		}
		return av.Pointer() == bv.Pointer()
	default:
		return reflect.DeepEqual(a, b)
	}
}
