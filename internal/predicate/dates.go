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
	"time"

	"github.com/mattburns/validra/internal/ruledef"
)

func dateEntries() []*Entry {
	return []*Entry{
		{Name: "isAfter", Category: "date", ParamNames: []string{"value"}, Freeze: freezeTimestampValue, Fn: dateOrderFn(func(v, ref time.Time) bool { return v.After(ref) })},
		{Name: "isBefore", Category: "date", ParamNames: []string{"value"}, Freeze: freezeTimestampValue, Fn: dateOrderFn(func(v, ref time.Time) bool { return v.Before(ref) })},
		{Name: "isToday", Category: "date", Fn: isTodayFn},
		{Name: "isWeekend", Category: "date", Fn: weekdayFn(func(d time.Weekday) bool { return d == time.Saturday || d == time.Sunday })},
		{Name: "isWeekday", Category: "date", Fn: weekdayFn(func(d time.Weekday) bool { return d != time.Saturday && d != time.Sunday })},
		{Name: "isLeapYear", Category: "date", Fn: isLeapYearFn},
	}
}

func freezeTimestampValue(params map[string]any) ([]any, error) {
	raw, ok := params["value"]
	if !ok {
		return nil, errMissingParam("value")
	}
	t, ok := toTime(raw)
	if !ok {
		return nil, &typeError{param: "value", want: "timestamp"}
	}
	return []any{t}, nil
}

type typeError struct {
	param string
	want  string
}

func (e *typeError) Error() string {
	return "parameter \"" + e.param + "\" must be a " + e.want
}

func dateOrderFn(cmp func(v, ref time.Time) bool) ruledef.PredicateFunc {
	return func(_ ruledef.PredicateContext, value any, params []any) (bool, error) {
		v, ok := toTime(value)
		if !ok {
			return false, nil
		}
		ref := params[0].(time.Time)
		return cmp(v, ref), nil
	}
}

func isTodayFn(pctx ruledef.PredicateContext, value any, _ []any) (bool, error) {
	v, ok := toTime(value)
	if !ok {
		return false, nil
	}
	now := now(pctx)
	vy, vm, vd := v.UTC().Date()
	ny, nm, nd := now.UTC().Date()
	return vy == ny && vm == nm && vd == nd, nil
}

func weekdayFn(check func(time.Weekday) bool) ruledef.PredicateFunc {
	return func(_ ruledef.PredicateContext, value any, _ []any) (bool, error) {
		v, ok := toTime(value)
		if !ok {
			return false, nil
		}
		return check(v.UTC().Weekday()), nil
	}
}

func isLeapYearFn(_ ruledef.PredicateContext, value any, _ []any) (bool, error) {
	var year int
	if t, ok := toTime(value); ok {
		year = t.UTC().Year()
	} else if f, ok := toFloat(value); ok {
		year = int(f)
	} else {
		return false, nil
	}
	return isLeap(year), nil
}

func isLeap(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func now(pctx ruledef.PredicateContext) time.Time {
	if pctx.Now != nil {
		return pctx.Now()
	}
	return time.Now()
}
