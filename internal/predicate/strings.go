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
	"net/url"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"

	"github.com/mattburns/validra/internal/ruledef"
)

// regexCache memoizes compiled patterns across Freeze calls so that two
// rules sharing the same regexMatch pattern (or the same engine compiled
// twice) do not pay repeated compilation cost. Grounded in the teacher
// pack's RegexCache pattern (other_examples/…lexlapax-go-llms…).
var regexCache sync.Map // map[string]*regexp.Regexp

func compileCached(pattern string) (*regexp.Regexp, error) {
	if v, ok := regexCache.Load(pattern); ok {
		return v.(*regexp.Regexp), nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	actual, _ := regexCache.LoadOrStore(pattern, re)
	return actual.(*regexp.Regexp), nil
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	uuidPattern  = regexp.MustCompile(`^[0-9A-Fa-f]{8}-[0-9A-Fa-f]{4}-[1-5][0-9A-Fa-f]{3}-[89ABab][0-9A-Fa-f]{3}-[0-9A-Fa-f]{12}$`)
)

var allowedURLSchemes = map[string]bool{
	"http": true, "https": true, "ftp": true, "file": true,
	"ws": true, "wss": true, "ldap": true,
}

func stringEntries() []*Entry {
	return []*Entry{
		{Name: "isEmpty", Category: "string", Fn: isEmptyFn},
		{Name: "contains", Category: "string", ParamNames: []string{"value"}, Freeze: freezeSingleString, Fn: substringFn(strings.Contains)},
		{Name: "startsWith", Category: "string", ParamNames: []string{"value"}, Freeze: freezeSingleString, Fn: substringFn(strings.HasPrefix)},
		{Name: "endsWith", Category: "string", ParamNames: []string{"value"}, Freeze: freezeSingleString, Fn: substringFn(strings.HasSuffix)},
		{Name: "regexMatch", Category: "string", ParamNames: []string{"regex"}, Freeze: freezeRegex, Fn: regexMatchFn},
		{Name: "isEmail", Category: "string", Fn: noParamFn(func(v any) bool {
			s, ok := toStringStrict(v)
			return ok && emailPattern.MatchString(s)
		})},
		{Name: "isURL", Category: "string", Fn: noParamFn(isURL)},
		{Name: "isUUID", Category: "string", Fn: noParamFn(func(v any) bool {
			s, ok := toStringStrict(v)
			return ok && uuidPattern.MatchString(s)
		})},
		{Name: "minLength", Category: "string", ParamNames: []string{"value"}, Freeze: freezeNumericValue, Fn: lengthFn(func(n, want int) bool { return n >= want })},
		{Name: "maxLength", Category: "string", ParamNames: []string{"value"}, Freeze: freezeNumericValue, Fn: lengthFn(func(n, want int) bool { return n <= want })},
	}
}

func freezeSingleString(params map[string]any) ([]any, error) {
	s, err := paramString(params, "value")
	if err != nil {
		return nil, err
	}
	return []any{s}, nil
}

func freezeRegex(params map[string]any) ([]any, error) {
	pattern, err := paramString(params, "regex")
	if err != nil {
		return nil, err
	}
	re, err := compileCached(pattern)
	if err != nil {
		return nil, err
	}
	return []any{re}, nil
}

// isEmptyFn treats whitespace-only text as empty; any non-string input
// fails the check outright (spec §4.1).
func isEmptyFn(_ ruledef.PredicateContext, value any, _ []any) (bool, error) {
	s, ok := toStringStrict(value)
	if !ok {
		return false, nil
	}
	return strings.TrimSpace(s) == "", nil
}

func substringFn(test func(s, sub string) bool) ruledef.PredicateFunc {
	return func(_ ruledef.PredicateContext, value any, params []any) (bool, error) {
		s, ok := toStringStrict(value)
		if !ok {
			return false, nil
		}
		want := params[0].(string)
		return test(s, want), nil
	}
}

func regexMatchFn(_ ruledef.PredicateContext, value any, params []any) (bool, error) {
	s, ok := toStringStrict(value)
	if !ok {
		return false, nil
	}
	re := params[0].(*regexp.Regexp)
	return re.MatchString(s), nil
}

func isURL(v any) bool {
	s, ok := toStringStrict(v)
	if !ok || s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	return allowedURLSchemes[strings.ToLower(u.Scheme)]
}

func lengthFn(cmp func(n, want int) bool) ruledef.PredicateFunc {
	return func(_ ruledef.PredicateContext, value any, params []any) (bool, error) {
		s, ok := toStringStrict(value)
		if !ok {
			return false, nil
		}
		n := graphemeCount(strings.TrimSpace(s))
		want := int(params[0].(float64))
		return cmp(n, want), nil
	}
}

// graphemeCount measures length in grapheme clusters where a
// ICU-quality segmenter is available; no such segmenter ships in this
// module's dependency set (see DESIGN.md), so this normalizes to NFC via
// golang.org/x/text/unicode/norm and falls back to counting code points,
// per spec §4.1/§9 note. For ASCII input — the overwhelming common case
// for validated fields like names and codes — code-point count and true
// grapheme-cluster count coincide, so this fallback only over-counts
// for inputs combining multiple runes (e.g. emoji with skin-tone
// modifiers, or base+combining-mark sequences) into a single cluster.
func graphemeCount(s string) int {
	normalized := norm.NFC.String(s)
	return len([]rune(normalized))
}
