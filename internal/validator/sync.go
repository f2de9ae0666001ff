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

package validator

import (
	"github.com/mattburns/validra/internal/pool"
	"github.com/mattburns/validra/internal/ruledef"
)

// Validate runs record through rules in declaration order (spec §4.6).
// A non-object record (anything other than map[string]any) fails with
// a *BadInputError before any rule runs. A predicate that returns an
// error aborts the whole call with a *PredicateError; partial progress
// is discarded, matching the compiler's atomic-failure convention.
//
// p may be nil, in which case every scratch allocation falls back to a
// plain make (spec §4.5's pooling-disabled path).
func Validate(record any, rules []ruledef.CompiledRule, p *pool.Pool, opts Options, pctx ruledef.PredicateContext) (Outcome, error) {
	obj, ok := record.(map[string]any)
	if !ok {
		return Outcome{}, &BadInputError{Got: record}
	}

	buf := p.Acquire(pool.KindResult, newResultBuffer).(*resultBuffer)
	resetResultBuffer(buf)

	errCount := 0
ruleLoop:
	for _, rule := range rules {
		pass, err := evalRule(obj, rule, pctx, opts)
		if err != nil {
			releaseBuffer(p, buf)
			return Outcome{}, err
		}
		if pass {
			continue
		}

		appendFieldError(p, buf, rule)
		errCount++

		switch {
		case opts.FailFast:
			break ruleLoop
		case opts.MaxErrors > 0 && errCount >= opts.MaxErrors:
			break ruleLoop
		}
	}

	out := toOutcome(buf)
	releaseBuffer(p, buf)
	return out, nil
}
