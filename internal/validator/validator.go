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

// Package validator implements the Sync and Async Validators (spec
// §4.6/§4.7): running a record through its compiled rules in
// declaration order, accumulating field errors, and honoring the
// failFast/maxErrors/allowPartialValidation knobs. It returns its own
// Outcome type rather than the root package's Result, since importing
// the root package here would create an import cycle; the Engine
// Facade copies an Outcome into a Result and stamps it with an ID.
package validator

import (
	"fmt"

	"github.com/mattburns/validra/internal/extractor"
	"github.com/mattburns/validra/internal/pool"
	"github.com/mattburns/validra/internal/ruledef"
)

// Options controls one validate* call's evaluation behavior. It is a
// narrow subset of the root package's Options, passed down by value so
// this package never needs to see the facade's config surface.
type Options struct {
	FailFast               bool
	MaxErrors              int // 0 means unlimited
	AllowPartialValidation bool
}

// Outcome is the caller-owned result of one validate* call. Unlike
// resultBuffer, it holds no pooled storage: Validate and ValidateAsync
// always return a fresh Outcome, even when pooling is enabled for their
// internal scratch buffers.
type Outcome struct {
	IsValid bool
	Errors  map[string][]ruledef.FieldError
}

// ErrorCount totals field-error entries across every field.
func (o Outcome) ErrorCount() int {
	n := 0
	for _, entries := range o.Errors {
		n += len(entries)
	}
	return n
}

// BadInputError means validate* was called with a record that is not a
// map[string]any (spec §4.6's "non-object record" rejection).
type BadInputError struct {
	Got any
}

func (e *BadInputError) Error() string {
	return fmt.Sprintf("validate: record must be a map[string]any, got %T", e.Got)
}

// PredicateError means a predicate raised an error during evaluation
// (a precondition violation, never a plain validation failure).
type PredicateError struct {
	Field string
	Op    string
	Err   error
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("predicate %q on field %q: %v", e.Op, e.Field, e.Err)
}

func (e *PredicateError) Unwrap() error { return e.Err }

// CancelledError means a caller-supplied context was cancelled between
// rules during async evaluation.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string { return "validate: cancelled: " + e.Err.Error() }

func (e *CancelledError) Unwrap() error { return e.Err }

// isEmptyFamily reports whether op is exempt from the
// allowPartialValidation pass-on-absent rule (spec §4.10: "absent
// values pass for predicates other than the isEmpty family"). The
// predicate registry has no single category spanning both isEmpty
// predicates (string category "string" and collection category
// "collection" respectively), so the exemption is keyed on the
// operator name directly.
func isEmptyFamily(op string) bool {
	return op == "isEmpty" || op == "isEmptyCollection"
}

// resultBuffer is the pooled scratch buffer backing one validate* call.
// It is never returned to a caller directly; its contents are copied
// into a fresh Outcome before the buffer is released back to the pool.
type resultBuffer struct {
	isValid bool
	errors  map[string][]ruledef.FieldError
}

func newResultBuffer() any {
	return &resultBuffer{isValid: true, errors: make(map[string][]ruledef.FieldError)}
}

func resetResultBuffer(v any) {
	buf := v.(*resultBuffer)
	buf.isValid = true
	for k := range buf.errors {
		delete(buf.errors, k)
	}
}

func newErrList() any {
	return make([]ruledef.FieldError, 0, 4)
}

func resetErrList(v any) {
	// the slice is truncated to zero length by the caller before
	// release; nothing further to reset here.
	_ = v
}

// acquireErrList returns an empty pooled []ruledef.FieldError for a
// field's first error entry. appendFieldError records it in the result
// buffer, and releaseBuffer returns it to the pool with the buffer.
func acquireErrList(p *pool.Pool) []ruledef.FieldError {
	return p.Acquire(pool.KindErrList, newErrList).([]ruledef.FieldError)[:0]
}

// releaseBuffer returns buf's per-field error lists and the buffer
// itself to p. Called on every exit path once the buffer's contents
// (if any) have already been copied into an Outcome the caller owns.
func releaseBuffer(p *pool.Pool, buf *resultBuffer) {
	for field, entries := range buf.errors {
		p.Release(pool.KindErrList, entries[:0], resetErrList)
		delete(buf.errors, field)
	}
	p.Release(pool.KindResult, buf, resetResultBuffer)
}

// toOutcome copies buf's contents into a freshly allocated Outcome the
// caller owns outright.
func toOutcome(buf *resultBuffer) Outcome {
	out := Outcome{IsValid: buf.isValid}
	if len(buf.errors) > 0 {
		out.Errors = make(map[string][]ruledef.FieldError, len(buf.errors))
		for field, entries := range buf.errors {
			cp := make([]ruledef.FieldError, len(entries))
			copy(cp, entries)
			out.Errors[field] = cp
		}
	} else {
		out.Errors = map[string][]ruledef.FieldError{}
	}
	return out
}

// evalRule extracts rule's field value from record and runs its bound
// predicate, applying the negation bit and the allowPartialValidation
// absent-value exemption. It never appends to buf; callers decide what
// to do with the pass/fail result.
func evalRule(record any, rule ruledef.CompiledRule, pctx ruledef.PredicateContext, opts Options) (pass bool, err error) {
	value := extractor.Extract(record, rule.Segments)

	if ruledef.IsAbsent(value) && opts.AllowPartialValidation && !isEmptyFamily(rule.OpName) {
		return true, nil
	}

	ok, err := rule.Predicate(pctx, value, rule.Params)
	if err != nil {
		return false, &PredicateError{Field: rule.Field, Op: rule.OpName, Err: err}
	}
	return ok != rule.Negative, nil
}

func defaultMessage(rule ruledef.CompiledRule) string {
	if rule.Negative {
		return fmt.Sprintf("%s must not satisfy %s", rule.Field, rule.OpName)
	}
	return fmt.Sprintf("%s failed %s", rule.Field, rule.OpName)
}

func appendFieldError(p *pool.Pool, buf *resultBuffer, rule ruledef.CompiledRule) {
	buf.isValid = false
	msg := rule.Message
	if msg == "" {
		msg = defaultMessage(rule)
	}
	entry := ruledef.FieldError{Message: msg, Code: rule.Code}

	list, ok := buf.errors[rule.Field]
	if !ok {
		list = acquireErrList(p)
	}
	buf.errors[rule.Field] = append(list, entry)
}
