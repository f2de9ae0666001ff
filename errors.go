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

package validra

// Kind identifies a class of programming/operational failure surfaced by
// the engine. Validation failures (the record did not satisfy a rule) are
// never represented by a Kind; they live in Result.Errors instead.
type Kind int

const (
	// KindUnknownOp means a rule referenced an operator absent from the
	// predicate registry. Raised at compile time.
	KindUnknownOp Kind = iota
	// KindBadParameterType means a rule's frozen parameters fail the
	// predicate's parameter schema. Raised at compile time.
	KindBadParameterType
	// KindBadInput means validate* was called with a non-object record.
	KindBadInput
	// KindUnknownCallback means a callback name was not registered.
	KindUnknownCallback
	// KindBadCallbackKind means a callback argument was neither a
	// function nor a registered name nor absent.
	KindBadCallbackKind
	// KindPredicateInternal means a predicate raised a structured
	// failure during sync or async evaluation.
	KindPredicateInternal
	// KindStreamItemFailure means a predicate raised during streaming;
	// callers normally never see this value because streaming captures
	// it into the stream entry's errors instead of returning it.
	KindStreamItemFailure
	// KindCancelled means a caller-supplied cancellation signal fired
	// between rules during async or streaming evaluation.
	KindCancelled
)

func (k Kind) String() string {
	switch k {
	case KindUnknownOp:
		return "UnknownOp"
	case KindBadParameterType:
		return "BadParameterType"
	case KindBadInput:
		return "BadInput"
	case KindUnknownCallback:
		return "UnknownCallback"
	case KindBadCallbackKind:
		return "BadCallbackKind"
	case KindPredicateInternal:
		return "PredicateInternal"
	case KindStreamItemFailure:
		return "StreamItemFailure"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the engine's structured failure type. It wraps an underlying
// cause (when there is one) so callers can use errors.Is/errors.As.
type Error struct {
	Kind  Kind
	Field string // field path, when the failure is field-scoped; empty otherwise
	Op    string // predicate/operator name, when applicable
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Field != "" && e.Op != "":
		return e.Kind.String() + ": " + e.Op + " on " + e.Field + ": " + e.errText()
	case e.Field != "":
		return e.Kind.String() + ": " + e.Field + ": " + e.errText()
	default:
		return e.Kind.String() + ": " + e.errText()
	}
}

func (e *Error) errText() string {
	if e.Err == nil {
		return "failed"
	}
	return e.Err.Error()
}

// Unwrap exposes the underlying error for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(kind Kind, field, op string, err error) *Error {
	return &Error{Kind: kind, Field: field, Op: op, Err: err}
}
