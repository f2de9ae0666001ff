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

// Package ruledef holds the declarative and compiled rule shapes shared
// between the compiler, the validators, and the streaming pipeline. It
// sits at the bottom of the import graph: the root package and every
// internal package that needs a rule shape imports this one, never the
// other way around.
package ruledef

import "time"

// Rule is the declarative, caller-supplied binding of a field path, a
// predicate name, its parameters, and display metadata. It is a plain
// value object: serializable, comparable by field equality, and carries
// no behavior of its own.
type Rule struct {
	Field    string         `json:"field" yaml:"field"`
	Op       string         `json:"op" yaml:"op"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Negative bool           `json:"negative,omitempty" yaml:"negative,omitempty"`
	Message  string         `json:"message,omitempty" yaml:"message,omitempty"`
	Code     string         `json:"code,omitempty" yaml:"code,omitempty"`
}

// SegmentKind tags a single step of a pre-split field path.
type SegmentKind uint8

const (
	// KeySegment addresses a mapping key.
	KeySegment SegmentKind = iota
	// IndexSegment addresses a non-negative array index.
	IndexSegment
)

// Segment is one step of a dotted path: either a key name or a parsed
// non-negative array index. A path's segment list, once computed, is
// shared read-only between the path cache and every compiled rule that
// references the same raw path string.
type Segment struct {
	Kind  SegmentKind
	Key   string
	Index int
}

// PredicateFunc is a predicate's bound evaluation function. It receives
// the extracted field value (which may be the Absent sentinel) followed
// by the rule's frozen parameters in the predicate's declared order.
// A returned error aborts the whole validate call. The built-in
// predicates never return one: an absent, non-numeric or otherwise
// wrongly-typed value makes them return false, and malformed parameters
// are rejected at compile time by the predicate's Freeze function.
type PredicateFunc func(ctx PredicateContext, value any, params []any) (bool, error)

// PredicateContext carries the ambient information a predicate may need:
// a wall-clock "now" for date predicates, so tests can supply a fixed
// instant instead of depending on real time.
type PredicateContext struct {
	Now func() time.Time
}

// FieldError is one structured failure entry attached to a field path.
// It is defined here, rather than once per package that needs it, so
// the compiler, validator, and root packages all share one shape.
type FieldError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// CompiledRule is the immutable, opaque output of the rule compiler: a
// field path already split into segments (possibly shared via the path
// cache), a bound predicate, a fixed-arity parameter tuple, and the
// negation bit plus display metadata. It carries no exported mutable
// state and is safe to share across concurrent validate* calls.
type CompiledRule struct {
	Field     string
	Segments  []Segment
	OpName    string
	Category  string
	Async     bool
	Predicate PredicateFunc
	Params    []any
	Negative  bool
	Message   string
	Code      string
}
