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

// Package predicate implements the process-wide immutable Predicate
// Registry (spec §4.1) plus the built-in predicate catalog. Registry
// lookup is a plain map read, expected O(1); the registry is built once
// and never mutated after construction, so no locking is required for
// reads (a *Registry is safe to share across engines and goroutines).
package predicate

import "github.com/mattburns/validra/internal/ruledef"

// Entry is one named predicate: its parameter schema, synchrony flag,
// and bound function.
type Entry struct {
	Name       string
	Category   string
	ParamNames []string
	Async      bool
	// Freeze validates and orders a rule's raw parameter map into the
	// fixed-arity tuple Fn expects, failing with a descriptive error if
	// a parameter is missing or of the wrong shape. Nil for predicates
	// that declare no parameters.
	Freeze func(params map[string]any) ([]any, error)
	Fn     ruledef.PredicateFunc
}

// Registry is an immutable, name-keyed predicate catalog.
type Registry struct {
	entries map[string]*Entry
}

// NewRegistry builds a registry from entries. Later entries with a
// duplicate name overwrite earlier ones, matching a builder pattern
// rather than failing outright, since callers assembling a registry from
// Default() plus their own custom entries may deliberately want to
// override a built-in.
func NewRegistry(entries ...*Entry) *Registry {
	r := &Registry{entries: make(map[string]*Entry, len(entries))}
	for _, e := range entries {
		r.entries[e.Name] = e
	}
	return r
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (*Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// WithCustom returns a new registry with an additional custom predicate
// registered, leaving the receiver untouched. This lets a host program
// extend the built-in catalog without mutating shared state.
func (r *Registry) WithCustom(name string, e *Entry) *Registry {
	next := make(map[string]*Entry, len(r.entries)+1)
	for k, v := range r.entries {
		next[k] = v
	}
	e.Name = name
	next[name] = e
	return &Registry{entries: next}
}

// Names returns every registered predicate name, for diagnostics.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for n := range r.entries {
		names = append(names, n)
	}
	return names
}
