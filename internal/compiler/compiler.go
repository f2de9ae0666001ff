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

// Package compiler implements the Rule Compiler (spec §4.4): turning
// declarative rules into the immutable CompiledRule form the validators
// execute.
package compiler

import (
	"fmt"
	"log/slog"

	"github.com/mattburns/validra/internal/pathcache"
	"github.com/mattburns/validra/internal/predicate"
	"github.com/mattburns/validra/internal/ruledef"
)

// ErrorKind distinguishes the two compile-time failure classes the root
// package maps onto its own exported Kind values, without this leaf
// package importing the root one.
type ErrorKind int

const (
	// ErrUnknownOp means rule.Op was not found in the registry.
	ErrUnknownOp ErrorKind = iota
	// ErrBadParameter means the rule's field path or parameter set
	// failed compile-time validation against the predicate's schema.
	ErrBadParameter
)

// CompileError is returned from Compile; it carries enough context for
// the root package to build a *validra.Error.
type CompileError struct {
	Kind  ErrorKind
	Index int // position of the offending rule in the input slice
	Field string
	Op    string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile rule %d (field=%q op=%q): %v", e.Index, e.Field, e.Op, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Options controls compile-time behavior beyond the rule list itself.
type Options struct {
	// ThrowOnUnknownField fails compilation for a rule whose field path
	// is provably unreachable. The Go record model (untyped
	// map[string]any/[]any trees) carries no static schema to prove
	// unreachability against beyond the path's own syntax, so the only
	// thing this can enforce ahead of Split's own rejection is a
	// non-empty, well-formed path; see DESIGN.md for this call.
	ThrowOnUnknownField bool
}

// Compile turns rules into their immutable CompiledRule form, in the
// order given. On the first invalid rule it returns a *CompileError and
// no compiled rules (the Engine Facade fails construction atomically).
func Compile(rules []ruledef.Rule, registry *predicate.Registry, cache *pathcache.Cache, opts Options, logger *slog.Logger) ([]ruledef.CompiledRule, error) {
	out := make([]ruledef.CompiledRule, 0, len(rules))
	for i, rule := range rules {
		compiled, err := compileOne(i, rule, registry, cache, opts, logger)
		if err != nil {
			return nil, err
		}
		out = append(out, compiled)
	}
	return out, nil
}

func compileOne(index int, rule ruledef.Rule, registry *predicate.Registry, cache *pathcache.Cache, opts Options, logger *slog.Logger) (ruledef.CompiledRule, error) {
	if rule.Field == "" {
		return ruledef.CompiledRule{}, &CompileError{Kind: ErrBadParameter, Index: index, Field: rule.Field, Op: rule.Op, Err: fmt.Errorf("field must be a non-empty string")}
	}

	entry, ok := registry.Lookup(rule.Op)
	if !ok {
		return ruledef.CompiledRule{}, &CompileError{Kind: ErrUnknownOp, Index: index, Field: rule.Field, Op: rule.Op, Err: fmt.Errorf("unknown operator %q", rule.Op)}
	}

	for _, name := range entry.ParamNames {
		if _, ok := rule.Params[name]; !ok {
			return ruledef.CompiledRule{}, &CompileError{Kind: ErrBadParameter, Index: index, Field: rule.Field, Op: rule.Op, Err: fmt.Errorf("missing required parameter %q", name)}
		}
	}
	if len(rule.Params) > 0 {
		declared := make(map[string]bool, len(entry.ParamNames))
		for _, name := range entry.ParamNames {
			declared[name] = true
		}
		for name := range rule.Params {
			if !declared[name] && logger != nil {
				logger.Warn("rule parameter ignored: not declared by predicate",
					slog.String("field", rule.Field), slog.String("op", rule.Op), slog.String("param", name))
			}
		}
	}

	var frozen []any
	if entry.Freeze != nil {
		var err error
		frozen, err = entry.Freeze(rule.Params)
		if err != nil {
			return ruledef.CompiledRule{}, &CompileError{Kind: ErrBadParameter, Index: index, Field: rule.Field, Op: rule.Op, Err: err}
		}
	}

	segs, ok := cache.Get(rule.Field)
	if !ok {
		return ruledef.CompiledRule{}, &CompileError{Kind: ErrBadParameter, Index: index, Field: rule.Field, Op: rule.Op, Err: fmt.Errorf("invalid field path %q", rule.Field)}
	}
	if opts.ThrowOnUnknownField && len(segs) == 0 {
		return ruledef.CompiledRule{}, &CompileError{Kind: ErrBadParameter, Index: index, Field: rule.Field, Op: rule.Op, Err: fmt.Errorf("field path %q is unreachable", rule.Field)}
	}

	return ruledef.CompiledRule{
		Field:     rule.Field,
		Segments:  segs,
		OpName:    entry.Name,
		Category:  entry.Category,
		Async:     entry.Async,
		Predicate: entry.Fn,
		Params:    frozen,
		Negative:  rule.Negative,
		Message:   rule.Message,
		Code:      rule.Code,
	}, nil
}
