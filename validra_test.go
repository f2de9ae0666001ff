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

package validra_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mattburns/validra"
)

func TestNew_RejectsUnknownOperator(t *testing.T) {
	_, err := validra.New([]validra.Rule{{Field: "name", Op: "notARealOp"}}, nil, validra.Options{})
	if err == nil {
		t.Fatal("expected an error for an unknown operator")
	}
	var verr *validra.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected a *validra.Error, got %T", err)
	}
	if verr.Kind != validra.KindUnknownOp {
		t.Fatalf("expected KindUnknownOp, got %v", verr.Kind)
	}
}

func TestValidate_ValidAndInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		record  map[string]any
		isValid bool
		field   string
	}{
		{"both fields pass", map[string]any{"name": "Ada", "age": 30.0}, true, ""},
		{"age too low", map[string]any{"name": "Ada", "age": 10.0}, false, "age"},
		{"name not a string", map[string]any{"name": 1, "age": 30.0}, false, "name"},
	}

	engine, err := validra.New([]validra.Rule{
		{Field: "name", Op: "isString"},
		{Field: "age", Op: "gte", Params: map[string]any{"value": 18.0}},
	}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := engine.Validate(tt.record, nil, validra.ValidateOptions{})
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if result.IsValid != tt.isValid {
				t.Fatalf("IsValid = %v, want %v (errors: %+v)", result.IsValid, tt.isValid, result.Errors)
			}
			if tt.field != "" {
				if _, ok := result.Errors[tt.field]; !ok {
					t.Fatalf("expected an error on field %q, got %+v", tt.field, result.Errors)
				}
			}
		})
	}
}

func TestValidate_NonObjectRecordReturnsBadInput(t *testing.T) {
	engine, err := validra.New([]validra.Rule{{Field: "name", Op: "isString"}}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = engine.Validate("not an object", nil, validra.ValidateOptions{})
	var verr *validra.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected a *validra.Error, got %T (%v)", err, err)
	}
	if verr.Kind != validra.KindBadInput {
		t.Fatalf("expected KindBadInput, got %v", verr.Kind)
	}
}

func TestValidate_InvokesCallbackButDiscardsItsError(t *testing.T) {
	engine, err := validra.New([]validra.Rule{{Field: "name", Op: "isString"}}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	called := false
	result, err := engine.Validate(map[string]any{"name": "Ada"}, func(r *validra.Result) error {
		called = true
		if !r.IsValid {
			t.Fatal("callback received an unexpectedly invalid result")
		}
		return errors.New("callback failure, must not surface")
	}, validra.ValidateOptions{})
	if err != nil {
		t.Fatalf("Validate returned the sync callback's error: %v", err)
	}
	if !called {
		t.Fatal("expected the callback to run")
	}
	if !result.IsValid {
		t.Fatal("expected a valid result")
	}
}

func TestValidate_NamedCallbackResolvesByString(t *testing.T) {
	called := false
	engine, err := validra.New([]validra.Rule{{Field: "name", Op: "isString"}}, map[string]validra.Callback{
		"audit": func(r *validra.Result) error {
			called = true
			return nil
		},
	}, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := engine.Validate(map[string]any{"name": "Ada"}, "audit", validra.ValidateOptions{}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !called {
		t.Fatal("expected the named callback to run")
	}
}

func TestValidate_UnregisteredCallbackNameIsAnError(t *testing.T) {
	engine, err := validra.New([]validra.Rule{{Field: "name", Op: "isString"}}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	_, err = engine.Validate(map[string]any{"name": "Ada"}, "does-not-exist", validra.ValidateOptions{})
	var verr *validra.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected a *validra.Error, got %T", err)
	}
	if verr.Kind != validra.KindUnknownCallback {
		t.Fatalf("expected KindUnknownCallback, got %v", verr.Kind)
	}
}

func TestValidateAsync_PropagatesCallbackError(t *testing.T) {
	engine, err := validra.New([]validra.Rule{{Field: "name", Op: "isString"}}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	wantErr := errors.New("downstream write failed")
	_, err = engine.ValidateAsync(context.Background(), map[string]any{"name": "Ada"}, func(r *validra.Result) error {
		return wantErr
	}, validra.ValidateOptions{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the async callback's error to propagate, got %v", err)
	}
}

func TestValidateAsync_CancelledContextReturnsKindCancelled(t *testing.T) {
	engine, err := validra.New([]validra.Rule{
		{Field: "a", Op: "isString"},
		{Field: "b", Op: "isString"},
	}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = engine.ValidateAsync(ctx, map[string]any{"a": "x", "b": "y"}, nil, validra.ValidateOptions{})
	var verr *validra.Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected a *validra.Error, got %T", err)
	}
	if verr.Kind != validra.KindCancelled {
		t.Fatalf("expected KindCancelled, got %v", verr.Kind)
	}
}

func TestValidateStream_ProducesEntriesAndSummary(t *testing.T) {
	engine, err := validra.New([]validra.Rule{{Field: "name", Op: "isString"}}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records := []any{
		map[string]any{"name": "Ada"},
		map[string]any{"name": 42},
	}
	source := func(yield func(any) bool) {
		for _, r := range records {
			if !yield(r) {
				return
			}
		}
	}

	seq, summary := engine.ValidateStream(context.Background(), source, validra.ValidateOptions{})
	var entries []validra.StreamEntry
	for e := range seq {
		entries = append(entries, e)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if summary.TotalProcessed != 2 || summary.TotalValid != 1 || summary.TotalInvalid != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestValidateArray_ReturnSummaryOnlyOmitsEntries(t *testing.T) {
	engine, err := validra.New([]validra.Rule{{Field: "name", Op: "isString"}}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	records := []any{
		map[string]any{"name": "Ada"},
		map[string]any{"name": "Grace"},
	}

	entries, summary := engine.ValidateArray(context.Background(), records, true)
	if entries != nil {
		t.Fatalf("expected returnSummaryOnly to omit entries, got %d", len(entries))
	}
	if summary.TotalProcessed != 2 || summary.TotalValid != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	entries, summary = engine.ValidateArray(context.Background(), records, false)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if summary.TotalProcessed != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestGetMetrics_ReflectsCompiledRuleCount(t *testing.T) {
	engine, err := validra.New([]validra.Rule{
		{Field: "a", Op: "isString"},
		{Field: "b", Op: "isNumber"},
	}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	metrics := engine.GetMetrics()
	if metrics.RuleCount != 2 {
		t.Fatalf("expected RuleCount=2, got %d", metrics.RuleCount)
	}
}

func TestClearMemoryPool_ResetsPoolMetrics(t *testing.T) {
	opts := validra.NewOptions()
	engine, err := validra.New([]validra.Rule{{Field: "name", Op: "isString"}}, nil, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 5; i++ {
		if _, err := engine.Validate(map[string]any{"name": "Ada"}, nil, validra.ValidateOptions{}); err != nil {
			t.Fatalf("Validate: %v", err)
		}
	}

	before := engine.GetMemoryPoolMetrics()
	total := uint64(0)
	for _, m := range before {
		total += m.Hits + m.Misses
	}
	if total == 0 {
		t.Fatal("expected the memory pool to have recorded some activity")
	}

	engine.ClearMemoryPool()
	after := engine.GetMemoryPoolMetrics()
	for kind, m := range after {
		if m.Hits != 0 || m.Misses != 0 {
			t.Fatalf("expected ClearMemoryPool to reset counters, kind %v still has %+v", kind, m)
		}
	}
}

func TestClearCaches_ResetsPathCacheSize(t *testing.T) {
	engine, err := validra.New([]validra.Rule{
		{Field: "a.b.c", Op: "isString"},
		{Field: "d.e.f", Op: "isString"},
	}, nil, validra.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if engine.GetMetrics().PathCacheSize == 0 {
		t.Fatal("expected compiling field paths to have populated the path cache")
	}

	engine.ClearCaches()
	if engine.GetMetrics().PathCacheSize != 0 {
		t.Fatalf("expected ClearCaches to empty the path cache, got size %d", engine.GetMetrics().PathCacheSize)
	}
}
