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

package stream_test

import (
	"context"
	"iter"
	"testing"
	"time"

	"github.com/mattburns/validra/internal/compiler"
	"github.com/mattburns/validra/internal/pathcache"
	"github.com/mattburns/validra/internal/predicate"
	"github.com/mattburns/validra/internal/ruledef"
	"github.com/mattburns/validra/internal/stream"
	"github.com/mattburns/validra/internal/validator"
)

func seqOf(records ...any) iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, r := range records {
			if !yield(r) {
				return
			}
		}
	}
}

func compileFixture(t *testing.T, rules []ruledef.Rule) []ruledef.CompiledRule {
	t.Helper()
	compiled, err := compiler.Compile(rules, predicate.Default(), pathcache.New(0), compiler.Options{}, nil)
	if err != nil {
		t.Fatalf("compile fixture: %v", err)
	}
	return compiled
}

func fixedPctx() ruledef.PredicateContext {
	return ruledef.PredicateContext{Now: func() time.Time { return time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC) }}
}

func TestValidate_PreservesOrderAndCounts(t *testing.T) {
	rules := compileFixture(t, []ruledef.Rule{{Field: "name", Op: "isString"}})
	source := seqOf(
		map[string]any{"name": "Ada"},
		map[string]any{"name": 42.0},
		map[string]any{"name": "Grace"},
	)

	seq, summary := stream.Validate(context.Background(), source, rules, nil, validator.Options{}, fixedPctx(), stream.Options{})

	var entries []stream.Entry
	for e := range seq {
		entries = append(entries, e)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Index != i {
			t.Fatalf("entry %d has Index=%d, output order must match input order", i, e.Index)
		}
	}
	if entries[0].IsValid != true || entries[1].IsValid != false || entries[2].IsValid != true {
		t.Fatalf("unexpected validity sequence: %+v", entries)
	}
	if summary.TotalProcessed != 3 || summary.TotalValid != 2 || summary.TotalInvalid != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestValidate_NonObjectRecordDoesNotAbortStream(t *testing.T) {
	rules := compileFixture(t, []ruledef.Rule{{Field: "name", Op: "isString"}})
	source := seqOf(
		map[string]any{"name": "Ada"},
		"not an object",
		map[string]any{"name": "Grace"},
	)

	seq, summary := stream.Validate(context.Background(), source, rules, nil, validator.Options{}, fixedPctx(), stream.Options{})

	var entries []stream.Entry
	for e := range seq {
		entries = append(entries, e)
	}

	if len(entries) != 3 {
		t.Fatalf("a per-record validator failure must not abort the stream, got %d entries", len(entries))
	}
	mid := entries[1]
	if mid.IsValid {
		t.Fatal("a BadInput record should surface as invalid, not be skipped")
	}
	if len(mid.Errors["validation"]) != 1 {
		t.Fatalf("expected a single validation-error entry, got %v", mid.Errors)
	}
	if summary.TotalProcessed != 3 {
		t.Fatalf("expected all 3 records counted in the summary, got %d", summary.TotalProcessed)
	}
}

func TestValidate_ChunkCallbackFiresAtChunkSize(t *testing.T) {
	rules := compileFixture(t, []ruledef.Rule{{Field: "name", Op: "isString"}})
	source := seqOf(
		map[string]any{"name": "a"},
		map[string]any{"name": "b"},
		map[string]any{"name": "c"},
		map[string]any{"name": "d"},
	)

	var fired []int
	seq, _ := stream.Validate(context.Background(), source, rules, nil, validator.Options{}, fixedPctx(), stream.Options{
		ChunkSize: 2,
		OnChunk:   func(total int) { fired = append(fired, total) },
	})
	for range seq {
	}

	if len(fired) != 2 || fired[0] != 2 || fired[1] != 4 {
		t.Fatalf("expected chunk callback at 2 and 4, got %v", fired)
	}
}

func TestValidate_ConsumerStoppingEarlyStopsPullingSource(t *testing.T) {
	rules := compileFixture(t, []ruledef.Rule{{Field: "name", Op: "isString"}})
	pulled := 0
	source := func(yield func(any) bool) {
		for i := 0; i < 1000; i++ {
			pulled++
			if !yield(map[string]any{"name": "x"}) {
				return
			}
		}
	}

	seq, _ := stream.Validate(context.Background(), source, rules, nil, validator.Options{}, fixedPctx(), stream.Options{})
	count := 0
	for range seq {
		count++
		if count == 3 {
			break
		}
	}

	if pulled > 3 {
		t.Fatalf("stopping the consumer early must stop pulling the source; pulled %d records for 3 consumed", pulled)
	}
}

func TestValidate_MaxConcurrentPreservesOrderAndCounts(t *testing.T) {
	rules := compileFixture(t, []ruledef.Rule{{Field: "name", Op: "isString"}})
	var records []any
	for i := 0; i < 25; i++ {
		if i%4 == 0 {
			records = append(records, map[string]any{"name": 42.0})
			continue
		}
		records = append(records, map[string]any{"name": "ok"})
	}

	seq, summary := stream.Validate(context.Background(), seqOf(records...), rules, nil, validator.Options{}, fixedPctx(), stream.Options{
		MaxConcurrent: 4,
	})

	var entries []stream.Entry
	for e := range seq {
		entries = append(entries, e)
	}

	if len(entries) != 25 {
		t.Fatalf("expected 25 entries, got %d", len(entries))
	}
	for i, e := range entries {
		if e.Index != i {
			t.Fatalf("entry %d has Index=%d, concurrent windows must still yield in input order", i, e.Index)
		}
		wantValid := i%4 != 0
		if e.IsValid != wantValid {
			t.Fatalf("entry %d: expected IsValid=%v, got %v", i, wantValid, e.IsValid)
		}
	}
	if summary.TotalProcessed != 25 || summary.TotalInvalid != 7 || summary.TotalValid != 18 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestValidate_CancelledContextStopsBeforeNextRecord(t *testing.T) {
	rules := compileFixture(t, []ruledef.Rule{{Field: "name", Op: "isString"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := seqOf(map[string]any{"name": "Ada"}, map[string]any{"name": "Grace"})
	seq, summary := stream.Validate(ctx, source, rules, nil, validator.Options{}, fixedPctx(), stream.Options{})

	var entries []stream.Entry
	for e := range seq {
		entries = append(entries, e)
	}

	if len(entries) != 0 {
		t.Fatalf("an already-cancelled context should stop the run before the first record, got %d entries", len(entries))
	}
	if summary.TotalProcessed != 0 {
		t.Fatalf("expected TotalProcessed=0, got %d", summary.TotalProcessed)
	}
}
