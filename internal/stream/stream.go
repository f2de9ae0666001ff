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

// Package stream implements the Streaming Validator (spec §4.8): pulling
// records one at a time from a lazy source, validating each against its
// compiled rules, and emitting a lazy sequence of entries plus a final
// summary. The source and output sequences are both modeled as
// iter.Seq, the standard library's range-over-func iterator shape,
// since that is the idiomatic Go equivalent of the spec's "lazy
// sequence": a for-range loop over the returned Seq pulls exactly one
// element at a time, and a consumer that stops ranging (a labeled
// break) naturally stops pulling further, satisfying the "must not be
// drained further" cancellation rule without extra plumbing.
package stream

import (
	"context"
	"fmt"
	"iter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mattburns/validra/internal/pool"
	"github.com/mattburns/validra/internal/ruledef"
	"github.com/mattburns/validra/internal/validator"
)

// Entry is one element of the streaming output sequence (spec §4.8). It
// mirrors the root package's StreamEntry but lives here so this package
// never needs to import the root one.
type Entry struct {
	Chunk          any
	Index          int
	IsValid        bool
	Errors         map[string][]string
	TotalProcessed int
}

// Summary is the terminal value of a streaming run, finalized once the
// returned Seq has been fully ranged over (or abandoned early).
type Summary struct {
	TotalProcessed     int
	TotalValid         int
	TotalInvalid       int
	TotalErrors        int
	ProcessingTime     time.Duration
	AverageTimePerItem time.Duration
}

// Options controls one streaming run beyond the per-record validator
// options (spec §4.8/§4.10).
type Options struct {
	// ChunkSize is the callback frequency; 0 disables chunk callbacks.
	ChunkSize int
	// MaxConcurrent is an optimization hint (spec §4.8's "MAY be
	// honored"). Values > 1 validate that many records of the current
	// window concurrently via errgroup, then yield the window in
	// original order; the reordering buffer this needs is bounded by
	// MaxConcurrent itself, so it never grows with the stream. A value
	// <= 1 keeps the original fully-sequential behavior.
	MaxConcurrent int
	// OnChunk, if non-nil, is invoked every ChunkSize processed records.
	OnChunk func(totalProcessed int)
}

// Validate pulls records from source, validates each one against rules,
// and returns a lazy output sequence plus a pointer to the run's
// Summary. The Summary's fields are populated as entries are produced
// and are only complete once the returned Seq has been exhausted (or
// ctx was cancelled and iteration stopped early) — reading it mid-range
// observes a partial, monotonically-growing snapshot.
//
// A predicate or validator failure for one record (as opposed to a
// validation failure of that record) is captured as
// {"validation": ["Validation error: <text>"]} on that record's entry;
// the stream continues with the next record (spec §4.8).
func Validate(ctx context.Context, source iter.Seq[any], rules []ruledef.CompiledRule, p *pool.Pool, vopts validator.Options, pctx ruledef.PredicateContext, sopts Options) (iter.Seq[Entry], *Summary) {
	summary := &Summary{}

	window := sopts.MaxConcurrent
	if window < 1 {
		window = 1
	}

	seq := func(yield func(Entry) bool) {
		start := time.Now()
		index := 0
		defer func() {
			summary.ProcessingTime = time.Since(start)
			if summary.TotalProcessed > 0 {
				summary.AverageTimePerItem = summary.ProcessingTime / time.Duration(summary.TotalProcessed)
			}
		}()

		next, stop := iter.Pull(source)
		defer stop()

		for {
			batch := make([]any, 0, window)
			for len(batch) < window {
				record, ok := next()
				if !ok {
					break
				}
				batch = append(batch, record)
			}
			if len(batch) == 0 {
				break
			}
			if ctx.Err() != nil {
				return
			}

			entries := make([]Entry, len(batch))
			if window == 1 {
				entries[0] = validateOne(batch[0], index, rules, p, vopts, pctx)
			} else {
				g, _ := errgroup.WithContext(ctx)
				g.SetLimit(window)
				for i, record := range batch {
					i, record := i, record
					idx := index + i
					g.Go(func() error {
						entries[i] = validateOne(record, idx, rules, p, vopts, pctx)
						return nil
					})
				}
				_ = g.Wait() // validateOne never returns an error; failures are captured on the entry itself
			}

			for _, entry := range entries {
				index++
				entry.TotalProcessed = index
				summary.TotalProcessed = index
				if entry.IsValid {
					summary.TotalValid++
				} else {
					summary.TotalInvalid++
				}
				for _, texts := range entry.Errors {
					summary.TotalErrors += len(texts)
				}

				if sopts.ChunkSize > 0 && sopts.OnChunk != nil && index%sopts.ChunkSize == 0 {
					sopts.OnChunk(index)
				}

				if !yield(entry) {
					return
				}
			}
		}
	}

	return seq, summary
}

// validateOne runs one record's rules and renders the result as a
// streaming Entry, capturing a validator-level failure into the
// entry's errors rather than propagating it (spec §4.8).
func validateOne(record any, index int, rules []ruledef.CompiledRule, p *pool.Pool, vopts validator.Options, pctx ruledef.PredicateContext) Entry {
	entry := Entry{Chunk: record, Index: index}
	outcome, err := validator.Validate(record, rules, p, vopts, pctx)
	switch {
	case err != nil:
		entry.IsValid = false
		entry.Errors = map[string][]string{"validation": {"Validation error: " + err.Error()}}
	default:
		entry.IsValid = outcome.IsValid
		entry.Errors = flattenErrors(outcome.Errors)
	}
	return entry
}

// flattenErrors renders a validator.Outcome's structured field errors as
// the streaming output's flat text-list shape (spec §4.8's error
// normalization rule). A field error with no Message falls back to a
// textual rendering of the entry itself; a nil/empty map degrades to an
// empty (non-nil) map rather than nil, so encoding/json always emits {}
// instead of null.
func flattenErrors(m map[string][]ruledef.FieldError) map[string][]string {
	if len(m) == 0 {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(m))
	for field, entries := range m {
		texts := make([]string, len(entries))
		for i, e := range entries {
			if e.Message != "" {
				texts[i] = e.Message
			} else {
				texts[i] = fmt.Sprintf("%+v", e)
			}
		}
		out[field] = texts
	}
	return out
}
