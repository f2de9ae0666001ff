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

// Package validra implements the Engine Facade (spec §4.10): the single
// entry point a host program uses to compile a rule set once and run
// any number of validate*/stream calls against it. It assembles every
// internal subsystem (predicate registry, path cache, rule compiler,
// object pool, sync/async/streaming validators) behind one type.
package validra

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mattburns/validra/internal/compiler"
	"github.com/mattburns/validra/internal/metrics"
	"github.com/mattburns/validra/internal/pathcache"
	"github.com/mattburns/validra/internal/pool"
	"github.com/mattburns/validra/internal/predicate"
	"github.com/mattburns/validra/internal/ruledef"
	"github.com/mattburns/validra/internal/stream"
	"github.com/mattburns/validra/internal/validator"
)

// slowValidationThreshold is spec §4.6's "warn if duration exceeds
// 100ms" budget.
const slowValidationThreshold = 100 * time.Millisecond

// PoolKind names one of the Object Pool's scratch-buffer kinds (spec
// §4.5), re-exported so GetMemoryPoolMetrics's return type is usable
// without importing an internal package.
type PoolKind = pool.Kind

// PoolKindMetrics snapshots one pool kind's counters (spec §4.5).
type PoolKindMetrics = pool.KindMetrics

// The three pool kinds. The validators acquire result and error-list
// buffers only; no code path acquires an argument list, so
// PoolKindArgumentList never appears in GetMemoryPoolMetrics.
const (
	PoolKindResult       = pool.KindResult
	PoolKindErrorList    = pool.KindErrList
	PoolKindArgumentList = pool.KindArgList
)

// EngineMetrics is the Engine-scoped snapshot returned by GetMetrics:
// the per-engine mutable state named in spec §5 (pool and path cache)
// plus the compiled rule count. Process-wide operational metrics
// (validation/compile counters and histograms) are exposed separately
// over Prometheus by internal/metrics.Handler, since those are
// cross-engine and typically scraped rather than polled in-process.
type EngineMetrics struct {
	Pool          map[PoolKind]PoolKindMetrics
	PathCacheSize int
	RuleCount     int
}

// ValidateOptions controls one validate*/stream call (spec §4.6/§4.7),
// distinct from the constructor's engine-wide Options. Its zero value
// (failFast=false, maxErrors=0) is the documented "no early exit"
// default, so callers that don't need either knob can pass it bare.
type ValidateOptions struct {
	FailFast  bool
	MaxErrors int
}

// Engine is a compiled rule set plus the shared mutable state (path
// cache, object pool) a single logical validator instance owns. An
// Engine is safe for concurrent validate* calls: the registry is
// immutable after construction and the path cache/object pool guard
// their own state (spec §5).
type Engine struct {
	registry  *predicate.Registry
	cache     *pathcache.Cache
	pool      *pool.Pool
	rules     []ruledef.CompiledRule
	callbacks *CallbackRegistry
	opts      Options
	logger    *slog.Logger
}

// New compiles rules against the built-in predicate catalog and
// returns a ready-to-use Engine, or a structured *Error (KindUnknownOp
// or KindBadParameterType) on the first invalid rule (spec §4.4/§4.10).
func New(rules []Rule, namedCallbacks map[string]Callback, opts Options) (*Engine, error) {
	opts = opts.withSizeDefaults()

	logger := opts.Logger
	if opts.Silent {
		logger = nil
	}

	registry := predicate.Default()
	cache := pathcache.New(opts.PathCacheSize)

	start := time.Now()
	compiled, err := compiler.Compile(rules, registry, cache, compiler.Options{ThrowOnUnknownField: opts.ThrowOnUnknownField}, logger)
	metrics.ObserveCompile(err == nil, len(compiled), time.Since(start))
	if err != nil {
		return nil, translateCompileError(err)
	}

	var p *pool.Pool
	if opts.EnableMemoryPool {
		p = pool.New(opts.MemoryPoolSize)
	}

	return &Engine{
		registry:  registry,
		cache:     cache,
		pool:      p,
		rules:     compiled,
		callbacks: NewCallbackRegistry(namedCallbacks),
		opts:      opts,
		logger:    logger,
	}, nil
}

// Validate runs record against the compiled rule set synchronously
// (spec §4.6). callback may be a func(*Result) error, a name previously
// registered in namedCallbacks, or nil; its error return is discarded
// in this synchronous path (spec §4.9).
func (e *Engine) Validate(record any, callback any, opts ValidateOptions) (*Result, error) {
	cb, err := e.callbacks.Resolve(callback)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcome, err := validator.Validate(record, e.rules, e.pool, e.toValidatorOptions(opts), e.pctx())
	duration := time.Since(start)
	if err != nil {
		return nil, e.translateValidatorError(err)
	}
	e.observe(outcome, duration)

	result := e.toResult(record, outcome)
	if cb != nil {
		_ = cb(result)
	}
	return result, nil
}

// ValidateAsync runs record against the compiled rule set, checking ctx
// for cooperative cancellation between rules (spec §4.7). Unlike
// Validate, callback's error return is propagated to the caller.
func (e *Engine) ValidateAsync(ctx context.Context, record any, callback any, opts ValidateOptions) (*Result, error) {
	cb, err := e.callbacks.Resolve(callback)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcome, err := validator.ValidateAsync(ctx, record, e.rules, e.pool, e.toValidatorOptions(opts), e.pctx())
	duration := time.Since(start)
	if err != nil {
		return nil, e.translateValidatorError(err)
	}
	e.observe(outcome, duration)

	result := e.toResult(record, outcome)
	if cb != nil {
		if cbErr := cb(result); cbErr != nil {
			return result, cbErr
		}
	}
	return result, nil
}

// ValidateStream pulls records from source and validates each one
// lazily, returning the output sequence plus a pointer to the run's
// Summary (spec §4.8); the Summary is filled in when the sequence ends,
// whether the source is exhausted, ctx is cancelled, or the consumer
// stops ranging early. When streaming is disabled via Options
// (enableStreaming=false), this still works — there is no separate,
// cheaper code path to degrade to, since this module's streaming
// validator is already just a per-item Validate pulled one record at a
// time — but a warning is logged, per spec §4.10's wording.
func (e *Engine) ValidateStream(ctx context.Context, source iter.Seq[any], opts ValidateOptions) (iter.Seq[StreamEntry], *Summary) {
	if !e.opts.EnableStreaming && e.logger != nil {
		e.logger.Warn("validateStream called with streaming disabled; degrading to per-item validate semantics")
	}

	chunkSize := e.opts.StreamingChunkSize
	onChunk := func(total int) {
		if e.logger != nil {
			e.logger.Debug("validateStream chunk complete", slog.Int("totalProcessed", total))
		}
	}

	innerSeq, innerSummary := stream.Validate(ctx, source, e.rules, e.pool, e.toValidatorOptions(opts), e.pctx(), stream.Options{
		ChunkSize: chunkSize,
		OnChunk:   onChunk,
	})

	summary := &Summary{RunID: uuid.New()}
	seq := func(yield func(StreamEntry) bool) {
		defer func() {
			summary.TotalProcessed = innerSummary.TotalProcessed
			summary.TotalValid = innerSummary.TotalValid
			summary.TotalInvalid = innerSummary.TotalInvalid
			summary.TotalErrors = innerSummary.TotalErrors
			summary.ProcessingTime = innerSummary.ProcessingTime
			summary.AverageTimePerItem = innerSummary.AverageTimePerItem
		}()
		for entry := range innerSeq {
			out := StreamEntry{
				Chunk:          entry.Chunk,
				Index:          entry.Index,
				IsValid:        entry.IsValid,
				Errors:         entry.Errors,
				TotalProcessed: entry.TotalProcessed,
			}
			if !yield(out) {
				return
			}
		}
	}
	return seq, summary
}

// ValidateArray validates an in-memory slice of records via
// ValidateStream (spec §6). When returnSummaryOnly is true the entry
// list is not accumulated, so a large array can be validated for its
// aggregate Summary alone without retaining every per-record entry.
func (e *Engine) ValidateArray(ctx context.Context, records []any, returnSummaryOnly bool) ([]StreamEntry, *Summary) {
	source := func(yield func(any) bool) {
		for _, r := range records {
			if !yield(r) {
				return
			}
		}
	}

	seq, summary := e.ValidateStream(ctx, source, ValidateOptions{})
	var entries []StreamEntry
	for entry := range seq {
		if !returnSummaryOnly {
			entries = append(entries, entry)
		}
	}
	return entries, summary
}

// GetMetrics returns a snapshot of this Engine's per-instance mutable
// state (spec §4.10/§5): object pool counters and path cache size.
func (e *Engine) GetMetrics() EngineMetrics {
	return EngineMetrics{
		Pool:          e.pool.Metrics(),
		PathCacheSize: e.cache.Len(),
		RuleCount:     len(e.rules),
	}
}

// GetMemoryPoolMetrics returns just the object pool's per-kind
// counters (spec §4.5/§4.10).
func (e *Engine) GetMemoryPoolMetrics() map[PoolKind]PoolKindMetrics {
	return e.pool.Metrics()
}

// ClearCaches empties the path cache (spec §4.10).
func (e *Engine) ClearCaches() {
	e.cache.Clear()
}

// ClearMemoryPool empties every pool free list and resets pool metrics
// (spec §4.5/§4.10).
func (e *Engine) ClearMemoryPool() {
	e.pool.Clear()
}

func (e *Engine) toValidatorOptions(opts ValidateOptions) validator.Options {
	return validator.Options{
		FailFast:               opts.FailFast,
		MaxErrors:              opts.MaxErrors,
		AllowPartialValidation: e.opts.AllowPartialValidation,
	}
}

func (e *Engine) pctx() ruledef.PredicateContext {
	return ruledef.PredicateContext{Now: time.Now}
}

func (e *Engine) toResult(record any, outcome validator.Outcome) *Result {
	return &Result{ID: uuid.New(), IsValid: outcome.IsValid, Data: record, Errors: outcome.Errors}
}

func (e *Engine) observe(outcome validator.Outcome, d time.Duration) {
	metrics.ObserveValidation(outcome.IsValid, d)
	if e.logger == nil {
		return
	}
	if e.opts.Debug {
		e.logger.Debug("validate",
			slog.Bool("isValid", outcome.IsValid),
			slog.Int("fieldErrorCount", outcome.ErrorCount()),
			slog.Duration("duration", d))
	}
	if d > slowValidationThreshold {
		e.logger.Warn("validate exceeded the 100ms budget", slog.Duration("duration", d))
	}
}

func translateCompileError(err error) error {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		kind := KindBadParameterType
		if ce.Kind == compiler.ErrUnknownOp {
			kind = KindUnknownOp
		}
		return newError(kind, ce.Field, ce.Op, ce.Err)
	}
	return err
}

func (e *Engine) translateValidatorError(err error) error {
	var badInput *validator.BadInputError
	if errors.As(err, &badInput) {
		return newError(KindBadInput, "", "", err)
	}
	var predErr *validator.PredicateError
	if errors.As(err, &predErr) {
		return newError(KindPredicateInternal, predErr.Field, predErr.Op, predErr.Err)
	}
	var cancelled *validator.CancelledError
	if errors.As(err, &cancelled) {
		return newError(KindCancelled, "", "", cancelled.Err)
	}
	return err
}
