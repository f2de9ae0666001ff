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

import "log/slog"

// Options configures the Engine Facade at construction (spec §4.10).
type Options struct {
	// Debug emits a debug-level diagnostic record per validation.
	Debug bool
	// Silent suppresses all log output globally, overriding Debug.
	Silent bool
	// ThrowOnUnknownField fails compilation if a rule references a
	// provably unreachable path.
	ThrowOnUnknownField bool
	// AllowPartialValidation treats absent values as passing for
	// predicates other than the isEmpty family (spec §4.10's own
	// wording, adopted verbatim as this module's resolution of the
	// open question in spec §9).
	AllowPartialValidation bool
	// EnableMemoryPool toggles the object pool (spec §4.5).
	EnableMemoryPool bool
	// MemoryPoolSize is the per-kind pool capacity.
	MemoryPoolSize int
	// EnableStreaming allows ValidateStream; otherwise it degrades to
	// per-item Validate with a warning (spec §4.10).
	EnableStreaming bool
	// StreamingChunkSize is the callback frequency for chunk-complete
	// notifications during streaming.
	StreamingChunkSize int
	// PathCacheSize bounds the path segment cache (spec §4.2). Zero
	// selects pathcache.DefaultSize.
	PathCacheSize int
	// Logger receives debug/warning diagnostics. A nil Logger is
	// equivalent to Silent: no output, ever.
	Logger *slog.Logger
}

// NewOptions returns Options with every spec §4.10 default applied,
// including EnableMemoryPool=true — a zero-value Options{} cannot
// express that default on its own (Go has no tri-state bool), so New
// treats a bare Options{} as an explicit request to disable pooling.
// Callers that want the documented defaults should start from
// NewOptions() and override individual fields.
func NewOptions() Options {
	return Options{
		EnableMemoryPool:   true,
		MemoryPoolSize:     50,
		StreamingChunkSize: 50,
	}
}

// withSizeDefaults fills in numeric zero-value defaults that are always
// safe to apply regardless of whether the caller started from
// NewOptions() or a bare Options{} literal.
func (o Options) withSizeDefaults() Options {
	out := o
	if out.MemoryPoolSize <= 0 {
		out.MemoryPoolSize = 50
	}
	if out.StreamingChunkSize <= 0 {
		out.StreamingChunkSize = 50
	}
	return out
}
