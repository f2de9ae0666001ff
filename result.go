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

import (
	"time"

	"github.com/google/uuid"
	"github.com/mattburns/validra/internal/ruledef"
)

// FieldError is one structured failure entry attached to a field path.
type FieldError = ruledef.FieldError

// Result is the outcome of validating one record against a compiled
// rule set (spec §3). An empty Errors map is equivalent to IsValid=true.
//
// Result is always a fresh copy the caller owns outright: even when the
// engine's object pool is enabled, the pooled scratch buffer is copied
// into a Result before it is returned, so the engine never reads or
// releases a Result after handing it back (spec §3 "Lifecycles").
type Result struct {
	ID      uuid.UUID               `json:"id"`
	IsValid bool                    `json:"isValid"`
	Data    any                     `json:"data"`
	Errors  map[string][]FieldError `json:"errors"`
}

// ErrorCount returns the total number of field-error entries across
// every field, the quantity maxErrors (spec §4.6) counts against.
func (r *Result) ErrorCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, entries := range r.Errors {
		n += len(entries)
	}
	return n
}

// StreamEntry is one element of a streaming validation run (spec §4.8).
// Field errors are flattened to plain text, per the streaming error
// normalization rule: {message,code} objects render as their message
// text (or the value's textual form if message is absent), and a
// missing/nil error map degrades to an empty map.
type StreamEntry struct {
	Chunk          any                 `json:"chunk"`
	Index          int                 `json:"index"`
	IsValid        bool                `json:"isValid"`
	Errors         map[string][]string `json:"errors"`
	TotalProcessed int                 `json:"totalProcessed"`
}

// Summary is the terminal value of a streaming run (spec §3/§4.8),
// produced exactly once per run.
type Summary struct {
	RunID              uuid.UUID     `json:"runId"`
	TotalProcessed     int           `json:"totalProcessed"`
	TotalValid         int           `json:"totalValid"`
	TotalInvalid       int           `json:"totalInvalid"`
	TotalErrors        int           `json:"totalErrors"`
	ProcessingTime     time.Duration `json:"processingTimeMs"`
	AverageTimePerItem time.Duration `json:"averageTimePerItemMs"`
}
