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

package pool_test

import (
	"testing"

	"github.com/mattburns/validra/internal/pool"
)

func TestAcquireMissThenHit(t *testing.T) {
	p := pool.New(2)
	allocs := 0
	factory := func() any {
		allocs++
		return make([]int, 0, 4)
	}

	v := p.Acquire(pool.KindArgList, factory)
	p.Release(pool.KindArgList, v, func(any) {})

	v2 := p.Acquire(pool.KindArgList, factory)
	_ = v2

	if allocs != 1 {
		t.Fatalf("expected exactly one allocation, got %d", allocs)
	}

	m := p.Metrics()[pool.KindArgList]
	if m.Hits != 1 || m.Misses != 1 || m.Allocations != 1 || m.Returns != 1 {
		t.Fatalf("unexpected metrics: %+v", m)
	}
}

func TestReleaseAtCapacityIsNoOp(t *testing.T) {
	p := pool.New(1)
	p.Release(pool.KindResult, "a", nil)
	p.Release(pool.KindResult, "b", nil) // over capacity, dropped

	m := p.Metrics()[pool.KindResult]
	if m.CurrentSize != 1 {
		t.Fatalf("expected free list capped at 1, got %d", m.CurrentSize)
	}
	if m.Returns != 1 {
		t.Fatalf("expected only 1 counted return, got %d", m.Returns)
	}
}

func TestClearResetsMetricsAndBuffers(t *testing.T) {
	p := pool.New(4)
	p.Acquire(pool.KindErrList, func() any { return []string{} })
	p.Clear()

	m := p.Metrics()[pool.KindErrList]
	if m.Hits != 0 || m.Misses != 0 || m.CurrentSize != 0 {
		t.Fatalf("expected zeroed metrics after Clear, got %+v", m)
	}
}

func TestNilPoolAlwaysAllocatesAndReleaseIsNoOp(t *testing.T) {
	var p *pool.Pool
	allocs := 0
	v := p.Acquire(pool.KindResult, func() any { allocs++; return 1 })
	p.Release(pool.KindResult, v, nil)
	if allocs != 1 {
		t.Fatalf("nil pool must still call the factory")
	}
}

func TestHitRate(t *testing.T) {
	m := pool.KindMetrics{Hits: 3, Misses: 1}
	if got := m.HitRate(); got != 0.75 {
		t.Fatalf("expected 0.75, got %v", got)
	}
	var zero pool.KindMetrics
	if zero.HitRate() != 0 {
		t.Fatalf("expected 0 hit rate with no samples")
	}
}
