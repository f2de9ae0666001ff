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

// Package pathcache implements the bounded LRU mapping from a raw dotted
// path string to its pre-split segment list (spec §4.2). It is backed by
// github.com/hashicorp/golang-lru/v2, the same bounded-cache library the
// teacher module already pulls in transitively through its sqlite driver
// chain; promoting it to a direct dependency here is a better fit than
// hand-rolling an insertion-ordered map, since the library already gives
// us O(1) get/add and safe concurrent use behind its own lock.
package pathcache

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mattburns/validra/internal/ruledef"
)

// DefaultSize is the recommended default capacity per spec §4.2.
const DefaultSize = 128

// Cache maps raw dotted paths to their pre-split segment lists.
type Cache struct {
	lru *lru.Cache[string, []ruledef.Segment]
}

// New creates a path cache bounded to size entries. A non-positive size
// falls back to DefaultSize, since an unbounded or zero-capacity cache
// would violate the "bounded" half of spec §4.2's contract.
func New(size int) *Cache {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, []ruledef.Segment](size)
	if err != nil {
		// Only returns an error for a non-positive size, which is
		// already excluded above.
		panic(err)
	}
	return &Cache{lru: c}
}

// Split parses a dotted path into segments without touching the cache.
// Each segment is a key unless it parses as a non-negative integer
// literal, in which case it is an array-index segment. The empty path is
// invalid and returns ok=false.
func Split(path string) (segs []ruledef.Segment, ok bool) {
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ".")
	segs = make([]ruledef.Segment, len(parts))
	for i, p := range parts {
		if p == "" {
			return nil, false
		}
		if n, err := strconv.Atoi(p); err == nil && n >= 0 && isDigits(p) {
			segs[i] = ruledef.Segment{Kind: ruledef.IndexSegment, Index: n, Key: p}
			continue
		}
		segs[i] = ruledef.Segment{Kind: ruledef.KeySegment, Key: p}
	}
	return segs, true
}

// isDigits guards against strconv.Atoi accepting a leading "+" sign
// for what must be a strict non-negative integer literal.
func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Get returns the segment list for path, computing and inserting it on a
// miss. The returned slice is owned by the cache and shared read-only
// with every caller; callers must never mutate it.
func (c *Cache) Get(path string) ([]ruledef.Segment, bool) {
	if segs, ok := c.lru.Get(path); ok {
		return segs, true
	}
	segs, ok := Split(path)
	if !ok {
		return nil, false
	}
	c.lru.Add(path, segs)
	return segs, true
}

// Len reports the current number of cached paths.
func (c *Cache) Len() int { return c.lru.Len() }

// Clear empties the cache.
func (c *Cache) Clear() { c.lru.Purge() }
