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

// Package extractor resolves a pre-split field path against a record
// value (spec §4.3). It performs no reflection: records are built from
// map[string]any, []any, and scalar leaves, the shape encoding/json
// already produces when unmarshaling into `any`.
package extractor

import "github.com/mattburns/validra/internal/ruledef"

// Extract resolves segs against root, returning the leaf value, or
// ruledef.Absent if any segment fails to resolve (spec §3/§4.3). For a
// key segment, only a mapping is searched; any other current value
// yields Absent. For an array-index segment, only an ordered list
// indexed within range yields a value; there is no numeric-index lookup
// on mappings.
func Extract(root any, segs []ruledef.Segment) any {
	cur := root
	for _, seg := range segs {
		switch seg.Kind {
		case ruledef.KeySegment:
			m, ok := cur.(map[string]any)
			if !ok {
				return ruledef.Absent
			}
			v, ok := m[seg.Key]
			if !ok {
				return ruledef.Absent
			}
			cur = v
		case ruledef.IndexSegment:
			list, ok := cur.([]any)
			if !ok {
				return ruledef.Absent
			}
			if seg.Index < 0 || seg.Index >= len(list) {
				return ruledef.Absent
			}
			cur = list[seg.Index]
		default:
			return ruledef.Absent
		}
	}
	return cur
}
