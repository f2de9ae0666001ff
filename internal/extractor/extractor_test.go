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

package extractor_test

import (
	"testing"

	"github.com/mattburns/validra/internal/extractor"
	"github.com/mattburns/validra/internal/pathcache"
	"github.com/mattburns/validra/internal/ruledef"
)

func mustSplit(t *testing.T, path string) []ruledef.Segment {
	t.Helper()
	segs, ok := pathcache.Split(path)
	if !ok {
		t.Fatalf("expected %q to split", path)
	}
	return segs
}

func TestExtractNestedObject(t *testing.T) {
	record := map[string]any{
		"users": []any{
			map[string]any{
				"profile": map[string]any{
					"email": "a@b.co",
				},
			},
		},
	}

	got := extractor.Extract(record, mustSplit(t, "users.0.profile.email"))
	if got != "a@b.co" {
		t.Fatalf("expected a@b.co, got %v", got)
	}
}

func TestExtractOutOfRangeIndexIsAbsent(t *testing.T) {
	record := map[string]any{
		"users": []any{
			map[string]any{"profile": map[string]any{"email": "a@b.co"}},
		},
	}

	got := extractor.Extract(record, mustSplit(t, "users.5.profile.email"))
	if !ruledef.IsAbsent(got) {
		t.Fatalf("expected absent, got %v", got)
	}
}

func TestExtractKeyOnArrayIsAbsent(t *testing.T) {
	record := map[string]any{"a": []any{1, 2, 3}}
	got := extractor.Extract(record, mustSplit(t, "a.b"))
	if !ruledef.IsAbsent(got) {
		t.Fatalf("expected absent for key lookup on array, got %v", got)
	}
}

func TestExtractIndexOnMappingIsAbsent(t *testing.T) {
	record := map[string]any{"a": map[string]any{"0": "nope"}}
	got := extractor.Extract(record, mustSplit(t, "a.0"))
	if !ruledef.IsAbsent(got) {
		t.Fatalf("numeric index segment must not look up a mapping key, got %v", got)
	}
}

func TestExtractMissingKeyIsAbsent(t *testing.T) {
	record := map[string]any{"a": map[string]any{"b": 1}}
	got := extractor.Extract(record, mustSplit(t, "a.c"))
	if !ruledef.IsAbsent(got) {
		t.Fatalf("expected absent, got %v", got)
	}
}
