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

package ruledef

// absentType is the concrete type behind the Absent sentinel. It is
// unexported so nothing outside this package can construct a second,
// distinguishable "absent" value.
type absentType struct{}

// Absent is the value the data extractor yields for a path that does
// not resolve (spec §4.3/§GLOSSARY). Predicates receive it like any
// other value and decide for themselves what "does not satisfy" means
// for an absent operand.
var Absent any = absentType{}

// IsAbsent reports whether v is the Absent sentinel.
func IsAbsent(v any) bool {
	_, ok := v.(absentType)
	return ok
}
