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

package predicate

// Default builds the built-in predicate catalog specified in spec §4.1:
// equality, comparison, type, string, date, and collection families. The
// result is a fresh *Registry each call so a caller registering custom
// predicates via WithCustom never perturbs another engine's catalog.
func Default() *Registry {
	var entries []*Entry
	entries = append(entries, equalityEntries()...)
	entries = append(entries, comparisonEntries()...)
	entries = append(entries, typeEntries()...)
	entries = append(entries, stringEntries()...)
	entries = append(entries, dateEntries()...)
	entries = append(entries, collectionEntries()...)
	return NewRegistry(entries...)
}
