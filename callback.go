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

import "fmt"

// Callback is a post-validation hook. It receives the final, caller-
// owned Result. Its error return is propagated to the caller by
// ValidateAsync and discarded by Validate (spec §4.9). ValidateStream
// and ValidateArray take no callback.
type Callback func(result *Result) error

// CallbackRegistry holds named post-validation hooks (spec §4.9).
type CallbackRegistry struct {
	named map[string]Callback
}

// NewCallbackRegistry builds a registry from a name->function map, as
// passed to New's namedCallbacks argument.
func NewCallbackRegistry(named map[string]Callback) *CallbackRegistry {
	cr := &CallbackRegistry{named: make(map[string]Callback, len(named))}
	for k, v := range named {
		cr.named[k] = v
	}
	return cr
}

// Resolve accepts a function, a string name previously registered, or
// nil, and returns the callback to invoke (nil if none). Any other kind
// of value is a BadCallbackKind failure; an unregistered name is an
// UnknownCallback failure (spec §4.9).
func (cr *CallbackRegistry) Resolve(v any) (Callback, error) {
	switch cb := v.(type) {
	case nil:
		return nil, nil
	case Callback:
		return cb, nil
	case func(*Result) error:
		return Callback(cb), nil
	case string:
		fn, ok := cr.named[cb]
		if !ok {
			return nil, newError(KindUnknownCallback, "", "", fmt.Errorf("callback %q is not registered", cb))
		}
		return fn, nil
	default:
		return nil, newError(KindBadCallbackKind, "", "", fmt.Errorf("callback must be a function, a registered name, or absent; got %T", v))
	}
}
