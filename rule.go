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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/mattburns/validra/internal/ruledef"
)

// Rule is the declarative, caller-supplied binding of a field path, a
// predicate name, its parameters, and display metadata (spec §3).
type Rule = ruledef.Rule

// RuleSet is a named, orderable collection of declarative rules. It adds
// no behavior beyond Rule itself; it exists so a host program can load,
// serialize, and fingerprint a rule list as a unit (e.g. from the
// cmd/validra-lint YAML/JSON loader) before handing it to New.
type RuleSet struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Rules []Rule `json:"rules" yaml:"rules"`
}

// Fingerprint returns a stable hash of the rule set's content, so
// callers can cache a compiled Engine keyed by rule content rather than
// recompiling identical rule sets. Field order within each rule does not
// affect the fingerprint (params are sorted by key before hashing); rule
// order does, since rule order is semantically meaningful (error
// ordering, spec §5).
func (rs RuleSet) Fingerprint() string {
	type canonicalRule struct {
		Field    string `json:"field"`
		Op       string `json:"op"`
		Params   string `json:"params,omitempty"`
		Negative bool   `json:"negative,omitempty"`
		Message  string `json:"message,omitempty"`
		Code     string `json:"code,omitempty"`
	}

	canon := make([]canonicalRule, len(rs.Rules))
	for i, r := range rs.Rules {
		canon[i] = canonicalRule{
			Field:    r.Field,
			Op:       r.Op,
			Params:   canonicalParams(r.Params),
			Negative: r.Negative,
			Message:  r.Message,
			Code:     r.Code,
		}
	}
	blob, _ := json.Marshal(canon)
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:])
}

func canonicalParams(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make([]struct {
		K string `json:"k"`
		V any    `json:"v"`
	}, len(keys))
	for i, k := range keys {
		ordered[i].K = k
		ordered[i].V = params[k]
	}
	blob, _ := json.Marshal(ordered)
	return string(blob)
}
