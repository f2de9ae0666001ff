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

// validra-lint loads a declarative rule set from YAML or JSON and
// compiles it against the built-in predicate catalog without running
// it against any record, surfacing unknown operators and malformed
// parameters before the rule set ever reaches production traffic
// (SPEC_FULL.md §12.3).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mattburns/validra"
	"github.com/mattburns/validra/internal/rulestore"
)

func main() {
	var (
		path    = flag.String("file", "", "path to a YAML or JSON rule set file (required)")
		format  = flag.String("format", "auto", "input format: auto, yaml, or json")
		strict  = flag.Bool("strict", false, "fail on a rule whose field path is provably unreachable")
		quiet   = flag.Bool("quiet", false, "print only the fingerprint on success; errors still go to stderr")
		verbose = flag.Bool("verbose", false, "print every compiled rule's field and operator")
		saveTo  = flag.String("save-to", "", "path to a SQLite rule store to upsert this rule set into on success")
	)
	flag.Parse()

	if *path == "" {
		fatalf("-file is required")
	}

	ruleSet, err := loadRuleSet(*path, *format)
	if err != nil {
		fatalf("load %s: %v", *path, err)
	}

	opts := validra.NewOptions()
	opts.ThrowOnUnknownField = *strict
	opts.Silent = true

	_, err = validra.New(ruleSet.Rules, nil, opts)
	if err != nil {
		var verr *validra.Error
		if errors.As(err, &verr) {
			fatalf("rule set %q is invalid: %s", ruleSet.Name, verr.Error())
		}
		fatalf("rule set %q is invalid: %v", ruleSet.Name, err)
	}

	fingerprint := ruleSet.Fingerprint()
	if *saveTo != "" {
		if err := saveToStore(ruleSet, fingerprint, *saveTo); err != nil {
			fatalf("save to %s: %v", *saveTo, err)
		}
	}

	if *quiet {
		fmt.Println(fingerprint)
		return
	}

	fmt.Printf("%s: %d rule(s) compiled OK, fingerprint %s\n", displayName(ruleSet, *path), len(ruleSet.Rules), fingerprint)
	if *verbose {
		for _, r := range ruleSet.Rules {
			fmt.Printf("  - %s %s\n", r.Field, r.Op)
		}
	}
}

// saveToStore upserts ruleSet into the SQLite rule store at dbPath,
// keyed by its display name, so a later invocation of validra-lint (or
// any other consumer of internal/rulestore) can look the compiled rule
// set back up by name or fingerprint (SPEC_FULL.md §12.4).
func saveToStore(ruleSet validra.RuleSet, fingerprint, dbPath string) error {
	store, err := rulestore.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	name := ruleSet.Name
	if name == "" {
		name = fingerprint
	}
	return store.Save(ctx, rulestore.RuleSetRecord{
		Name:        name,
		Fingerprint: fingerprint,
		Rules:       ruleSet.Rules,
		CreatedAt:   time.Now().UTC(),
	})
}

func displayName(rs validra.RuleSet, path string) string {
	if rs.Name != "" {
		return rs.Name
	}
	return filepath.Base(path)
}

func loadRuleSet(path, format string) (validra.RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return validra.RuleSet{}, err
	}

	switch resolveFormat(path, format) {
	case "json":
		var rs validra.RuleSet
		if err := json.Unmarshal(raw, &rs); err != nil {
			return validra.RuleSet{}, fmt.Errorf("parse json: %w", err)
		}
		return rs, nil
	case "yaml":
		var rs validra.RuleSet
		if err := yaml.Unmarshal(raw, &rs); err != nil {
			return validra.RuleSet{}, fmt.Errorf("parse yaml: %w", err)
		}
		return rs, nil
	default:
		return validra.RuleSet{}, fmt.Errorf("unrecognized format %q: pass -format yaml or -format json", format)
	}
}

func resolveFormat(path, format string) string {
	if format != "auto" {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "yaml"
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "validra-lint: "+format+"\n", args...)
	os.Exit(1)
}
