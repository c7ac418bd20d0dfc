package core

import (
	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/arthur-debert/shade/pkg/rules"
)

// LoadRules compiles the rules of path, if any, followed by extra.
func LoadRules(path string, extra []rules.Rule) (*rules.Resolver, error) {
	logger := logging.GetLogger("core.rules")

	var all []rules.Rule
	if path != "" {
		parsed, err := rules.ParseFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, parsed...)
	}
	all = append(all, extra...)
	if len(all) == 0 {
		return nil, errors.New(errors.ErrInvalidInput, "no rules given: pass a rules file or add [[rules]] to shade.toml")
	}

	resolver, err := rules.NewResolver(all)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("path", path).Int("rules", len(all)).Msg("Loaded rules")
	return resolver, nil
}

// CheckResult summarises a rule set without running it.
type CheckResult struct {
	File   string         `json:"file,omitempty" yaml:"file,omitempty"`
	Rules  []rules.Rule   `json:"rules" yaml:"rules"`
	Counts map[string]int `json:"counts" yaml:"counts"`
}

// Check loads and compiles the rules of path and extra, reporting any
// syntax or pattern error.
func Check(path string, extra []rules.Rule) (*CheckResult, error) {
	resolver, err := LoadRules(path, extra)
	if err != nil {
		return nil, err
	}
	res := &CheckResult{File: path, Rules: resolver.Rules(), Counts: make(map[string]int)}
	for _, r := range res.Rules {
		res.Counts[r.Kind.String()]++
	}
	return res, nil
}
