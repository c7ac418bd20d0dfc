package rules

import (
	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/knadh/koanf/v2"
)

// ruleConfig is the shape of one [[rules]] table.
type ruleConfig struct {
	Kind    string `koanf:"kind"`
	Pattern string `koanf:"pattern"`
	Result  string `koanf:"result"`
}

// FromConfig loads rules declared under the "rules" key. A missing key
// yields no rules and no error.
func FromConfig(k *koanf.Koanf) ([]Rule, error) {
	logger := logging.GetLogger("rules.config")

	if !k.Exists("rules") {
		return nil, nil
	}

	var raw []ruleConfig
	if err := k.Unmarshal("rules", &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to decode rules")
	}

	rules := make([]Rule, 0, len(raw))
	for i, rc := range raw {
		kind, err := ParseKind(rc.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRuleSyntax, "rules[%d]", i).
				WithDetail("index", i)
		}
		rule := Rule{Kind: kind, Pattern: rc.Pattern, Result: rc.Result}
		if err := rule.Validate(); err != nil {
			return nil, errors.Wrapf(err, errors.ErrRuleSyntax, "rules[%d]", i).
				WithDetail("index", i)
		}
		rules = append(rules, rule)
	}

	logger.Debug().Int("count", len(rules)).Msg("Loaded rules from configuration")
	return rules, nil
}
