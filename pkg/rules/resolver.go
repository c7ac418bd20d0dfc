package rules

import (
	"strings"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/arthur-debert/shade/pkg/wildcard"
	"github.com/rs/zerolog"
)

// compiled pairs a rule with its slash separated wildcard.
type compiled struct {
	rule Rule
	wc   *wildcard.Wildcard
}

// Resolver answers which rule applies to a symbol. It is immutable after
// NewResolver and safe for concurrent use.
type Resolver struct {
	tables  map[Kind][]compiled
	renames map[string]Rule
	order   []Rule
	logger  zerolog.Logger
}

// NewResolver compiles rules into per-kind tables. Dotted patterns and
// results are converted to slash form.
func NewResolver(rules []Rule) (*Resolver, error) {
	r := &Resolver{
		tables:  make(map[Kind][]compiled),
		renames: make(map[string]Rule),
		order:   append([]Rule(nil), rules...),
		logger:  logging.GetLogger("rules.resolver"),
	}

	for _, rule := range rules {
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		if rule.Kind == KindRename {
			if _, dup := r.renames[rule.Pattern]; !dup {
				r.renames[rule.Pattern] = rule
			}
			continue
		}

		wc, err := wildcard.Compile(toSlash(rule.Pattern), toSlash(rule.Result))
		if err != nil {
			if rule.Line > 0 {
				return nil, withLine(err, rule.Line)
			}
			return nil, err
		}
		r.tables[rule.Kind] = append(r.tables[rule.Kind], compiled{rule: rule, wc: wc})
	}

	r.logger.Debug().
		Int("rules", len(r.tables[KindRule])).
		Int("zaps", len(r.tables[KindZap])).
		Int("keeps", len(r.tables[KindKeep])).
		Int("renames", len(r.renames)).
		Msg("Compiled rule tables")
	return r, nil
}

// Resolve finds the rule of the given kind that applies to symbol, a slash
// separated internal name (or an archive path for KindRename).
func (r *Resolver) Resolve(symbol string, kind Kind) (Match, bool) {
	if kind == KindRename {
		rule, ok := r.renames[symbol]
		if !ok {
			return Match{}, false
		}
		return Match{Rule: rule, Result: rule.Result}, true
	}

	var (
		best       Match
		bestPrefix = -1
	)
	for _, c := range r.tables[kind] {
		result, ok := c.wc.Replace(symbol)
		if !ok {
			continue
		}
		// strictly greater keeps the first declared rule on ties
		if p := c.wc.LiteralPrefix(); p > bestPrefix {
			bestPrefix = p
			best = Match{Rule: c.rule, Result: result}
		}
	}
	if bestPrefix < 0 {
		return Match{}, false
	}
	if kind != KindRule {
		best.Result = ""
	}
	return best, true
}

// Replace returns the renamed form of an internal name.
func (r *Resolver) Replace(name string) (string, bool) {
	m, ok := r.Resolve(name, KindRule)
	if !ok {
		return "", false
	}
	return m.Result, true
}

// Zapped reports whether an internal name matches a zap rule.
func (r *Resolver) Zapped(name string) bool {
	_, ok := r.Resolve(name, KindZap)
	return ok
}

// Kept reports whether an internal name is a keep root.
func (r *Resolver) Kept(name string) bool {
	_, ok := r.Resolve(name, KindKeep)
	return ok
}

// ExplicitRename returns the target of a rename rule for an archive path.
func (r *Resolver) ExplicitRename(path string) (string, bool) {
	m, ok := r.Resolve(path, KindRename)
	if !ok {
		return "", false
	}
	return m.Result, true
}

// HasRules reports whether any rule of kind was loaded.
func (r *Resolver) HasRules(kind Kind) bool {
	if kind == KindRename {
		return len(r.renames) > 0
	}
	return len(r.tables[kind]) > 0
}

// HasKeeps reports whether any keep rule was loaded.
func (r *Resolver) HasKeeps() bool { return r.HasRules(KindKeep) }

// Keeps returns the keep rules in declaration order.
func (r *Resolver) Keeps() []Rule {
	var out []Rule
	for _, c := range r.tables[KindKeep] {
		out = append(out, c.rule)
	}
	return out
}

// Rules returns every rule in declaration order.
func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.order...)
}

func toSlash(s string) string {
	return strings.ReplaceAll(s, ".", "/")
}

func withLine(err error, line int) error {
	return errors.Wrapf(err, errors.GetErrorCode(err), "line %d", line).
		WithDetail("line", line)
}
