package rules

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/logging"
)

// Parse reads rules from line oriented source text.
func Parse(r io.Reader) ([]Rule, error) {
	logger := logging.GetLogger("rules.parse")

	var rules []Rule
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}

		kind, err := ParseKind(fields[0])
		if err != nil {
			return nil, errors.Newf(errors.ErrRuleSyntax,
				"line %d: unrecognized keyword %q", line, fields[0]).
				WithDetail("line", line)
		}
		if len(fields)-1 != kind.Arity() {
			return nil, errors.Newf(errors.ErrRuleSyntax,
				"line %d: %s takes %d argument(s), got %d", line, kind, kind.Arity(), len(fields)-1).
				WithDetail("line", line).
				WithDetail("kind", kind.String())
		}

		rule := Rule{Kind: kind, Pattern: fields[1], Line: line}
		if kind.Arity() == 2 {
			rule.Result = fields[2]
		}
		if err := rule.Validate(); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrRuleSyntax, "failed to read rules")
	}

	logger.Debug().Int("count", len(rules)).Msg("Parsed rules")
	return rules, nil
}

// ParseFile reads rules from the file at path.
func ParseFile(path string) ([]Rule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot open rules file %s", path).
			WithDetail("path", path)
	}
	defer func() { _ = f.Close() }()

	rules, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, errors.GetErrorCode(err), "%s", path).
			WithDetail("path", path)
	}
	return rules, nil
}
