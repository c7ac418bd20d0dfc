package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/shade/pkg/core"
)

// human renders results for people. The terminal and text formats differ
// only in their styles.
type human struct {
	output io.Writer
	s      styles
}

func newHuman(output io.Writer, s styles) *human {
	return &human{output: output, s: s}
}

func (r *human) printf(format string, args ...interface{}) error {
	_, err := fmt.Fprintf(r.output, format, args...)
	return err
}

func (r *human) RenderResult(result interface{}) error {
	switch v := result.(type) {
	case *core.Result:
		return r.renderProcess(v)
	case *core.CheckResult:
		return r.renderCheck(v)
	case []core.Dependency:
		return r.renderDependencies(v)
	case []core.ClassStrings:
		return r.renderStrings(v)
	default:
		return r.printf("%+v\n", result)
	}
}

func (r *human) renderProcess(res *core.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s %s\n",
		r.s.Success.Render("Shaded"),
		r.s.Name.Render(res.Input), r.s.Arrow, r.s.Name.Render(res.Output))
	fmt.Fprintf(&b, "  %s %d read, %d written, %d renamed, %d removed",
		r.s.Label.Render("entries:"), res.Read, res.Written, len(res.Renamed), len(res.Removed))
	if len(res.Stripped) > 0 {
		fmt.Fprintf(&b, ", %d stripped", len(res.Stripped))
	}
	b.WriteString("\n")
	if len(res.Skipped) > 0 {
		fmt.Fprintf(&b, "  %s %d unreadable classes copied unchanged\n",
			r.s.Warning.Render("skipped:"), len(res.Skipped))
		for _, name := range res.Skipped {
			fmt.Fprintf(&b, "    %s\n", r.s.Muted.Render(name))
		}
	}
	fmt.Fprintf(&b, "  %s %s (run %s)\n",
		r.s.Label.Render("took:"), res.Duration.Round(time.Millisecond), r.s.Muted.Render(res.RunID))
	return r.printf("%s", b.String())
}

func (r *human) renderCheck(res *core.CheckResult) error {
	var b strings.Builder
	source := res.File
	if source == "" {
		source = "configuration"
	}
	fmt.Fprintf(&b, "%s %s\n", r.s.Success.Render("Rules OK"), r.s.Name.Render(source))

	kinds := make([]string, 0, len(res.Counts))
	for k := range res.Counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Fprintf(&b, "  %s %d\n", r.s.Label.Render(k+":"), res.Counts[k])
	}
	for _, rule := range res.Rules {
		if rule.Result != "" {
			fmt.Fprintf(&b, "  %s %s %s %s\n", r.s.Muted.Render(rule.Kind.String()),
				rule.Pattern, r.s.Arrow, rule.Result)
			continue
		}
		fmt.Fprintf(&b, "  %s %s\n", r.s.Muted.Render(rule.Kind.String()), rule.Pattern)
	}
	return r.printf("%s", b.String())
}

func (r *human) renderDependencies(deps []core.Dependency) error {
	if len(deps) == 0 {
		return r.printf("%s\n", r.s.Muted.Render("no dependencies"))
	}
	var b strings.Builder
	for _, d := range deps {
		fmt.Fprintf(&b, "%s %s %s\n", d.From, r.s.Arrow, r.s.Name.Render(d.To))
	}
	return r.printf("%s", b.String())
}

func (r *human) renderStrings(classes []core.ClassStrings) error {
	var b strings.Builder
	for _, c := range classes {
		fmt.Fprintf(&b, "%s\n", r.s.Heading.Render(c.Entry))
		for _, s := range c.Strings {
			fmt.Fprintf(&b, "  %q\n", s)
		}
	}
	return r.printf("%s", b.String())
}

func (r *human) RenderError(err error) error {
	return r.printf("%s %s\n", r.s.Error.Render("Error:"), err.Error())
}

func (r *human) RenderMessage(msg string) error {
	return r.printf("%s\n", msg)
}
