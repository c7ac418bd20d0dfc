package report

import (
	"io"
	"os"

	"github.com/arthur-debert/shade/pkg/errors"
)

// Renderer is the common interface for all output renderers.
type Renderer interface {
	// RenderResult renders a command result: *core.Result,
	// *core.CheckResult, []core.Dependency or []core.ClassStrings.
	RenderResult(result interface{}) error

	// RenderError renders an error with appropriate formatting
	RenderError(err error) error

	// RenderMessage renders a simple message
	RenderMessage(msg string) error
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch format {
	case FormatAuto:
		if file, ok := output.(*os.File); ok {
			return NewRenderer(DetectFormat(file), output)
		}
		return NewRenderer(FormatText, output)
	case FormatTerminal:
		return newHuman(output, terminalStyles(output)), nil
	case FormatText:
		return newHuman(output, plainStyles()), nil
	case FormatJSON:
		return newJSON(output), nil
	case FormatYAML:
		return newYAML(output), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
	}
}
