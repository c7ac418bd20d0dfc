package pipeline

import (
	"sync"

	"github.com/arthur-debert/shade/pkg/archive"
	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/keep"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/arthur-debert/shade/pkg/remap"
	"github.com/arthur-debert/shade/pkg/rules"
	"github.com/arthur-debert/shade/pkg/tracker"
	"github.com/rs/zerolog"
)

// Processor applies the stage chain to entries and keeps the rename ledger.
type Processor struct {
	opts     Options
	remapper *remap.Remapper
	methods  map[string]bool
	chain    Chain
	ledger   *tracker.Ledger
	logger   zerolog.Logger

	excluded func() (map[string]bool, error)
	excludes []string

	mu      sync.Mutex
	removed []string
}

// New builds a Processor. Options.Rules must be set.
func New(opts Options) (*Processor, error) {
	if opts.Rules == nil {
		return nil, errors.New(errors.ErrInvalidInput, "pipeline needs a rule resolver")
	}

	p := &Processor{
		opts:     opts,
		remapper: remap.New(opts.Rules),
		methods:  opts.signatureMethods(),
		ledger:   tracker.NewLedger(),
		logger:   logging.GetLogger("pipeline"),
	}
	p.excluded = sync.OnceValues(p.computeExcludes)

	if opts.SkipManifest {
		p.chain = append(p.chain, StageFunc(p.manifestStage))
	}
	if opts.KeepExcludes != nil {
		p.chain = append(p.chain, StageFunc(p.keepStage))
	}
	p.chain = append(p.chain,
		StageFunc(p.zapStage),
		StageFunc(p.misplacedStage),
		StageFunc(p.classStage),
	)
	if len(p.methods) > 0 {
		p.chain = append(p.chain, StageFunc(p.literalStage))
	}
	p.chain = append(p.chain, StageFunc(p.pathStage))
	if opts.RewriteServices {
		p.chain = append(p.chain, StageFunc(p.serviceStage))
	}
	if opts.XMLResources.Len() > 0 {
		p.chain = append(p.chain, StageFunc(p.xmlStage))
	}
	if opts.Rules.HasRules(rules.KindRename) {
		p.chain = append(p.chain, StageFunc(p.renameStage))
	}

	p.logger.Debug().
		Int("stages", len(p.chain)).
		Bool("skipManifest", opts.SkipManifest).
		Stringer("misplaced", opts.Misplaced).
		Bool("keep", opts.KeepExcludes != nil).
		Msg("Built entry pipeline")
	return p, nil
}

func (p *Processor) computeExcludes() (map[string]bool, error) {
	list, err := p.opts.KeepExcludes()
	if err != nil {
		return nil, err
	}
	p.excludes = list
	set := make(map[string]bool, len(list))
	for _, name := range list {
		set[name] = true
	}
	p.logger.Debug().Int("excluded", len(list)).Stringer("mode", p.opts.KeepMode).
		Msg("Computed keep exclusions")
	return set, nil
}

// Process runs one entry through the chain. It returns false when the entry
// must not be written.
func (p *Processor) Process(e *archive.Entry) (bool, error) {
	original := e.Name
	keepIt, err := p.chain.Process(e)
	if err != nil {
		return false, err
	}
	if !keepIt {
		p.mu.Lock()
		p.removed = append(p.removed, original)
		p.mu.Unlock()
		p.logger.Debug().Str("entry", original).Msg("Removed")
		return false, nil
	}
	if e.Name != original {
		p.ledger.Record(original, e.Name)
		p.logger.Debug().Str("from", original).Str("to", e.Name).Msg("Renamed")
	}
	return true, nil
}

// Ledger returns the renames recorded so far.
func (p *Processor) Ledger() *tracker.Ledger { return p.ledger }

// Remapper returns the remapper shared by the stages.
func (p *Processor) Remapper() *remap.Remapper { return p.remapper }

// Removed returns the original names of the dropped entries, in order.
func (p *Processor) Removed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.removed...)
}

// Excludes returns the output paths of the classes outside the keep
// closure. It is empty unless keep handling ran in KeepStrip mode.
func (p *Processor) Excludes() []string {
	if p.opts.KeepExcludes == nil || p.opts.KeepMode != KeepStrip {
		return nil
	}
	if _, err := p.excluded(); err != nil {
		return nil
	}
	return tracker.FinalExcludes(p.excludes, p.ledger)
}

// Strip removes the entries named by Excludes from written output, keeping
// the order of the rest.
func (p *Processor) Strip(entries []*archive.Entry) []*archive.Entry {
	excludes := p.Excludes()
	if len(excludes) == 0 {
		return entries
	}
	drop := make(map[string]bool, len(excludes))
	for _, name := range excludes {
		drop[name] = true
	}
	out := make([]*archive.Entry, 0, len(entries))
	for _, e := range entries {
		if drop[e.Name] {
			p.logger.Debug().Str("entry", e.Name).Msg("Stripped")
			continue
		}
		out = append(out, e)
	}
	p.logger.Info().Int("stripped", len(entries)-len(out)).Msg("Stripped classes outside the keep closure")
	return out
}

// KeepGraph is a convenience KeepExcludes source over an already built
// graph.
func KeepGraph(g *keep.Graph, roots keep.Roots) func() ([]string, error) {
	return func() ([]string, error) {
		return g.Excludes(roots), nil
	}
}
