package core

import (
	"context"
	"time"

	"github.com/arthur-debert/shade/pkg/archive"
	"github.com/arthur-debert/shade/pkg/config"
	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/keep"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/arthur-debert/shade/pkg/pipeline"
	"github.com/arthur-debert/shade/pkg/resources"
	"github.com/arthur-debert/shade/pkg/rules"
	"github.com/arthur-debert/shade/pkg/tracker"
	"github.com/google/uuid"
)

// ProcessOptions contains the inputs of one relocation run.
type ProcessOptions struct {
	Input  string
	Output string

	// RulesFile overrides Config.RulesFile when set.
	RulesFile string
	// Config supplies every other setting. Nil uses config.Default().
	Config *config.Config
}

// Rename is one entry whose name changed.
type Rename struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Result describes a finished run.
type Result struct {
	RunID    string        `json:"runId" yaml:"runId"`
	Input    string        `json:"input" yaml:"input"`
	Output   string        `json:"output" yaml:"output"`
	Read     int           `json:"read" yaml:"read"`
	Written  int           `json:"written" yaml:"written"`
	Renamed  []Rename      `json:"renamed" yaml:"renamed"`
	Removed  []string      `json:"removed" yaml:"removed"`
	Stripped []string      `json:"stripped" yaml:"stripped"`
	Skipped  []string      `json:"skipped" yaml:"skipped"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Process relocates the classes of opts.Input into opts.Output.
func Process(ctx context.Context, opts ProcessOptions) (*Result, error) {
	start := time.Now()
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	rulesFile := cfg.RulesFile
	if opts.RulesFile != "" {
		rulesFile = opts.RulesFile
	}

	result := &Result{RunID: uuid.NewString(), Input: opts.Input, Output: opts.Output}
	logger := logging.WithFields(map[string]interface{}{
		"component": "core.process",
		"run":       result.RunID,
	})
	logger.Info().
		Str("input", opts.Input).
		Str("output", opts.Output).
		Str("rules", rulesFile).
		Msg("Starting shading run")

	// Step 1: Load rules
	resolver, err := LoadRules(rulesFile, cfg.Rules)
	if err != nil {
		return nil, err
	}

	// Step 2: Read the input archive
	entries, err := archive.Read(opts.Input)
	if err != nil {
		return nil, err
	}
	result.Read = len(entries)

	// Step 3: Build the pipeline
	proc, err := newProcessor(ctx, cfg, resolver, entries)
	if err != nil {
		return nil, err
	}

	// Step 4: Stream entries into the output
	w, err := archive.Create(opts.Output, tracker.NewDuplicates(cfg.ParallelRoots))
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			w.Abort()
			return nil, err
		}
		original := e.Name
		keepIt, err := proc.Process(e)
		if err != nil {
			w.Abort()
			logger.Error().Err(err).Str("entry", original).Msg("Shading failed")
			return nil, err
		}
		if !keepIt {
			continue
		}
		if e.SkipTransform {
			result.Skipped = append(result.Skipped, original)
		}
		if err := w.Add(original, e); err != nil {
			w.Abort()
			logger.Error().Err(err).Str("entry", e.Name).Msg("Shading failed")
			return nil, err
		}
	}
	if err := w.Commit(); err != nil {
		return nil, err
	}
	result.Written = w.Written()

	// Step 5: Strip classes outside the keep closure
	stripped, err := strip(opts.Output, proc)
	if err != nil {
		return nil, err
	}
	result.Stripped = stripped
	result.Written -= len(stripped)

	proc.Ledger().Each(func(from, to string) {
		result.Renamed = append(result.Renamed, Rename{From: from, To: to})
	})
	result.Removed = proc.Removed()
	result.Duration = time.Since(start)

	logger.Info().
		Int("read", result.Read).
		Int("written", result.Written).
		Int("renamed", len(result.Renamed)).
		Int("removed", len(result.Removed)).
		Int("stripped", len(result.Stripped)).
		Dur("duration", result.Duration).
		Msg("Shading run completed")
	return result, nil
}

func newProcessor(ctx context.Context, cfg *config.Config, resolver *rules.Resolver, entries []*archive.Entry) (*pipeline.Processor, error) {
	xml, err := resources.NewXMLMatcher(cfg.XMLResources)
	if err != nil {
		return nil, err
	}
	opts := pipeline.Options{
		Rules:            resolver,
		SkipManifest:     cfg.SkipManifest,
		Misplaced:        cfg.Misplaced,
		SignatureMethods: cfg.SignatureMethods,
		RewriteServices:  cfg.RewriteServices,
		XMLResources:     xml,
		KeepMode:         cfg.Keep.Mode,
	}
	if resolver.HasKeeps() {
		policy := keep.Policy{StringLiterals: cfg.Keep.StringLiterals, Ignore: cfg.Keep.Ignore}
		snapshot := make([]*archive.Entry, len(entries))
		for i, e := range entries {
			snapshot[i] = e.Clone()
		}
		opts.KeepExcludes = func() ([]string, error) {
			g, err := keep.Build(ctx, snapshot, policy)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrInternal, "cannot build keep graph")
			}
			return g.Excludes(resolver), nil
		}
	}
	return pipeline.New(opts)
}

// strip runs the second pass over the written archive when the pipeline
// reports exclusions, and returns the removed entry names.
func strip(path string, proc *pipeline.Processor) ([]string, error) {
	if len(proc.Excludes()) == 0 {
		return nil, nil
	}
	written, err := archive.Read(path)
	if err != nil {
		return nil, err
	}
	kept := proc.Strip(written)
	if len(kept) == len(written) {
		return nil, nil
	}

	keptNames := make(map[string]bool, len(kept))
	for _, e := range kept {
		keptNames[e.Name] = true
	}
	var stripped []string
	for _, e := range written {
		if !keptNames[e.Name] {
			stripped = append(stripped, e.Name)
		}
	}
	if err := archive.Write(path, kept, archive.Unchecked); err != nil {
		return nil, err
	}
	return stripped, nil
}
