package pipeline

import (
	"github.com/arthur-debert/shade/pkg/archive"
	"github.com/arthur-debert/shade/pkg/classfile"
	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/keep"
	"github.com/arthur-debert/shade/pkg/misplaced"
	"github.com/arthur-debert/shade/pkg/resources"
)

func (p *Processor) manifestStage(e *archive.Entry) (bool, error) {
	return e.Name != ManifestName, nil
}

func (p *Processor) keepStage(e *archive.Entry) (bool, error) {
	if !e.IsClass() {
		return true, nil
	}
	excluded, err := p.excluded()
	if err != nil {
		return false, err
	}
	if p.opts.KeepMode == KeepStrip {
		return true, nil
	}
	return !excluded[keep.Stem(e.Name)], nil
}

func (p *Processor) zapStage(e *archive.Entry) (bool, error) {
	if !e.IsClass() {
		return true, nil
	}
	return !p.opts.Rules.Zapped(keep.Stem(e.Name)), nil
}

func (p *Processor) misplacedStage(e *archive.Entry) (bool, error) {
	if !e.IsClass() {
		return true, nil
	}
	name, err := classfile.ClassName(e.Data)
	if err != nil {
		p.logger.Warn().Err(err).Str("entry", e.Name).
			Msg("Unable to read class name; entry will be copied without shading")
		e.SkipTransform = true
		return true, nil
	}
	if !misplaced.IsMisplaced(e.Name, name) {
		return true, nil
	}

	p.logger.Warn().
		Str("entry", e.Name).
		Str("class", name+archive.ClassSuffix).
		Stringer("policy", p.opts.Misplaced).
		Msg("Class name does not match entry path")
	d, err := p.opts.Misplaced.Handle(e.Name, name)
	if err != nil {
		return false, err
	}
	if d.SkipTransform {
		e.SkipTransform = true
	}
	return d.Keep, nil
}

func (p *Processor) classStage(e *archive.Entry) (bool, error) {
	if !e.IsClass() || e.SkipTransform {
		return true, nil
	}
	out, name, err := classfile.Transform(e.Data, p.remapper)
	if err != nil {
		if errors.HasCode(err, errors.ErrClassTooLarge) {
			return false, errors.Wrapf(err, errors.ErrEntryTransform, "Unable to transform %s", e.Name).
				WithDetail("entry", e.Name)
		}
		p.logger.Warn().Err(err).Str("entry", e.Name).
			Msg("Unable to read bytecode; entry will be copied without shading")
		e.SkipTransform = true
		return true, nil
	}
	e.Data = out
	e.Name = name + archive.ClassSuffix
	return true, nil
}

func (p *Processor) literalStage(e *archive.Entry) (bool, error) {
	if !e.IsClass() || e.SkipTransform {
		return true, nil
	}
	out, n, err := classfile.RewriteSignatureLiterals(e.Data, p.methods, func(s string) string {
		return p.remapper.MapSignature(s, false)
	})
	if err != nil {
		p.logger.Warn().Err(err).Str("entry", e.Name).Msg("Unable to scan bytecode for signature literals")
		return true, nil
	}
	if n > 0 {
		p.logger.Debug().Str("entry", e.Name).Int("count", n).Msg("Rewrote signature literals")
		e.Data = out
	}
	return true, nil
}

func (p *Processor) pathStage(e *archive.Entry) (bool, error) {
	if e.IsClass() {
		return true, nil
	}
	// explicit renames take the entry as it was stored
	if _, ok := p.opts.Rules.ExplicitRename(e.Name); ok {
		return true, nil
	}
	e.Name = p.remapper.MapPath(e.Name)
	return true, nil
}

func (p *Processor) serviceStage(e *archive.Entry) (bool, error) {
	if !resources.IsService(e.Name) {
		return true, nil
	}
	e.Name = resources.ServiceName(e.Name, p.remapper)
	if out, changed := resources.RewriteService(e.Data, p.remapper); changed {
		p.logger.Debug().Str("entry", e.Name).Msg("Rewrote service providers")
		e.Data = out
	}
	return true, nil
}

func (p *Processor) xmlStage(e *archive.Entry) (bool, error) {
	if e.IsDir() || !p.opts.XMLResources.Match(e.Name) {
		return true, nil
	}
	out, changed, err := resources.RewriteXML(e.Data, p.remapper)
	if err != nil {
		p.logger.Warn().Err(err).Str("entry", e.Name).Msg("Unable to rewrite XML resource")
		return true, nil
	}
	if changed {
		p.logger.Debug().Str("entry", e.Name).Msg("Rewrote XML resource")
		e.Data = out
	}
	return true, nil
}

func (p *Processor) renameStage(e *archive.Entry) (bool, error) {
	if target, ok := p.opts.Rules.ExplicitRename(e.Name); ok {
		e.Name = target
	}
	return true, nil
}
