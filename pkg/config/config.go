package config

import (
	"github.com/arthur-debert/shade/pkg/misplaced"
	"github.com/arthur-debert/shade/pkg/pipeline"
	"github.com/arthur-debert/shade/pkg/rules"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "shade.toml"

// Config is the resolved configuration of one run.
type Config struct {
	RulesFile string `koanf:"rules_file" toml:"rules_file" json:"rulesFile" yaml:"rulesFile" comment:"Rules file with rule, zap, keep and rename lines. Rules may also be\ngiven as [[rules]] tables with kind, pattern and result keys."`

	Misplaced    misplaced.Policy `koanf:"misplaced" toml:"misplaced" json:"misplaced" yaml:"misplaced" comment:"Classes stored under a path that does not match their name: omit, skip, move or fail."`
	SkipManifest bool             `koanf:"skip_manifest" toml:"skip_manifest" json:"skipManifest" yaml:"skipManifest" comment:"Leave META-INF/MANIFEST.MF out of the output."`

	// ParallelRoots are subtrees whose entries may land on the same output
	// path as entries of another such subtree.
	ParallelRoots []string `koanf:"parallel_roots" toml:"parallel_roots" json:"parallelRoots" yaml:"parallelRoots" comment:"Archive subtrees allowed to hold the same output path, e.g. META-INF/versions/9."`

	SignatureMethods []string `koanf:"signature_methods" toml:"signature_methods" json:"signatureMethods" yaml:"signatureMethods" comment:"Methods whose string argument is a method signature."`
	RewriteServices  bool     `koanf:"rewrite_services" toml:"rewrite_services" json:"rewriteServices" yaml:"rewriteServices" comment:"Rewrite class names inside META-INF/services descriptors."`
	XMLResources     []string `koanf:"xml_resources" toml:"xml_resources" json:"xmlResources" yaml:"xmlResources" comment:"Globs of XML entries whose attribute and text values are rewritten."`

	Keep Keep `koanf:"keep" toml:"keep" json:"keep" yaml:"keep"`

	// Rules holds the [[rules]] tables of the configuration file.
	Rules []rules.Rule `koanf:"-" toml:"-" json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Keep configures the keep closure.
type Keep struct {
	Mode           pipeline.KeepMode `koanf:"mode" toml:"mode" json:"mode" yaml:"mode" comment:"inline drops unreachable classes during the pass; strip removes them afterwards."`
	StringLiterals bool              `koanf:"string_literals" toml:"string_literals" json:"stringLiterals" yaml:"stringLiterals" comment:"Follow string constants that look like class names."`
	Ignore         []string          `koanf:"ignore" toml:"ignore" json:"ignore" yaml:"ignore" comment:"Class name prefixes that never join the reference graph."`
}

// Default returns the built-in configuration. It matches the embedded
// defaults file.
func Default() *Config {
	return &Config{
		Misplaced:        misplaced.Default,
		ParallelRoots:    []string{},
		SignatureMethods: append([]string(nil), pipeline.DefaultSignatureMethods...),
		XMLResources:     []string{},
		Keep: Keep{
			Mode:           pipeline.KeepInline,
			StringLiterals: true,
			Ignore:         []string{"java/", "javax/"},
		},
	}
}
