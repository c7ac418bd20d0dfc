package shade

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	MsgRootShort       = "Relocate the classes of a JVM archive"
	MsgProcessShort    = "Apply rules to an archive and write the result"
	MsgCheckShort      = "Validate a rules file without processing anything"
	MsgFindShort       = "List class dependencies inside an archive"
	MsgFindLong        = "Find prints one line per reference from a class of the archive to another class of the same archive."
	MsgStringsShort    = "List the string constants of every class"
	MsgGenConfigShort  = "Print a commented default shade.toml"
	MsgGenConfigLong   = "Print the default configuration with every value commented out, or write it to ./shade.toml with -w."
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	MsgFlagVerbose         = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig          = "Configuration file (default ./shade.toml when present)"
	MsgFlagFormat          = "Output format: auto, term, text, json or yaml"
	MsgFlagSkipManifest    = "Drop META-INF/MANIFEST.MF from the output"
	MsgFlagMisplaced       = "Policy for classes stored under the wrong path: omit, skip, move or fail"
	MsgFlagKeepMode        = "How keep rules remove classes: inline or strip"
	MsgFlagServices        = "Rewrite class names inside META-INF/services files"
	MsgFlagXML             = "Glob of XML resources whose class names are rewritten (repeatable)"
	MsgFlagParallelRoot    = "Path prefix whose duplicate entries are tolerated (repeatable)"
	MsgFlagNoStrings       = "Do not follow class names found in string constants"
	MsgFlagIgnore          = "Class name prefixes left out of the graph (repeatable)"
	MsgFlagWrite           = "Write ./shade.toml instead of printing"
	MsgFlagForce           = "Overwrite an existing ./shade.toml"
	MsgConfigWritten       = "Wrote %s\n"
	MsgConfigExists        = "%s already exists, use --force to overwrite"
	MsgErrNoCommand        = "no command specified"
	MsgVersionFormat       = "shade version %s\n"
	MsgVersionCommitFormat = "  commit: %s\n"
	MsgVersionDateFormat   = "  built:  %s\n"
)

var (
	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)

	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/process-long.txt
	msgProcessLongRaw string
	MsgProcessLong    = strings.TrimSpace(msgProcessLongRaw)

	//go:embed msgs/process-example.txt
	msgProcessExampleRaw string
	MsgProcessExample    = strings.TrimRight(msgProcessExampleRaw, "\n")

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)
)
