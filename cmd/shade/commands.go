package shade

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/shade/internal/version"
	"github.com/arthur-debert/shade/pkg/config"
	"github.com/arthur-debert/shade/pkg/core"
	"github.com/arthur-debert/shade/pkg/errors"
	"github.com/arthur-debert/shade/pkg/keep"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/spf13/cobra"
)

var errNoCommand = errors.New(errors.ErrInvalidInput, MsgErrNoCommand)

// processFlags maps flag names of the process command to configuration keys.
var processFlags = map[string]string{
	"skip-manifest":    "skip_manifest",
	"misplaced":        "misplaced",
	"keep-mode":        "keep.mode",
	"rewrite-services": "rewrite_services",
	"xml":              "xml_resources",
	"parallel-root":    "parallel_roots",
}

func newProcessCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "process [rules] <input> <output>",
		Short:   MsgProcessShort,
		Long:    MsgProcessLong,
		Example: MsgProcessExample,
		GroupID: "core",
		Args:    cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.process")

			cfg, err := g.loadConfig(cmd, processFlags)
			if err != nil {
				return err
			}
			opts := core.ProcessOptions{Config: cfg}
			if len(args) == 3 {
				opts.RulesFile, args = args[0], args[1:]
			}
			opts.Input, opts.Output = args[0], args[1]

			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			result, err := core.Process(cmd.Context(), opts)
			if err != nil {
				return err
			}
			logger.Info().
				Str("run", result.RunID).
				Int("written", result.Written).
				Msg("Process command finished")
			return r.RenderResult(result)
		},
	}

	cmd.Flags().Bool("skip-manifest", false, MsgFlagSkipManifest)
	cmd.Flags().String("misplaced", "omit", MsgFlagMisplaced)
	cmd.Flags().String("keep-mode", "inline", MsgFlagKeepMode)
	cmd.Flags().Bool("rewrite-services", false, MsgFlagServices)
	cmd.Flags().StringSlice("xml", nil, MsgFlagXML)
	cmd.Flags().StringSlice("parallel-root", nil, MsgFlagParallelRoot)

	return cmd
}

func newCheckCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "check [rules]",
		Short:   MsgCheckShort,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			path := cfg.RulesFile
			if len(args) == 1 {
				path = args[0]
			}

			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			result, err := core.Check(path, cfg.Rules)
			if err != nil {
				return err
			}
			return r.RenderResult(result)
		},
	}
}

func newFindCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "find <archive>",
		Short:   MsgFindShort,
		Long:    MsgFindLong,
		GroupID: "inspect",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig(cmd, map[string]string{"ignore": "keep.ignore"})
			if err != nil {
				return err
			}
			policy := keep.Policy{StringLiterals: cfg.Keep.StringLiterals, Ignore: cfg.Keep.Ignore}
			if noStrings, _ := cmd.Flags().GetBool("no-strings"); noStrings {
				policy.StringLiterals = false
			}

			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			deps, err := core.Find(cmd.Context(), args[0], policy)
			if err != nil {
				return err
			}
			return r.RenderResult(deps)
		},
	}

	cmd.Flags().Bool("no-strings", false, MsgFlagNoStrings)
	cmd.Flags().StringSlice("ignore", nil, MsgFlagIgnore)

	return cmd
}

func newStringsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "strings <archive>",
		Short:   MsgStringsShort,
		GroupID: "inspect",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := g.renderer(cmd)
			if err != nil {
				return err
			}
			classes, err := core.Strings(args[0])
			if err != nil {
				return err
			}
			return r.RenderResult(classes)
		},
	}
}

func newGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := config.GenerateConfigContent()
			if err != nil {
				return errors.Wrap(err, errors.ErrInternal, "failed to generate configuration")
			}

			write, _ := cmd.Flags().GetBool("write")
			if !write {
				_, err := fmt.Fprint(cmd.OutOrStdout(), content)
				return err
			}

			force, _ := cmd.Flags().GetBool("force")
			dir, _ := cmd.Flags().GetString("dir")
			path := filepath.Join(dir, config.FileName)
			if _, err := os.Stat(path); err == nil && !force {
				return errors.Newf(errors.ErrAlreadyExists, MsgConfigExists, path).
					WithDetail("path", path)
			}
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return errors.Wrapf(err, errors.ErrConfigWrite, "failed to write %s", path)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return err
		},
	}

	cmd.Flags().BoolP("write", "w", false, MsgFlagWrite)
	cmd.Flags().Bool("force", false, MsgFlagForce)
	cmd.Flags().String("dir", ".", "")
	_ = cmd.Flags().MarkHidden("dir")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, MsgVersionFormat, version.Version)
			if version.Commit != "" {
				_, _ = fmt.Fprintf(out, MsgVersionCommitFormat, version.Commit)
			}
			if version.Date != "" {
				_, _ = fmt.Fprintf(out, MsgVersionDateFormat, version.Date)
			}
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}
