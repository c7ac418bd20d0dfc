// Package shade builds the shade command line.
package shade

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/shade/internal/version"
	"github.com/arthur-debert/shade/pkg/cobrax/topics"
	"github.com/arthur-debert/shade/pkg/config"
	"github.com/arthur-debert/shade/pkg/logging"
	"github.com/arthur-debert/shade/pkg/report"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

//go:embed topics
var topicsFS embed.FS

// globals holds the persistent flags shared by every command.
type globals struct {
	verbosity  int
	configPath string
	format     string
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "shade",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLogger(g.verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			_, err := report.ParseFormat(g.format)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errNoCommand
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVarP(&g.format, "format", "f", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "inspect", Title: "INSPECT:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newProcessCmd(g))
	rootCmd.AddCommand(newCheckCmd(g))
	rootCmd.AddCommand(newFindCmd(g))
	rootCmd.AddCommand(newStringsCmd(g))
	rootCmd.AddCommand(newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	help, err := fs.Sub(topicsFS, "topics")
	if err == nil {
		opts := topics.Options{Renderer: topics.NewGlamourRenderer()}
		if err := topics.InitializeWithOptions(rootCmd, help, opts); err != nil {
			log.Warn().Err(err).Msg("Help topics unavailable")
		}
	}

	return rootCmd
}

// loadConfig layers the configuration for cmd. Only flags the user set
// explicitly become overrides.
func (g *globals) loadConfig(cmd *cobra.Command, keys map[string]string) (*config.Config, error) {
	overrides := make(map[string]interface{})
	for name, key := range keys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if f.Value.Type() == "stringSlice" {
			overrides[key], _ = cmd.Flags().GetStringSlice(name)
			continue
		}
		overrides[key] = f.Value.String()
	}
	return config.Load(config.LoadOptions{Path: g.configPath, Overrides: overrides})
}

// renderer returns the output renderer selected by --format for cmd.
func (g *globals) renderer(cmd *cobra.Command) (report.Renderer, error) {
	format, err := report.ParseFormat(g.format)
	if err != nil {
		return nil, err
	}
	return report.NewRenderer(format, cmd.OutOrStdout())
}
