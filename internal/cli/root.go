// Package cli provides the Cobra command structure for mdtree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/quillsoft/mdtree/internal/configloader"
	"github.com/quillsoft/mdtree/internal/logging"
	"github.com/quillsoft/mdtree/pkg/config"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// rootOptions carries the persistent flags and the loaded configuration
// from the root command down into subcommands.
type rootOptions struct {
	debug      bool
	configPath string
	color      string

	cfg *config.Config
}

// NewRootCommand creates the root mdtree command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "mdtree",
		Short: "Convert Markdown documents into typed trees and HTML",
		Long: `mdtree parses Markdown into a strongly-typed, zero-copy syntax tree
and renders it through a generic enter/exit traversal.

The tree, the traversal protocol, and the reference resolver are exposed
as library packages; this CLI is a thin front end over them.`,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logging.SetDebug(opts.debug)

			cfg, err := configloader.Load(opts.configPath)
			if err != nil {
				return err
			}
			if opts.color != "" {
				cfg.Color = config.ColorMode(opts.color)
			}
			cfg.Debug = opts.debug
			if err := cfg.Validate(); err != nil {
				return err
			}

			opts.cfg = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&opts.color, "color", "",
		"colorize diagnostics: auto, always, never")

	rootCmd.AddCommand(newRenderCommand(opts))
	rootCmd.AddCommand(newTreeCommand(opts))
	rootCmd.AddCommand(newRefsCommand(opts))
	rootCmd.AddCommand(newVersionCommand(info))

	return rootCmd
}
