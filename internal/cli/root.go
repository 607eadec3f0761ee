// Package cli implements compassctl, the offline companion to the compass
// server: it validates definition directories and evaluates snapshots
// without a database.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Compass/internal/config"
	"github.com/MikeSquared-Agency/Compass/internal/report"
)

// Version is overridden at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

// NewRootCmd assembles the command tree. A fresh tree per call keeps flag
// state out of tests.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "compassctl",
		Short:         "Evaluate maturity assessments offline",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(fmt.Sprintf("compassctl %s\n", Version))
	root.PersistentFlags().String("definitions", "definitions", "definitions directory")
	root.PersistentFlags().String("config", "", "service config file; its scoring section and definitions dir apply")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newEvaluateCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the compassctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "compassctl %s\n", Version)
			return nil
		},
	}
}

// settings resolves the definitions directory and report options. With
// --config the service's scoring section applies, and its definitions dir
// is used unless --definitions was given explicitly.
func settings(cmd *cobra.Command) (string, report.Options, error) {
	dir, _ := cmd.Flags().GetString("definitions")
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return dir, report.DefaultOptions(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return "", report.Options{}, err
	}
	if !cmd.Flags().Changed("definitions") {
		dir = cfg.Definitions.Dir
	}
	return dir, cfg.Scoring.ReportOptions(), nil
}
