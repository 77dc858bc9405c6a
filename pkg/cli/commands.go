package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"
)

func New() *cobra.Command {
	p := &rootParams{}
	cmd := &cobra.Command{
		Use:               "pkgblame",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Short:             "Find out why packages are installed",
		Args:              cobra.ArbitraryArgs,
		// Positional arguments are package names, so the root command has no
		// subcommands for them to collide with.
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		RunE: func(cmd *cobra.Command, args []string) error {
			if p.version {
				v := version.GetVersionInfo()
				v.Name = cmd.Name()
				v.Description = cmd.Short
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
				return nil
			}
			if !p.list {
				fmt.Fprintf(cmd.OutOrStdout(), "no command specified, use %s -h for help\n", cmd.Name())
				return nil
			}
			return runList(cmd, p, args)
		},
	}

	p.addFlagsTo(cmd)
	cmd.SetHelpFunc(helpFunc(cmd.HelpFunc()))

	return cmd
}
