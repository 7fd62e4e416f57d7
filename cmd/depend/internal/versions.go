package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <package>",
	Short: "List the releases of a package",
	Long:  `Versions lists every release of a package found upstream, oldest first.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	spec, err := registry.Lookup(args[0])
	if err != nil {
		return err
	}
	candidates, err := newResolver().Candidates(cmd.Context(), spec.Remote, spec.Tags, spec.Grammar)
	if err != nil {
		return fmt.Errorf("%s: %w", spec.Name, err)
	}
	out := cmd.OutOrStdout()
	for _, c := range candidates {
		fmt.Fprintln(out, c.Name)
	}
	return nil
}
