package internal

import (
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arsenez2006/depend/internal/pkgspec"
)

var showCmd = &cobra.Command{
	Use:   "show <package>",
	Short: "Print a package's definition",
	Long:  `Show prints a package's definition as YAML, in the form accepted under "packages" in the config file.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	spec, err := registry.Lookup(args[0])
	if err != nil {
		return err
	}
	return writeSpec(cmd.OutOrStdout(), spec)
}

func writeSpec(w io.Writer, spec pkgspec.Spec) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(spec); err != nil {
		return err
	}
	return enc.Close()
}
