package internal

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arsenez2006/depend/internal/install"
	"github.com/arsenez2006/depend/internal/pkgspec"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List known packages",
	Long:  `List prints every known package with its upstream remote and the version installed in the prefix, if any.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringP("prefix", "p", "", "install prefix (default ./deps)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	prefix, err := prefixDir()
	if err != nil {
		return err
	}
	installed, err := install.Installed(prefix)
	if err != nil {
		return err
	}
	return writeList(cmd.OutOrStdout(), registry.List(), installed)
}

func writeList(w io.Writer, specs []pkgspec.Spec, installed map[string]*install.Receipt) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tINSTALLED\tREMOTE")
	for _, s := range specs {
		version := "-"
		if r, ok := installed[s.Name]; ok {
			version = r.Version
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Name, version, s.Remote)
	}
	return tw.Flush()
}
