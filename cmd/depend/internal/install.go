package internal

import (
	"github.com/spf13/cobra"

	"github.com/arsenez2006/depend/internal/install"
)

var installDryRun bool

var installCmd = &cobra.Command{
	Use:   "install <package>",
	Short: "Install the newest release of a package",
	Long: `Install resolves the newest release tag of a package, checks it out into
<prefix>/src, runs its build steps and copies its artifacts to <prefix>/bin.
With --dry-run only the version that would be installed is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringP("prefix", "p", "", "install prefix (default ./deps)")
	installCmd.Flags().IntP("jobs", "j", 0, "parallel build jobs (default: number of CPUs)")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "only resolve and print the version")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	prefix, err := prefixDir()
	if err != nil {
		return err
	}
	_, err = newInstaller(cmd).Install(cmd.Context(), install.Request{
		Package: args[0],
		Prefix:  prefix,
		DryRun:  installDryRun,
	})
	return err
}
