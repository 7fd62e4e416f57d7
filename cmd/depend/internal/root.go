package internal

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arsenez2006/depend/internal/config"
	"github.com/arsenez2006/depend/internal/pkgspec"
)

var (
	configFile string

	// Set up by loadConfig before any subcommand runs.
	cfg      *config.Config
	logger   *log.Logger
	registry *pkgspec.Registry
)

var rootCmd = &cobra.Command{
	Use:   "depend",
	Short: "depend installs build tools from their upstream repositories",
	Long: `depend resolves the newest release tag of a package's upstream git
repository, checks it out and builds it into a local prefix.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// boundFlags are the flags that override config keys of the same name.
var boundFlags = []string{"prefix", "jobs", "verbose"}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/depend/config.yaml, then ./depend.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "show debug logs and build output")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	v := viper.New()
	for _, name := range boundFlags {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(name, f); err != nil {
				return err
			}
		}
	}
	c, path, err := config.Load(v, configFile)
	if err != nil {
		return err
	}
	cfg = c

	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "depend",
		Level:  level,
	})
	if path != "" {
		logger.Debug("loaded config", "file", path)
	}

	registry, err = pkgspec.NewRegistry(cfg.Packages...)
	return err
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "depend: %v\n", err)
		os.Exit(1)
	}
}
