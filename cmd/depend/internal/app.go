package internal

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arsenez2006/depend/internal/build"
	"github.com/arsenez2006/depend/internal/install"
	"github.com/arsenez2006/depend/internal/resolve"
	"github.com/arsenez2006/depend/internal/vcs"
	"github.com/arsenez2006/depend/internal/worktree"
)

func newGit() *vcs.Git {
	return vcs.NewGit(vcs.WithDepth(cfg.Depth))
}

func newResolver() *resolve.Resolver {
	return resolve.New(newGit(), logger)
}

func newInstaller(cmd *cobra.Command) *install.Installer {
	git := newGit()

	// Build output is noise unless asked for.
	exec := &build.ExecExecutor{}
	if cfg.Verbose {
		exec.Stdout = cmd.ErrOrStderr()
		exec.Stderr = cmd.ErrOrStderr()
	}

	return install.New(registry,
		resolve.New(git, logger),
		worktree.New(git, logger),
		build.NewPipeline(exec, logger),
		install.WithJobs(cfg.Jobs),
		install.WithOutput(cmd.OutOrStdout()),
		install.WithLogger(logger),
	)
}

// prefixDir returns the configured prefix as an absolute path.
func prefixDir() (string, error) {
	return filepath.Abs(cfg.Prefix)
}
