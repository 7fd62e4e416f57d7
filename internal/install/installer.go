// Package install ties resolution, checkout and build together for a
// single package.
package install

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arsenez2006/depend/internal/build"
	"github.com/arsenez2006/depend/internal/pkgspec"
	"github.com/arsenez2006/depend/internal/resolve"
	"github.com/arsenez2006/depend/internal/worktree"
)

// Request asks for one package to be installed under Prefix.
type Request struct {
	Package string
	// Prefix must be absolute.
	Prefix string
	// DryRun stops after resolving and printing the version.
	DryRun bool
}

// Result describes a finished install.
type Result struct {
	Package string
	Version resolve.Resolved
	// Tree is nil on a dry run.
	Tree *worktree.Tree
}

// Installer runs install requests.
type Installer struct {
	registry     *pkgspec.Registry
	resolver     *resolve.Resolver
	materializer *worktree.Materializer
	pipeline     *build.Pipeline

	jobs int
	out  io.Writer
	log  *log.Logger
	now  func() time.Time
}

// Option configures an Installer.
type Option func(*Installer)

// WithJobs fixes the ${jobs} value. Zero or less uses build.Jobs.
func WithJobs(n int) Option {
	return func(i *Installer) {
		i.jobs = n
	}
}

// WithOutput sets where the resolved version is printed.
func WithOutput(w io.Writer) Option {
	return func(i *Installer) {
		i.out = w
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(i *Installer) {
		i.log = l
	}
}

// New creates an Installer.
func New(registry *pkgspec.Registry, resolver *resolve.Resolver, materializer *worktree.Materializer, pipeline *build.Pipeline, opts ...Option) *Installer {
	i := &Installer{
		registry:     registry,
		resolver:     resolver,
		materializer: materializer,
		pipeline:     pipeline,
		out:          os.Stdout,
		log:          log.New(io.Discard),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Install resolves the newest release of req.Package, checks it out into
// prefix/src and builds it, placing artifacts in prefix/bin.
func (i *Installer) Install(ctx context.Context, req Request) (*Result, error) {
	if !filepath.IsAbs(req.Prefix) {
		return nil, fmt.Errorf("prefix %q is not absolute", req.Prefix)
	}
	spec, err := i.registry.Lookup(req.Package)
	if err != nil {
		return nil, err
	}
	logger := i.log.With("package", spec.Name)

	logger.Debug("resolving", "remote", spec.Remote)
	v, err := i.resolver.Resolve(ctx, spec.Remote, spec.Tags, spec.Grammar)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}
	fmt.Fprintln(i.out, v.Name)

	res := &Result{Package: spec.Name, Version: *v}
	if req.DryRun {
		return res, nil
	}

	binDir := filepath.Join(req.Prefix, "bin")
	srcDir := filepath.Join(req.Prefix, "src")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}

	logger.Info("fetching", "version", v.Name, "dir", srcDir)
	tree, err := i.materializer.Materialize(ctx, spec.Remote, srcDir, *v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}
	res.Tree = tree

	plan, err := spec.Plan(pkgspec.Vars{
		Prefix: req.Prefix,
		Src:    srcDir,
		Build:  filepath.Join(srcDir, "build"),
		Bin:    binDir,
		Jobs:   i.jobCount(),
	})
	if err != nil {
		return nil, err
	}

	logger.Info("building", "version", v.Name, "steps", len(plan.Steps))
	if err := i.pipeline.Execute(ctx, plan); err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}

	if err := i.record(req.Prefix, res); err != nil {
		return nil, fmt.Errorf("%s: record install: %w", spec.Name, err)
	}
	logger.Info("installed", "version", v.Name)
	return res, nil
}

func (i *Installer) jobCount() int {
	if i.jobs > 0 {
		return i.jobs
	}
	return build.Jobs()
}

func (i *Installer) record(prefix string, res *Result) error {
	r, err := loadReceipts(prefix)
	if err != nil {
		return err
	}
	r.set(res.Package, &Receipt{
		Version:     res.Version.Name,
		Ref:         res.Version.Ref.Name,
		Hash:        res.Tree.Hash.String(),
		InstallTime: i.now(),
	})
	return saveReceipts(prefix, r)
}
