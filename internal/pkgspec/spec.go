// Package pkgspec holds the declarative description of installable
// packages and turns it into concrete build plans.
package pkgspec

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"

	"github.com/arsenez2006/depend/internal/build"
	"github.com/arsenez2006/depend/internal/resolve"
	"github.com/arsenez2006/depend/internal/version"
)

// Spec describes where a package comes from, how its releases are named
// and how it is built. Steps and artifacts may refer to ${prefix},
// ${src}, ${build}, ${bin} and ${jobs}.
//
// The build runs the steps generated by CMake or AutoTools, if one is
// set, followed by Steps.
type Spec struct {
	Name        string             `mapstructure:"name" yaml:"name"`
	Description string             `mapstructure:"description" yaml:"description,omitempty"`
	Remote      string             `mapstructure:"remote" yaml:"remote"`
	Tags        resolve.TagMatcher `mapstructure:"tags" yaml:"tags"`
	Grammar     version.Grammar    `mapstructure:"grammar" yaml:"grammar"`
	CMake       *CMakeTemplate     `mapstructure:"cmake" yaml:"cmake,omitempty"`
	AutoTools   *AutoToolsTemplate `mapstructure:"autotools" yaml:"autotools,omitempty"`
	Steps       []build.Step       `mapstructure:"steps" yaml:"steps,omitempty"`
	Artifacts   []build.Artifact   `mapstructure:"artifacts" yaml:"artifacts,omitempty"`
}

// Validate reports the first problem that would stop s from installing.
func (s *Spec) Validate() error {
	switch {
	case s.Name == "":
		return errors.New("package name is empty")
	case strings.ContainsAny(s.Name, `/\ `):
		return fmt.Errorf("package name %q contains a path separator or space", s.Name)
	case s.Remote == "":
		return fmt.Errorf("%s: remote is empty", s.Name)
	case s.Tags.Prefix == "":
		return fmt.Errorf("%s: tag prefix is empty", s.Name)
	case s.CMake != nil && s.AutoTools != nil:
		return fmt.Errorf("%s: cmake and autotools are mutually exclusive", s.Name)
	case len(s.Steps) == 0 && s.CMake == nil && s.AutoTools == nil:
		return fmt.Errorf("%s: no build steps", s.Name)
	}
	if err := s.Grammar.Validate(); err != nil {
		return fmt.Errorf("%s: %w", s.Name, err)
	}
	if s.CMake != nil {
		if err := s.CMake.validate(); err != nil {
			return fmt.Errorf("%s: cmake: %w", s.Name, err)
		}
	}
	if s.AutoTools != nil {
		if err := s.AutoTools.validate(); err != nil {
			return fmt.Errorf("%s: autotools: %w", s.Name, err)
		}
	}
	for i, step := range s.buildSteps() {
		if step.Program == "" {
			return fmt.Errorf("%s: step %d: program is empty", s.Name, i+1)
		}
	}
	for _, a := range s.Artifacts {
		if a.Src == "" {
			return fmt.Errorf("%s: artifact source is empty", s.Name)
		}
		if filepath.IsAbs(a.Src) || filepath.IsAbs(a.Dst) {
			return fmt.Errorf("%s: artifact %s: paths must be relative", s.Name, a.Src)
		}
	}
	return nil
}

// Vars are the values substituted into a Spec's templates.
type Vars struct {
	Prefix string
	Src    string
	Build  string
	Bin    string
	Jobs   int
}

func (v Vars) environ() expand.Environ {
	return expand.ListEnviron(
		"prefix="+v.Prefix,
		"src="+v.Src,
		"build="+v.Build,
		"bin="+v.Bin,
		"jobs="+strconv.Itoa(v.Jobs),
	)
}

// Plan expands every template of s with v. Referring to an unknown
// placeholder is an error.
func (s *Spec) Plan(v Vars) (build.Plan, error) {
	cfg := &expand.Config{Env: v.environ(), NoUnset: true}
	plan := build.Plan{
		SourceDir: v.Src,
		BinDir:    v.Bin,
		Artifacts: make([]build.Artifact, 0, len(s.Artifacts)),
	}

	steps := s.buildSteps()
	plan.Steps = make([]build.Step, 0, len(steps))
	for i, step := range steps {
		var err error
		out := build.Step{}
		if out.Program, err = expandString(cfg, step.Program); err != nil {
			return build.Plan{}, fmt.Errorf("%s: step %d: %w", s.Name, i+1, err)
		}
		if out.Dir, err = expandString(cfg, step.Dir); err != nil {
			return build.Plan{}, fmt.Errorf("%s: step %d: %w", s.Name, i+1, err)
		}
		if out.Args, err = expandAll(cfg, step.Args); err != nil {
			return build.Plan{}, fmt.Errorf("%s: step %d: %w", s.Name, i+1, err)
		}
		if out.Env, err = expandAll(cfg, step.Env); err != nil {
			return build.Plan{}, fmt.Errorf("%s: step %d: %w", s.Name, i+1, err)
		}
		plan.Steps = append(plan.Steps, out)
	}

	for _, a := range s.Artifacts {
		src, err := expandString(cfg, a.Src)
		if err != nil {
			return build.Plan{}, fmt.Errorf("%s: artifact %s: %w", s.Name, a.Src, err)
		}
		dst, err := expandString(cfg, a.Dst)
		if err != nil {
			return build.Plan{}, fmt.Errorf("%s: artifact %s: %w", s.Name, a.Src, err)
		}
		plan.Artifacts = append(plan.Artifacts, build.Artifact{Src: src, Dst: dst})
	}
	return plan, nil
}

// buildSteps returns the unexpanded steps of s in execution order.
func (s *Spec) buildSteps() []build.Step {
	var steps []build.Step
	switch {
	case s.CMake != nil:
		steps = s.CMake.steps()
	case s.AutoTools != nil:
		steps = s.AutoTools.steps()
	}
	return append(steps, s.Steps...)
}

func expandAll(cfg *expand.Config, list []string) ([]string, error) {
	if list == nil {
		return nil, nil
	}
	out := make([]string, len(list))
	for i, s := range list {
		var err error
		if out[i], err = expandString(cfg, s); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// expandString expands s as if it were inside double quotes.
func expandString(cfg *expand.Config, s string) (string, error) {
	if !strings.ContainsAny(s, `$\`) {
		return s, nil
	}
	word, err := syntax.NewParser().Document(strings.NewReader(s))
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", s, err)
	}
	out, err := expand.Document(cfg, word)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", s, err)
	}
	return out, nil
}
