package pkgspec

import (
	"fmt"
	"strings"

	"github.com/arsenez2006/depend/internal/build"
	"github.com/arsenez2006/depend/x/autotools"
	"github.com/arsenez2006/depend/x/cmake"
)

// CMakeTemplate generates configure, build and install steps for a CMake
// project. The build directory is ${build} and the install prefix is
// ${prefix}.
type CMakeTemplate struct {
	// Source is the directory holding the top-level CMakeLists.txt,
	// ${src} when empty.
	Source    string `mapstructure:"source" yaml:"source,omitempty"`
	Generator string `mapstructure:"generator" yaml:"generator,omitempty"`
	BuildType string `mapstructure:"build_type" yaml:"build_type,omitempty"`
	Toolchain string `mapstructure:"toolchain" yaml:"toolchain,omitempty"`
	// Defines are NAME=VALUE cache entries of type STRING.
	Defines []string `mapstructure:"defines" yaml:"defines,omitempty"`
	// Enable and Disable name BOOL cache entries set to ON and OFF.
	Enable  []string `mapstructure:"enable" yaml:"enable,omitempty"`
	Disable []string `mapstructure:"disable" yaml:"disable,omitempty"`
	// Use lists install roots added to CMAKE_PREFIX_PATH.
	Use []string `mapstructure:"use" yaml:"use,omitempty"`
}

func (t *CMakeTemplate) validate() error {
	if err := checkAssignments("define", t.Defines); err != nil {
		return err
	}
	for _, names := range [][]string{t.Enable, t.Disable} {
		for _, name := range names {
			if name == "" || strings.Contains(name, "=") {
				return fmt.Errorf("invalid option name %q", name)
			}
		}
	}
	return nil
}

func (t *CMakeTemplate) steps() []build.Step {
	c := cmake.New("${src}", "${build}", "${prefix}")
	if t.Source != "" {
		c.Source(t.Source)
	}
	if t.Generator != "" {
		c.Generator(t.Generator)
	}
	if t.BuildType != "" {
		c.BuildType(t.BuildType)
	}
	if t.Toolchain != "" {
		c.Toolchain(t.Toolchain)
	}
	for _, d := range t.Defines {
		name, value, _ := strings.Cut(d, "=")
		c.Define(name, value)
	}
	for _, name := range t.Enable {
		c.DefineBool(name, true)
	}
	for _, name := range t.Disable {
		c.DefineBool(name, false)
	}
	for _, root := range t.Use {
		c.Use(root)
	}
	return c.Steps("${jobs}")
}

// AutoToolsTemplate generates the configure and make steps of an
// in-tree Autotools build.
type AutoToolsTemplate struct {
	// Source is the directory holding configure, ${src} when empty.
	Source string `mapstructure:"source" yaml:"source,omitempty"`
	// Bootstrap names a script such as autogen.sh run before configure.
	Bootstrap string   `mapstructure:"bootstrap" yaml:"bootstrap,omitempty"`
	Configure []string `mapstructure:"configure" yaml:"configure,omitempty"`
	// Env holds KEY=VALUE variables set for every step.
	Env []string `mapstructure:"env" yaml:"env,omitempty"`
	// Use lists install roots whose headers, libraries and pkg-config
	// files the build may use.
	Use []string `mapstructure:"use" yaml:"use,omitempty"`
	// Install adds a final "make install".
	Install bool `mapstructure:"install" yaml:"install,omitempty"`
}

func (t *AutoToolsTemplate) validate() error {
	return checkAssignments("env", t.Env)
}

func (t *AutoToolsTemplate) steps() []build.Step {
	a := autotools.New("${src}", "", "${prefix}")
	if t.Source != "" {
		a.Source(t.Source)
	}
	for _, kv := range t.Env {
		key, value, _ := strings.Cut(kv, "=")
		a.Env(key, value)
	}
	for _, root := range t.Use {
		a.Use(root)
	}

	var steps []build.Step
	if t.Bootstrap != "" {
		steps = append(steps, a.Bootstrap(t.Bootstrap))
	}
	steps = append(steps, a.Configure(t.Configure...), a.Build("-j${jobs}"))
	if t.Install {
		steps = append(steps, a.Install())
	}
	return steps
}

// checkAssignments reports the first entry of list not of the form
// NAME=VALUE with a non-empty NAME.
func checkAssignments(what string, list []string) error {
	for _, kv := range list {
		if name, _, ok := strings.Cut(kv, "="); !ok || name == "" {
			return fmt.Errorf("%s %q: want NAME=VALUE", what, kv)
		}
	}
	return nil
}
