// Package autotools describes the classic configure/make/make-install
// workflow as build steps.
package autotools

import (
	"path"
	"sort"

	"github.com/arsenez2006/depend/internal/build"
)

// AutoTools produces the steps of an Autotools-style build. Directories
// may hold placeholders such as "${src}"; they are passed through
// unchanged.
type AutoTools struct {
	sourceDir  string
	buildDir   string
	installDir string
	env        map[string]string
}

// New returns a ready-to-use AutoTools. An empty buildDir builds in the
// source tree.
func New(sourceDir, buildDir, installDir string) *AutoTools {
	return &AutoTools{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		env:        make(map[string]string),
	}
}

// Source overrides the source directory.
func (a *AutoTools) Source(dir string) { a.sourceDir = dir }

// Env sets key=value for every step produced afterwards.
func (a *AutoTools) Env(key, value string) {
	a.env[key] = value
}

// Use adds the include, lib and pkgconfig paths of a package installed
// under root.
func (a *AutoTools) Use(root string) {
	a.prependPath("PKG_CONFIG_PATH", path.Join(root, "lib", "pkgconfig"))
	a.appendFlag("CPPFLAGS", "-I"+path.Join(root, "include"))
	a.appendFlag("LDFLAGS", "-L"+path.Join(root, "lib"))
}

// Bootstrap returns the step running a bootstrap script such as
// "autogen.sh" from the source tree.
func (a *AutoTools) Bootstrap(script string, args ...string) build.Step {
	return a.step("sh", append([]string{script}, args...), a.sourceDir)
}

// Configure returns the step running <sourceDir>/configure inside the
// build directory. --prefix comes first when installDir is set; extra
// flags follow.
func (a *AutoTools) Configure(args ...string) build.Step {
	script := "configure"
	if a.buildDir != "" && a.buildDir != a.sourceDir {
		script = path.Join(a.sourceDir, "configure")
	}
	flags := make([]string, 0, 2+len(args))
	flags = append(flags, script)
	if a.installDir != "" {
		flags = append(flags, "--prefix="+a.installDir)
	}
	return a.step("sh", append(flags, args...), a.workDir())
}

// Build returns "make" with optional extra arguments.
func (a *AutoTools) Build(args ...string) build.Step {
	return a.step("make", args, a.workDir())
}

// Install returns "make install" with optional extra arguments appended.
func (a *AutoTools) Install(args ...string) build.Step {
	return a.step("make", append([]string{"install"}, args...), a.workDir())
}

func (a *AutoTools) workDir() string {
	if a.buildDir == "" {
		return a.sourceDir
	}
	return a.buildDir
}

func (a *AutoTools) step(program string, args []string, dir string) build.Step {
	return build.Step{Program: program, Args: args, Dir: dir, Env: a.envList()}
}

// envList returns the configured variables as sorted KEY=VALUE entries.
func (a *AutoTools) envList() []string {
	if len(a.env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(a.env))
	for k := range a.env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+a.env[k])
	}
	return env
}

// prependPath prepends value to a colon-separated variable.
func (a *AutoTools) prependPath(key, value string) {
	if cur := a.env[key]; cur != "" {
		value += ":" + cur
	}
	a.env[key] = value
}

// appendFlag appends a space-separated flag to a variable.
func (a *AutoTools) appendFlag(key, flag string) {
	if cur := a.env[key]; cur != "" {
		flag = cur + " " + flag
	}
	a.env[key] = flag
}
