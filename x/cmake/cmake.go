// Package cmake describes the cmake configure/build/install workflow as
// build steps.
package cmake

import (
	"sort"
	"strings"

	"github.com/arsenez2006/depend/internal/build"
)

type defineValue struct {
	value    string
	typeName string
}

// CMake produces the steps of a CMake-based build. Directories may hold
// placeholders such as "${src}"; they are passed through unchanged.
type CMake struct {
	sourceDir  string
	buildDir   string
	installDir string
	generator  string
	buildType  string
	toolchain  string
	prefixPath []string
	defines    map[string]defineValue
}

// New returns a ready-to-use CMake.
func New(sourceDir, buildDir, installDir string) *CMake {
	return &CMake{
		sourceDir:  sourceDir,
		buildDir:   buildDir,
		installDir: installDir,
		defines:    make(map[string]defineValue),
	}
}

// Source overrides the source directory.
func (c *CMake) Source(dir string) { c.sourceDir = dir }

// Generator sets the CMake generator (e.g. "Ninja", "Unix Makefiles").
func (c *CMake) Generator(name string) { c.generator = name }

// BuildType sets CMAKE_BUILD_TYPE (e.g. "Release", "Debug").
func (c *CMake) BuildType(name string) { c.buildType = name }

// Toolchain sets CMAKE_TOOLCHAIN_FILE.
func (c *CMake) Toolchain(path string) { c.toolchain = path }

// Define adds a -D<key>:STRING=<value> definition.
func (c *CMake) Define(key, value string) {
	c.defines[key] = defineValue{value: value, typeName: "STRING"}
}

// DefineBool adds a -D<key>:BOOL=ON/OFF definition.
func (c *CMake) DefineBool(key string, value bool) {
	v := "OFF"
	if value {
		v = "ON"
	}
	c.defines[key] = defineValue{value: v, typeName: "BOOL"}
}

// Use makes packages installed under root visible to find_package.
func (c *CMake) Use(root string) {
	c.prefixPath = append(c.prefixPath, root)
}

// Configure returns "cmake -S <source> -B <build>" with all configured
// options. Extra args are appended at the end.
func (c *CMake) Configure(args ...string) build.Step {
	cmakeArgs := []string{"-S", c.sourceDir, "-B", c.buildDir}
	if c.generator != "" {
		cmakeArgs = append(cmakeArgs, "-G", c.generator)
	}
	cmakeArgs = append(cmakeArgs, c.definesArgs()...)
	cmakeArgs = append(cmakeArgs, args...)
	return build.Step{Program: "cmake", Args: cmakeArgs, Dir: c.sourceDir}
}

// Build returns "cmake --build <build>" with optional extra arguments.
func (c *CMake) Build(args ...string) build.Step {
	cmakeArgs := []string{"--build", c.buildDir}
	if c.buildType != "" {
		cmakeArgs = append(cmakeArgs, "--config", c.buildType)
	}
	cmakeArgs = append(cmakeArgs, args...)
	return build.Step{Program: "cmake", Args: cmakeArgs, Dir: c.sourceDir}
}

// Install returns "cmake --install <build>" with optional extra arguments.
func (c *CMake) Install(args ...string) build.Step {
	cmakeArgs := []string{"--install", c.buildDir}
	if c.installDir != "" {
		cmakeArgs = append(cmakeArgs, "--prefix", c.installDir)
	}
	cmakeArgs = append(cmakeArgs, args...)
	return build.Step{Program: "cmake", Args: cmakeArgs, Dir: c.sourceDir}
}

// Steps returns configure, a parallel build with jobs workers, and install.
func (c *CMake) Steps(jobs string) []build.Step {
	return []build.Step{
		c.Configure(),
		c.Build("--parallel", jobs),
		c.Install(),
	}
}

func (c *CMake) definesArgs() []string {
	defines := make(map[string]defineValue, len(c.defines)+4)
	for k, v := range c.defines {
		defines[k] = v
	}
	if c.installDir != "" {
		defines["CMAKE_INSTALL_PREFIX"] = defineValue{value: c.installDir, typeName: "STRING"}
	}
	if c.toolchain != "" {
		defines["CMAKE_TOOLCHAIN_FILE"] = defineValue{value: c.toolchain, typeName: "STRING"}
	}
	if c.buildType != "" {
		defines["CMAKE_BUILD_TYPE"] = defineValue{value: c.buildType, typeName: "STRING"}
	}
	if len(c.prefixPath) > 0 {
		defines["CMAKE_PREFIX_PATH"] = defineValue{value: strings.Join(c.prefixPath, ";"), typeName: "STRING"}
	}
	if len(defines) == 0 {
		return nil
	}

	keys := make([]string, 0, len(defines))
	for k := range defines {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	args := make([]string, 0, len(keys))
	for _, k := range keys {
		d := defines[k]
		args = append(args, "-D"+k+":"+d.typeName+"="+d.value)
	}
	return args
}
