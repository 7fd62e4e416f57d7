// Package build runs a package's build steps in order and places its
// artifacts.
package build

import "strings"

// Step is one external command of a build. Every step must succeed.
type Step struct {
	Program string   `mapstructure:"program" yaml:"program"`
	Args    []string `mapstructure:"args" yaml:"args,omitempty"`
	// Dir is the working directory. Empty means the source tree.
	Dir string `mapstructure:"dir" yaml:"dir,omitempty"`
	// Env holds KEY=VALUE entries that override the inherited environment.
	Env []string `mapstructure:"env" yaml:"env,omitempty"`
}

func (s Step) String() string {
	return strings.Join(append([]string{s.Program}, s.Args...), " ")
}

// Artifact is a file copied into the bin directory after all steps ran.
type Artifact struct {
	// Src is relative to the source tree.
	Src string `mapstructure:"src" yaml:"src"`
	// Dst is relative to the bin directory. Empty means the base name of Src.
	Dst string `mapstructure:"dst" yaml:"dst,omitempty"`
}

// Plan is a fully expanded build: no placeholders remain.
type Plan struct {
	SourceDir string
	BinDir    string
	Steps     []Step
	Artifacts []Artifact
}
