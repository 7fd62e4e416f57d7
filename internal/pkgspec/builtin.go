package pkgspec

import (
	"github.com/arsenez2006/depend/internal/build"
	"github.com/arsenez2006/depend/internal/resolve"
	"github.com/arsenez2006/depend/internal/version"
)

// Builtins returns the packages depend knows without configuration.
func Builtins() []Spec {
	return []Spec{doxygen(), nasm()}
}

func doxygen() Spec {
	return Spec{
		Name:        "doxygen",
		Description: "Documentation generator for C, C++ and other languages",
		Remote:      "https://github.com/doxygen/doxygen.git",
		Tags:        resolve.TagMatcher{Prefix: "refs/tags/Release_", Suffix: "^{}"},
		Grammar:     version.Grammar{Kind: version.Delimited, Delimiter: "_"},
		CMake: &CMakeTemplate{
			Generator: "Unix Makefiles",
			BuildType: "Release",
		},
	}
}

func nasm() Spec {
	return Spec{
		Name:        "nasm",
		Description: "The Netwide Assembler",
		Remote:      "https://github.com/netwide-assembler/nasm.git",
		Tags:        resolve.TagMatcher{Prefix: "refs/tags/nasm-", Suffix: "^{}"},
		Grammar:     version.Grammar{Kind: version.Dotted, Marker: "rc"},
		AutoTools:   &AutoToolsTemplate{Bootstrap: "autogen.sh"},
		Artifacts: []build.Artifact{
			{Src: "nasm", Dst: "nasm"},
			{Src: "ndisasm", Dst: "ndisasm"},
		},
	}
}
