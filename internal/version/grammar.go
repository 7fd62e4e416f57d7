// Copyright 2024 The depend Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Kind selects how a Grammar reads a version string.
type Kind string

const (
	// Delimited splits on a single delimiter into any number of integers,
	// e.g. "1_9_8" -> [1 9 8].
	Delimited Kind = "delimited"
	// Dotted reads "major.minor[.patch][<marker>N]", e.g. "2.16rc2".
	Dotted Kind = "dotted"
	// Semver reads semantic versions, e.g. "v1.4.0-beta.1". Prereleases
	// order by semver precedence; build metadata is ignored.
	Semver Kind = "semver"
)

const (
	defaultDelimiter = "_"
	defaultMarker    = "rc"
)

// Grammar is a declarative description of a package's version naming.
// The zero values of Delimiter and Marker select "_" and "rc".
type Grammar struct {
	Kind      Kind   `mapstructure:"kind" yaml:"kind"`
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter,omitempty"`
	Marker    string `mapstructure:"marker" yaml:"marker,omitempty"`
}

// ParseError reports a tag that does not follow its package's grammar.
type ParseError struct {
	Tag    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse version %q: %s", e.Tag, e.Reason)
}

// Validate checks that g names a known kind.
func (g Grammar) Validate() error {
	switch g.Kind {
	case Delimited, Dotted, Semver:
		return nil
	case "":
		return fmt.Errorf("grammar kind is empty")
	default:
		return fmt.Errorf("unknown grammar kind %q", g.Kind)
	}
}

// Parse parses tag into a Key. Parsing is a pure function of tag and g.
func (g Grammar) Parse(tag string) (Key, error) {
	switch g.Kind {
	case Delimited:
		return g.parseDelimited(tag)
	case Dotted:
		return g.parseDotted(tag)
	case Semver:
		return parseSemver(tag)
	default:
		return nil, &ParseError{Tag: tag, Reason: fmt.Sprintf("unknown grammar kind %q", g.Kind)}
	}
}

func (g Grammar) delimiter() string {
	if g.Delimiter == "" {
		return defaultDelimiter
	}
	return g.Delimiter
}

func (g Grammar) marker() string {
	if g.Marker == "" {
		return defaultMarker
	}
	return g.Marker
}

func (g Grammar) parseDelimited(tag string) (Key, error) {
	if tag == "" {
		return nil, &ParseError{Tag: tag, Reason: "empty version"}
	}
	fields := strings.Split(tag, g.delimiter())
	key := make(Key, 0, len(fields))
	for i, f := range fields {
		n, err := parseField(f)
		if err != nil {
			return nil, &ParseError{Tag: tag, Reason: fmt.Sprintf("field %d: %v", i+1, err)}
		}
		key = append(key, n)
	}
	return key, nil
}

// parseDotted reads major.minor[.patch][markerN]. The resulting key is
// [major minor patch final rc], where final is 1 for an unmarked release,
// so a release sorts after all of its own candidates.
func (g Grammar) parseDotted(tag string) (Key, error) {
	rest := tag
	var (
		nums  [3]uint64
		count int
	)
	for count < len(nums) {
		digits := leadingDigits(rest)
		if digits == "" {
			break
		}
		n, err := parseField(digits)
		if err != nil {
			return nil, &ParseError{Tag: tag, Reason: err.Error()}
		}
		nums[count] = n
		count++
		rest = rest[len(digits):]
		if count == len(nums) || !strings.HasPrefix(rest, ".") {
			break
		}
		rest = rest[1:]
		if leadingDigits(rest) == "" {
			return nil, &ParseError{Tag: tag, Reason: "empty field after '.'"}
		}
	}
	if count < 2 {
		return nil, &ParseError{Tag: tag, Reason: "want at least major.minor"}
	}

	final, rc := uint64(1), uint64(0)
	if rest != "" {
		marker := g.marker()
		after, ok := strings.CutPrefix(rest, marker)
		if !ok {
			return nil, &ParseError{Tag: tag, Reason: fmt.Sprintf("unexpected %q", rest)}
		}
		final = 0
		if after != "" {
			n, err := parseField(after)
			if err != nil {
				return nil, &ParseError{Tag: tag, Reason: fmt.Sprintf("%s number: %v", marker, err)}
			}
			rc = n
		}
	}
	return Key{nums[0], nums[1], nums[2], final, rc}, nil
}

func parseSemver(tag string) (Key, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return nil, &ParseError{Tag: tag, Reason: err.Error()}
	}
	pre := v.Prerelease()
	if pre == "" {
		return Key{v.Major(), v.Minor(), v.Patch(), 1}, nil
	}
	key := Key{v.Major(), v.Minor(), v.Patch(), 0}
	for _, id := range strings.Split(pre, ".") {
		key = appendIdentifier(key, id)
	}
	return key, nil
}

// Prerelease identifier tags. A missing identifier reads as zero, so a
// shorter prerelease sorts before a longer one it prefixes.
const (
	numericID      = 1
	alphanumericID = 2
)

// appendIdentifier encodes one prerelease identifier so that keys order
// the way semver precedence does: numeric identifiers compare by value
// and sort before alphanumeric ones, which compare byte-wise. Each byte
// is stored plus one and the identifier ends with a zero.
func appendIdentifier(key Key, id string) Key {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return append(key, numericID, n)
	}
	key = append(key, alphanumericID)
	for i := 0; i < len(id); i++ {
		key = append(key, uint64(id[i])+1)
	}
	return append(key, 0)
}

func parseField(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty field")
	}
	if leadingDigits(s) != s {
		return 0, fmt.Errorf("non-digit in %q", s)
	}
	return strconv.ParseUint(s, 10, 64)
}

func leadingDigits(s string) string {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return s[:i]
}
