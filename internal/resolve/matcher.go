package resolve

import "strings"

// TagMatcher selects release refs by a fixed prefix and suffix, e.g.
// "refs/tags/Release_" and "^{}". The text between them is the version.
type TagMatcher struct {
	Prefix string `mapstructure:"prefix" yaml:"prefix"`
	Suffix string `mapstructure:"suffix" yaml:"suffix,omitempty"`
}

// Strip returns the version substring of name and whether name matches.
func (m TagMatcher) Strip(name string) (string, bool) {
	if len(name) <= len(m.Prefix)+len(m.Suffix) {
		return "", false
	}
	if !strings.HasPrefix(name, m.Prefix) || !strings.HasSuffix(name, m.Suffix) {
		return "", false
	}
	return name[len(m.Prefix) : len(name)-len(m.Suffix)], true
}

// Join rebuilds the ref name for version.
func (m TagMatcher) Join(version string) string {
	return m.Prefix + version + m.Suffix
}
