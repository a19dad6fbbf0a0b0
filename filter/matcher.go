// Package filter implements the five token-level entry filters —
// packEntry, omitEntry, selectEntry, injectEntry, and objectSieve — built
// on top of the assemble and token packages (spec §4.5–§4.9).
package filter

import "regexp"

// KeyMatcher tests a joined key path (token.StackKeyTracker.Path) against
// either a literal string or a regular expression (spec §4.5: "each
// filter is a literal string compared against the joined path, or a
// regular expression matched against it").
type KeyMatcher struct {
	literal string
	re      *regexp.Regexp
}

// Literal returns a KeyMatcher that matches a path by exact string
// comparison.
func Literal(path string) KeyMatcher {
	return KeyMatcher{literal: path}
}

// Regexp returns a KeyMatcher that matches a path against re.
func Regexp(re *regexp.Regexp) KeyMatcher {
	return KeyMatcher{re: re}
}

// MustRegexp compiles pattern and returns a KeyMatcher for it. It panics
// if pattern does not compile, matching the configuration-time-only use
// this constructor is meant for.
func MustRegexp(pattern string) KeyMatcher {
	return Regexp(regexp.MustCompile(pattern))
}

func (m KeyMatcher) Match(path string) bool {
	if m.re != nil {
		return m.re.MatchString(path)
	}
	return m.literal == path
}

// Pattern returns the textual source of the matcher (the literal string,
// or the regular expression's source), for recording on a Matcher record.
func (m KeyMatcher) Pattern() string {
	if m.re != nil {
		return m.re.String()
	}
	return m.literal
}

// FirstMatch returns the index of the first entry of matchers that accepts
// path, and whether there was one, trying each in order (spec §4.5: "filters are
// tested in the order supplied; the first match wins").
func FirstMatch(path string, matchers []KeyMatcher) (index int, ok bool) {
	for i, m := range matchers {
		if m.Match(path) {
			return i, true
		}
	}
	return 0, false
}
