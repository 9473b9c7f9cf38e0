// SPDX-License-Identifier: MPL-2.0

package plan

import (
	"fmt"
	"strings"
)

// ExtractPackages parses a manifest artifact into its package names in line
// order. Blank lines and comment lines (first non-whitespace character '#')
// are ignored; every remaining whitespace-separated token must match the
// package-name character set. One invalid token fails the whole artifact
// with ErrMalformedManifest — valid lines are discarded along with it rather
// than installing a partial, ambiguous set.
func ExtractPackages(content string) ([]string, error) {
	var packages []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, token := range strings.Fields(line) {
			if !packageNamePattern.MatchString(token) {
				return nil, fmt.Errorf("%w: invalid token %q", ErrMalformedManifest, token)
			}
			packages = append(packages, token)
		}
	}
	return packages, nil
}

// packageSet is an ordered set of package names: a slice for stable
// first-seen ordering plus a membership index for deduplication.
type packageSet struct {
	order []string
	seen  map[string]struct{}
}

func newPackageSet() *packageSet {
	return &packageSet{seen: make(map[string]struct{})}
}

// add inserts names that have not been seen before, preserving insertion
// order across calls.
func (s *packageSet) add(names ...string) {
	for _, name := range names {
		if _, ok := s.seen[name]; ok {
			continue
		}
		s.seen[name] = struct{}{}
		s.order = append(s.order, name)
	}
}

func (s *packageSet) list() []string {
	return s.order
}

// MergePackages flattens per-artifact package lists into one deduplicated
// list. Duplicates keep their first occurrence, so output order follows
// artifact arrival order and is stable across runs.
func MergePackages(lists ...[]string) []string {
	set := newPackageSet()
	for _, list := range lists {
		set.add(list...)
	}
	return set.list()
}
