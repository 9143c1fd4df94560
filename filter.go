// SPDX-License-Identifier: Zlib
// Copyright (c) 2026 Mark Adler
// Source: github.com/madler/zipclean

package zipclean

import (
	"fmt"
	"path"
	"strings"

	"github.com/woozymasta/pathrules"
)

// fixMatcher holds compiled entry selection rules.
type fixMatcher struct {
	matcher *pathrules.Matcher
}

// newFixMatcher compiles entry selection rules. A nil result means no rules
// were given and every entry is eligible.
func newFixMatcher(rules []pathrules.Rule, opts pathrules.MatcherOptions) (*fixMatcher, error) {
	rules = normalizeFixRules(rules)
	if len(rules) == 0 {
		return nil, nil
	}

	matcher, err := pathrules.NewMatcher(rules, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: compile rules: %w", ErrInvalidFixRules, err)
	}

	return &fixMatcher{matcher: matcher}, nil
}

// normalizeFixRules normalizes rule patterns and drops empty patterns.
func normalizeFixRules(rules []pathrules.Rule) []pathrules.Rule {
	normalized := make([]pathrules.Rule, 0, len(rules))
	for _, rule := range rules {
		pattern := normalizeMatchPath(rule.Pattern)
		if pattern == "" {
			continue
		}

		normalized = append(normalized, pathrules.Rule{
			Action:  rule.Action,
			Pattern: pattern,
		})
	}

	return normalized
}

// Match reports whether an entry name is selected for correction. Matching
// happens in a normalized slash-separated namespace; the raw name bytes
// written back to the archive are never affected by this normalization.
func (m *fixMatcher) Match(name string) bool {
	if m == nil || m.matcher == nil {
		return true
	}

	candidate := normalizeMatchPath(name)
	if candidate == "" {
		return false
	}

	return m.matcher.Included(candidate, false)
}

// normalizeMatchPath converts a raw entry name or rule pattern to the
// normalized form used for matching: slash separators, no leading "/" or
// "./", "." segments cleaned away.
func normalizeMatchPath(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, `\`, "/")
	raw = strings.TrimPrefix(raw, "./")
	raw = strings.TrimPrefix(raw, "/")
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return strings.TrimSuffix(raw, "/")
}
