package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// LatestValue is the version sentinel accepted only with "==".
const LatestValue = "latest"

// ErrInvalidSearch wraps every rejection of a search expression.
var ErrInvalidSearch = errors.New("invalid search")

// SearchItem is one version constraint of a search.
type SearchItem struct {
	Operator Operator
	Version  *SemVer // nil when Latest is set
	Latest   bool
}

// Matches reports whether a declared version label satisfies the constraint.
// latestLabel is the newest label known for the same dependency and is only
// consulted for "==latest". Labels that are not valid semver never match.
func (s SearchItem) Matches(label, latestLabel string) bool {
	if s.Latest {
		return latestLabel != "" && label == latestLabel
	}
	if s.Version == nil || !IsValidSemver(label) {
		return false
	}
	return Compare(NewSemVer(label), s.Operator, *s.Version)
}

func (s SearchItem) String() string {
	if s.Latest {
		return s.Operator.String() + LatestValue
	}
	if s.Version == nil {
		return s.Operator.String()
	}
	return s.Operator.String() + s.Version.String()
}

type searchItemJSON struct {
	Operator Operator `json:"operator"`
	Version  string   `json:"version"`
}

// MarshalJSON renders {"operator": ">=", "version": "1.2.0"}.
func (s SearchItem) MarshalJSON() ([]byte, error) {
	item := searchItemJSON{Operator: s.Operator, Version: LatestValue}
	if !s.Latest && s.Version != nil {
		item.Version = s.Version.String()
	}
	return json.Marshal(item)
}

// Search is a parsed query: at most one merged free-text pattern and the
// version constraints in declaration order.
type Search struct {
	Raw      string       `json:"raw"`
	Patterns []string     `json:"patterns"`
	Versions []SearchItem `json:"versions"`

	matcher *regexp.Regexp
}

// ParseSearch tokenizes raw on single spaces. Tokens containing an operator
// become version constraints, everything else is a free-text pattern. Any
// malformed constraint rejects the whole query.
//
// Empty tokens from leading, trailing or doubled spaces are dropped rather
// than kept as an empty pattern, which would make the merged pattern match
// every node id.
func ParseSearch(raw string) (*Search, error) {
	search := &Search{
		Raw:      raw,
		Patterns: []string{},
		Versions: []SearchItem{},
	}

	for _, part := range strings.Split(raw, " ") {
		if part == "" {
			continue
		}

		splitIdx := findLastIndexOfOperator(part)
		if splitIdx < 0 {
			search.Patterns = append(search.Patterns, part)
			continue
		}

		item, err := parseSearchItem(part[:splitIdx+1], part[splitIdx+1:])
		if err != nil {
			return nil, err
		}
		search.Versions = append(search.Versions, item)
	}

	search.mergePatterns()
	return search, nil
}

func parseSearchItem(rawOperator, version string) (SearchItem, error) {
	operator, err := ParseOperator(rawOperator)
	if err != nil {
		return SearchItem{}, fmt.Errorf("%w: input '%s' is not valid", ErrInvalidSearch, rawOperator)
	}

	if version == LatestValue {
		if operator != OperatorEqual {
			return SearchItem{}, fmt.Errorf(
				"%w: input '%s' can only be used with operator '=='", ErrInvalidSearch, version,
			)
		}
		return SearchItem{Operator: operator, Latest: true}, nil
	}

	semver, err := ParseSemVer(version)
	if err != nil {
		return SearchItem{}, fmt.Errorf("%w: input '%s' is not a valid semver", ErrInvalidSearch, version)
	}
	return SearchItem{Operator: operator, Version: &semver}, nil
}

// mergePatterns folds all free-text patterns into one ".*(a|b).*" expression.
func (s *Search) mergePatterns() {
	if len(s.Patterns) == 0 {
		return
	}

	quoted := make([]string, 0, len(s.Patterns))
	for _, pattern := range s.Patterns {
		quoted = append(quoted, regexp.QuoteMeta(pattern))
	}
	merged := ".*(" + strings.Join(quoted, "|") + ").*"

	s.Patterns = []string{merged}
	s.matcher = regexp.MustCompile("^" + merged + "$")
}

// Matches reports whether id matches the merged pattern. A search without
// free text matches everything.
func (s *Search) Matches(id string) bool {
	if s.matcher == nil {
		return true
	}
	return s.matcher.MatchString(id)
}

// HasPattern reports whether the query carried free text.
func (s *Search) HasPattern() bool {
	return s.matcher != nil
}
