package entities

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidOperator is returned for tokens outside the operator table.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrInvalidVersion is returned for strings that are not major.minor.patch.
	ErrInvalidVersion = errors.New("invalid semver")

	semverPattern = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+(\S+)?$`)
)

// Operator is one of the six version comparisons.
type Operator int

const (
	OperatorEqual Operator = iota + 1
	OperatorNotEqual
	OperatorGreaterOrEqual
	OperatorSmallerOrEqual
	OperatorGreater
	OperatorSmaller
)

// operatorTokens is the recognized token table. Its order drives operator
// detection in search tokens and must not change.
var operatorTokens = []struct {
	token    string
	operator Operator
}{
	{"==", OperatorEqual},
	{"!=", OperatorNotEqual},
	{"=!", OperatorNotEqual},
	{"=>", OperatorGreaterOrEqual},
	{">=", OperatorGreaterOrEqual},
	{"<=", OperatorSmallerOrEqual},
	{"=<", OperatorSmallerOrEqual},
	{">", OperatorGreater},
	{"<", OperatorSmaller},
}

// ParseOperator maps a token (synonyms included) to its Operator.
func ParseOperator(token string) (Operator, error) {
	for _, entry := range operatorTokens {
		if entry.token == token {
			return entry.operator, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOperator, token)
}

// IsOperator reports whether token is in the operator table.
func IsOperator(token string) bool {
	_, err := ParseOperator(token)
	return err == nil
}

// String returns the canonical token.
func (o Operator) String() string {
	switch o {
	case OperatorEqual:
		return "=="
	case OperatorNotEqual:
		return "!="
	case OperatorGreaterOrEqual:
		return ">="
	case OperatorSmallerOrEqual:
		return "<="
	case OperatorGreater:
		return ">"
	case OperatorSmaller:
		return "<"
	default:
		return "operator(" + strconv.Itoa(int(o)) + ")"
	}
}

// MarshalText renders the canonical token.
func (o Operator) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText accepts any token of the operator table.
func (o *Operator) UnmarshalText(text []byte) error {
	parsed, err := ParseOperator(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// findLastIndexOfOperator locates the split point of a search token: the
// first operator of the table found in the token decides which character is
// searched, and its last occurrence is returned. -1 means no operator.
func findLastIndexOfOperator(token string) int {
	for _, entry := range operatorTokens {
		if !strings.Contains(token, entry.token) {
			continue
		}
		idxChar := entry.token
		if len(entry.token) > 1 {
			idxChar = entry.token[1:2]
		}
		return strings.LastIndex(token, idxChar)
	}
	return -1
}

// SemVer is a parsed major.minor.patch version with an optional prefix such as "v".
// Anything after the patch number is tolerated but not kept.
type SemVer struct {
	Prefix string
	Major  int
	Minor  int
	Patch  int
}

// NewSemVer parses raw leniently: a leading non-digit prefix is stripped and
// stored, missing or non-numeric components become 0.
func NewSemVer(raw string) SemVer {
	raw = strings.TrimSpace(raw)
	idx := strings.IndexFunc(raw, unicode.IsDigit)
	if idx < 0 {
		idx = len(raw)
	}

	version := SemVer{Prefix: raw[:idx]}
	parts := strings.Split(raw[idx:], ".")
	components := []*int{&version.Major, &version.Minor, &version.Patch}
	for i, target := range components {
		if i >= len(parts) {
			break
		}
		*target = leadingNumber(parts[i])
	}
	return version
}

// ParseSemVer validates raw with IsValidSemver before parsing it.
func ParseSemVer(raw string) (SemVer, error) {
	if !IsValidSemver(raw) {
		return SemVer{}, fmt.Errorf("%w: %q", ErrInvalidVersion, raw)
	}
	return NewSemVer(raw), nil
}

// IsValidSemver reports whether the whole string is major.minor.patch
// optionally followed by non-space text (e.g. "1.2.3-rc1").
func IsValidSemver(raw string) bool {
	return semverPattern.MatchString(raw)
}

func leadingNumber(part string) int {
	end := strings.IndexFunc(part, func(r rune) bool { return !unicode.IsDigit(r) })
	if end < 0 {
		end = len(part)
	}
	n, err := strconv.Atoi(part[:end])
	if err != nil {
		return 0
	}
	return n
}

// Render returns prefix?major.minor.patch.
func (v SemVer) Render(includePrefix bool) string {
	base := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if includePrefix {
		return v.Prefix + base
	}
	return base
}

func (v SemVer) String() string {
	return v.Render(true)
}

// IsGreaterThan compares major, minor and patch numerically.
func (v SemVer) IsGreaterThan(other SemVer) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	if v.Minor != other.Minor {
		return v.Minor > other.Minor
	}
	if v.Patch != other.Patch {
		return v.Patch > other.Patch
	}
	return false
}

// IsSmallerThan is the negation of IsGreaterThan, so it also holds for equal
// versions. Check IsEqualTo separately when a strict order is needed.
func (v SemVer) IsSmallerThan(other SemVer) bool {
	return !v.IsGreaterThan(other)
}

func (v SemVer) IsEqualTo(other SemVer, includePrefix bool) bool {
	return v.Render(includePrefix) == other.Render(includePrefix)
}

func (v SemVer) IsNotEqualTo(other SemVer, includePrefix bool) bool {
	return !v.IsEqualTo(other, includePrefix)
}

func (v SemVer) IsGreaterOrEqualTo(other SemVer, includePrefix bool) bool {
	return v.IsGreaterThan(other) || v.IsEqualTo(other, includePrefix)
}

func (v SemVer) IsSmallerOrEqualTo(other SemVer, includePrefix bool) bool {
	return v.IsSmallerThan(other) || v.IsEqualTo(other, includePrefix)
}

// Compare evaluates "left operator right". Equality based comparisons include
// the prefix.
func Compare(left SemVer, operator Operator, right SemVer) bool {
	switch operator {
	case OperatorEqual:
		return left.IsEqualTo(right, true)
	case OperatorNotEqual:
		return left.IsNotEqualTo(right, true)
	case OperatorGreaterOrEqual:
		return left.IsGreaterOrEqualTo(right, true)
	case OperatorSmallerOrEqual:
		return left.IsSmallerOrEqualTo(right, true)
	case OperatorGreater:
		return left.IsGreaterThan(right)
	case OperatorSmaller:
		return left.IsSmallerThan(right)
	default:
		return false
	}
}
