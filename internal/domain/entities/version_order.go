package entities

import (
	"sort"
	"strings"

	mm "github.com/Masterminds/semver/v3"
	"golang.org/x/mod/semver"
)

// SortVersionsDescending orders declared version labels newest first.
// Labels are compared with golang.org/x/mod ordering when both are canonical,
// with Masterminds coercion for looser shapes such as "01.2", and with plain
// string ordering otherwise. A parseable label sorts before one that is not.
func SortVersionsDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return compareVersions(versions[i], versions[j]) > 0
	})
}

// LatestVersion returns the newest label, or "" for an empty list.
func LatestVersion(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	sorted := make([]string, len(versions))
	copy(sorted, versions)
	SortVersionsDescending(sorted)
	return sorted[0]
}

func compareVersions(a, b string) int {
	na, nb := normalizeVersion(a), normalizeVersion(b)
	if semver.IsValid(na) && semver.IsValid(nb) {
		return semver.Compare(na, nb)
	}

	va, errA := mm.NewVersion(a)
	vb, errB := mm.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

func normalizeVersion(version string) string {
	if strings.HasPrefix(version, "v") {
		return version
	}
	return "v" + version
}
