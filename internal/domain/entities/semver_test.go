//go:build unit

package entities_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

func TestIsValidSemver(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "1.2.3", want: true},
		{raw: "1.2.3-rc1", want: true},
		{raw: "10.20.30.Final", want: true},
		{raw: "1.2", want: false},
		{raw: "v1.2.3", want: false},
		{raw: "1.2.3 beta", want: false},
		{raw: "latest", want: false},
		{raw: "", want: false},
	}

	for _, tt := range tests {
		t.Run("should validate '"+tt.raw+"'", func(t *testing.T) {
			t.Parallel()

			// when
			got := entities.IsValidSemver(tt.raw)

			// then
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSemVer(t *testing.T) {
	t.Parallel()

	t.Run("should strip and keep a prefix", func(t *testing.T) {
		t.Parallel()

		// when
		version := entities.NewSemVer("v1.2.3")

		// then
		assert.Equal(t, entities.SemVer{Prefix: "v", Major: 1, Minor: 2, Patch: 3}, version)
		assert.Equal(t, "v1.2.3", version.String())
		assert.Equal(t, "1.2.3", version.Render(false))
	})

	t.Run("should default missing components to zero", func(t *testing.T) {
		t.Parallel()

		// when
		version := entities.NewSemVer("4")

		// then
		assert.Equal(t, entities.SemVer{Major: 4}, version)
	})

	t.Run("should drop trailing text after the patch number", func(t *testing.T) {
		t.Parallel()

		// when
		version := entities.NewSemVer("1.2.3-rc1.4")

		// then
		assert.Equal(t, "1.2.3", version.String())
	})

	t.Run("should reject invalid strings when parsing strictly", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.ParseSemVer("1.2")

		// then
		require.ErrorIs(t, err, entities.ErrInvalidVersion)
	})
}

// legacyIsGreaterThan reproduces the historical comparison that checked the
// minor number against the other major before comparing minors.
func legacyIsGreaterThan(left, right entities.SemVer) bool {
	if left.Major != right.Major {
		return left.Major > right.Major
	}
	if left.Minor != right.Major {
		return left.Minor > right.Minor
	}
	if left.Patch != right.Patch {
		return left.Patch > right.Patch
	}
	return false
}

func TestSemVerIsGreaterThan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		left, right string
		want        bool
		legacy      bool
	}{
		{left: "2.0.0", right: "1.9.9", want: true, legacy: true},
		{left: "1.3.0", right: "1.2.9", want: true, legacy: true},
		{left: "1.2.4", right: "1.2.3", want: true, legacy: false},
		{left: "1.2.5", right: "1.2.0", want: true, legacy: false},
		{left: "2.2.0", right: "2.0.0", want: true, legacy: false},
		{left: "1.1.1", right: "1.1.0", want: true, legacy: true},
		{left: "1.2.0", right: "1.2.0", want: false, legacy: false},
		{left: "1.0.0", right: "1.2.0", want: false, legacy: false},
	}

	for _, tt := range tests {
		t.Run("should compare "+tt.left+" > "+tt.right, func(t *testing.T) {
			t.Parallel()

			// given
			left, right := entities.NewSemVer(tt.left), entities.NewSemVer(tt.right)

			// when
			got := left.IsGreaterThan(right)

			// then
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.legacy, legacyIsGreaterThan(left, right))
		})
	}
}

func TestSemVerComparisons(t *testing.T) {
	t.Parallel()

	t.Run("should report equal versions as smaller", func(t *testing.T) {
		t.Parallel()

		// given
		left, right := entities.NewSemVer("1.2.0"), entities.NewSemVer("1.2.0")

		// when
		smaller := left.IsSmallerThan(right)

		// then
		assert.True(t, smaller)
		assert.False(t, left.IsGreaterThan(right))
	})

	t.Run("should ignore the prefix only when asked to", func(t *testing.T) {
		t.Parallel()

		// given
		left, right := entities.NewSemVer("v1.2.0"), entities.NewSemVer("1.2.0")

		// when
		withPrefix := left.IsEqualTo(right, true)
		withoutPrefix := left.IsEqualTo(right, false)

		// then
		assert.False(t, withPrefix)
		assert.True(t, withoutPrefix)
		assert.True(t, left.IsNotEqualTo(right, true))
	})

	t.Run("should treat equality as greater or equal", func(t *testing.T) {
		t.Parallel()

		// when
		got := entities.Compare(
			entities.NewSemVer("1.2.0"), entities.OperatorGreaterOrEqual, entities.NewSemVer("1.2.0"),
		)

		// then
		assert.True(t, got)
	})

	tests := []struct {
		left     string
		operator string
		right    string
		want     bool
	}{
		{left: "1.2.0", operator: "==", right: "1.2.0", want: true},
		{left: "1.2.0", operator: "!=", right: "1.2.0", want: false},
		{left: "1.2.0", operator: "=!", right: "1.3.0", want: true},
		{left: "1.3.0", operator: "=>", right: "1.2.0", want: true},
		{left: "1.1.0", operator: "<=", right: "1.2.0", want: true},
		{left: "1.2.0", operator: "=<", right: "1.2.0", want: true},
		{left: "1.3.0", operator: ">", right: "1.2.0", want: true},
		{left: "1.3.0", operator: "<", right: "1.2.0", want: false},
	}

	for _, tt := range tests {
		t.Run("should evaluate "+tt.left+" "+tt.operator+" "+tt.right, func(t *testing.T) {
			t.Parallel()

			// given
			operator, err := entities.ParseOperator(tt.operator)
			require.NoError(t, err)

			// when
			got := entities.Compare(entities.NewSemVer(tt.left), operator, entities.NewSemVer(tt.right))

			// then
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOperator(t *testing.T) {
	t.Parallel()

	t.Run("should map synonyms to their canonical operator", func(t *testing.T) {
		t.Parallel()

		// when
		notEqual, errNotEqual := entities.ParseOperator("=!")
		greaterOrEqual, errGreaterOrEqual := entities.ParseOperator("=>")
		smallerOrEqual, errSmallerOrEqual := entities.ParseOperator("=<")

		// then
		require.NoError(t, errNotEqual)
		require.NoError(t, errGreaterOrEqual)
		require.NoError(t, errSmallerOrEqual)
		assert.Equal(t, "!=", notEqual.String())
		assert.Equal(t, ">=", greaterOrEqual.String())
		assert.Equal(t, "<=", smallerOrEqual.String())
	})

	t.Run("should reject unknown tokens", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.ParseOperator("~=")

		// then
		require.ErrorIs(t, err, entities.ErrInvalidOperator)
		assert.False(t, entities.IsOperator("<<"))
	})

	t.Run("should round-trip through JSON text", func(t *testing.T) {
		t.Parallel()

		// given
		var operator entities.Operator

		// when
		err := json.Unmarshal([]byte(`"=>"`), &operator)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.OperatorGreaterOrEqual, operator)
		data, marshalErr := json.Marshal(operator)
		require.NoError(t, marshalErr)
		assert.JSONEq(t, `">="`, string(data))
	})
}
