//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// ModuleInfoBuilder helps create test coordinates with a fluent interface.
type ModuleInfoBuilder struct {
	*testkit.BaseBuilder
	groupID    string
	artifactID string
	version    string
}

// NewModuleInfoBuilder creates a new coordinate builder with sensible defaults.
func NewModuleInfoBuilder() *ModuleInfoBuilder {
	return &ModuleInfoBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		groupID:     "com.acme.core",
		artifactID:  "test-artifact",
		version:     "1.0.0",
	}
}

// WithGroupID sets the group id.
func (b *ModuleInfoBuilder) WithGroupID(groupID string) *ModuleInfoBuilder {
	b.groupID = groupID
	return b
}

// WithArtifactID sets the artifact id.
func (b *ModuleInfoBuilder) WithArtifactID(artifactID string) *ModuleInfoBuilder {
	b.artifactID = artifactID
	return b
}

// WithVersion sets the version.
func (b *ModuleInfoBuilder) WithVersion(version string) *ModuleInfoBuilder {
	b.version = version
	return b
}

// Build creates the coordinate (satisfies testkit.Builder interface).
func (b *ModuleInfoBuilder) Build() interface{} {
	return b.BuildModuleInfo()
}

// BuildModuleInfo creates the coordinate with a concrete return type.
func (b *ModuleInfoBuilder) BuildModuleInfo() entities.ModuleInfo {
	return entities.NewModuleInfo(b.groupID, b.artifactID, b.version)
}

// Reset clears the builder state, allowing it to be reused.
func (b *ModuleInfoBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.groupID = "com.acme.core"
	b.artifactID = "test-artifact"
	b.version = "1.0.0"
	return b
}

// Clone creates a deep copy of the ModuleInfoBuilder.
func (b *ModuleInfoBuilder) Clone() testkit.Builder {
	return &ModuleInfoBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		groupID:     b.groupID,
		artifactID:  b.artifactID,
		version:     b.version,
	}
}
