//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"
	"strings"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/pomgraph/internal/domain/entities"
)

// PomDocumentBuilder renders pom.xml documents for parser and pipeline tests.
// Empty coordinate parts are left out of the document.
type PomDocumentBuilder struct {
	*testkit.BaseBuilder
	self         entities.ModuleInfo
	packaging    string
	parent       *entities.ModuleInfo
	properties   [][2]string
	modules      []string
	dependencies []entities.ModuleInfo
	managed      []entities.ModuleInfo
}

// NewPomDocumentBuilder creates a builder for a minimal jar module.
func NewPomDocumentBuilder() *PomDocumentBuilder {
	return &PomDocumentBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		self:        entities.NewModuleInfo("com.acme.core", "test-artifact", "1.0.0"),
	}
}

// WithSelf sets the module coordinate.
func (b *PomDocumentBuilder) WithSelf(groupID, artifactID, version string) *PomDocumentBuilder {
	b.self = entities.NewModuleInfo(groupID, artifactID, version)
	return b
}

// WithPackaging sets <packaging>.
func (b *PomDocumentBuilder) WithPackaging(packaging string) *PomDocumentBuilder {
	b.packaging = packaging
	return b
}

// WithParent sets the <parent> coordinate.
func (b *PomDocumentBuilder) WithParent(groupID, artifactID, version string) *PomDocumentBuilder {
	parent := entities.NewModuleInfo(groupID, artifactID, version)
	b.parent = &parent
	return b
}

// WithProperty appends a <properties> entry, in call order.
func (b *PomDocumentBuilder) WithProperty(key, value string) *PomDocumentBuilder {
	b.properties = append(b.properties, [2]string{key, value})
	return b
}

// WithModule appends a <module>.
func (b *PomDocumentBuilder) WithModule(name string) *PomDocumentBuilder {
	b.modules = append(b.modules, name)
	return b
}

// WithDependency appends a <dependency>.
func (b *PomDocumentBuilder) WithDependency(groupID, artifactID, version string) *PomDocumentBuilder {
	b.dependencies = append(b.dependencies, entities.NewModuleInfo(groupID, artifactID, version))
	return b
}

// WithManagedDependency appends a <dependency> below <dependencyManagement>.
func (b *PomDocumentBuilder) WithManagedDependency(groupID, artifactID, version string) *PomDocumentBuilder {
	b.managed = append(b.managed, entities.NewModuleInfo(groupID, artifactID, version))
	return b
}

// Build creates the document (satisfies testkit.Builder interface).
func (b *PomDocumentBuilder) Build() interface{} {
	return b.BuildXML()
}

// BuildXML renders the document.
func (b *PomDocumentBuilder) BuildXML() string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	sb.WriteString(`<project xmlns="http://maven.apache.org/POM/4.0.0">` + "\n")
	sb.WriteString("  <modelVersion>4.0.0</modelVersion>\n")

	if b.parent != nil {
		sb.WriteString("  <parent>\n")
		writeCoordinate(&sb, *b.parent, "    ")
		sb.WriteString("  </parent>\n")
	}
	writeCoordinate(&sb, b.self, "  ")
	writeElement(&sb, "  ", "packaging", b.packaging)

	if len(b.properties) > 0 {
		sb.WriteString("  <properties>\n")
		for _, property := range b.properties {
			writeElement(&sb, "    ", property[0], property[1])
		}
		sb.WriteString("  </properties>\n")
	}

	if len(b.modules) > 0 {
		sb.WriteString("  <modules>\n")
		for _, module := range b.modules {
			writeElement(&sb, "    ", "module", module)
		}
		sb.WriteString("  </modules>\n")
	}

	if len(b.managed) > 0 {
		sb.WriteString("  <dependencyManagement>\n")
		writeDependencies(&sb, b.managed, "    ")
		sb.WriteString("  </dependencyManagement>\n")
	}
	if len(b.dependencies) > 0 {
		writeDependencies(&sb, b.dependencies, "  ")
	}

	sb.WriteString("</project>\n")
	return sb.String()
}

// Reset clears the builder state, allowing it to be reused.
func (b *PomDocumentBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.self = entities.NewModuleInfo("com.acme.core", "test-artifact", "1.0.0")
	b.packaging = ""
	b.parent = nil
	b.properties = nil
	b.modules = nil
	b.dependencies = nil
	b.managed = nil
	return b
}

// Clone creates a deep copy of the PomDocumentBuilder.
func (b *PomDocumentBuilder) Clone() testkit.Builder {
	clone := &PomDocumentBuilder{
		BaseBuilder:  b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		self:         b.self,
		packaging:    b.packaging,
		properties:   append([][2]string(nil), b.properties...),
		modules:      append([]string(nil), b.modules...),
		dependencies: append([]entities.ModuleInfo(nil), b.dependencies...),
		managed:      append([]entities.ModuleInfo(nil), b.managed...),
	}
	if b.parent != nil {
		parent := *b.parent
		clone.parent = &parent
	}
	return clone
}

func writeDependencies(sb *strings.Builder, dependencies []entities.ModuleInfo, indent string) {
	sb.WriteString(indent + "<dependencies>\n")
	for _, dependency := range dependencies {
		sb.WriteString(indent + "  <dependency>\n")
		writeCoordinate(sb, dependency, indent+"    ")
		sb.WriteString(indent + "  </dependency>\n")
	}
	sb.WriteString(indent + "</dependencies>\n")
}

func writeCoordinate(sb *strings.Builder, info entities.ModuleInfo, indent string) {
	writeElement(sb, indent, "groupId", info.GroupID)
	writeElement(sb, indent, "artifactId", info.ArtifactID)
	writeElement(sb, indent, "version", info.Version)
}

func writeElement(sb *strings.Builder, indent, tag, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(sb, "%s<%s>%s</%s>\n", indent, tag, value, tag)
}
