package entities

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
	logger "github.com/sirupsen/logrus"
)

const (
	projectTag   = "project"
	groupTag     = "groupId"
	artifactTag  = "artifactId"
	versionTag   = "version"
	packagingTag = "packaging"

	placeholderPrefix = "${"
	placeholderSuffix = "}"
)

// POMParser extracts module identity, parent linkage, submodules and
// dependencies from one POM document. It is fail-soft: anything missing or
// malformed degrades to the configured defaults.
//
// A parser owns its document and never shares state with other parsers, so
// several documents can be parsed concurrently.
type POMParser struct {
	doc *etree.Document

	Defaults        ModuleInfo
	Properties      map[string]string
	SubModulesNames []string
	Info            POMInfo
}

// ParsePOMString reads raw XML and parses it. The only error reported is an
// XML document that is not well-formed. A document without a <project> root
// (empty input included) parses with a nil Info.Self.
func ParsePOMString(rawXML string, defaults *ModuleInfo) (*POMParser, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(rawXML); err != nil {
		return nil, fmt.Errorf("failed to read POM document: %w", err)
	}
	return NewPOMParser(doc, defaults), nil
}

// NewPOMParser parses an already loaded document. A nil defaults means
// "unknown" for every coordinate part.
func NewPOMParser(doc *etree.Document, defaults *ModuleInfo) *POMParser {
	it := &POMParser{doc: doc, Defaults: UnknownModuleInfo()}
	if defaults != nil {
		it.Defaults = *defaults
	}

	it.SubModulesNames = it.getModules()
	it.Properties = it.getProperties()

	it.Info = NewPOMInfo()
	it.Info.Packaging = it.getRootValue(packagingTag, UnknownValue)
	if root := doc.Root(); root != nil && root.Tag == projectTag {
		self := it.getInfo()
		it.Info.Self = &self
	} else {
		logger.Debug("Document has no <project> root, leaving module coordinates empty")
	}
	it.Info.Parent = it.getParentInfo()
	it.Info.Dependencies = it.getDependencies()
	it.Info.Modules = it.SubModulesNames

	return it
}

// ResolveFromProperties resolves a "${key}" placeholder against the document
// properties. Plain text is returned trimmed; empty text and unknown keys
// yield def.
func (it *POMParser) ResolveFromProperties(raw, def string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return def
	}
	if !strings.HasPrefix(value, placeholderPrefix) {
		return value
	}

	key := strings.TrimSuffix(strings.TrimPrefix(value, placeholderPrefix), placeholderSuffix)
	if resolved, ok := it.Properties[key]; ok {
		return resolved
	}
	return def
}

// getProperties collects the direct children of every <properties> element.
func (it *POMParser) getProperties() map[string]string {
	properties := make(map[string]string)
	for _, element := range it.doc.FindElements("//properties") {
		for _, child := range element.ChildElements() {
			properties[child.Tag] = strings.TrimSpace(child.Text())
		}
	}
	return properties
}

// getRootValue returns the text of the first <name> element that is a direct
// child of <project>. The same tags appear under <parent> and <dependency>,
// which must not be picked up here.
func (it *POMParser) getRootValue(name, def string) string {
	for _, element := range it.doc.FindElements("//" + name) {
		parent := element.Parent()
		if parent == nil || parent.Tag != projectTag {
			continue
		}
		return it.ResolveFromProperties(element.Text(), def)
	}
	return def
}

func (it *POMParser) getInfo() ModuleInfo {
	return NewModuleInfo(
		it.getRootValue(groupTag, it.Defaults.GroupID),
		it.getRootValue(artifactTag, it.Defaults.ArtifactID),
		it.getRootValue(versionTag, it.Defaults.Version),
	)
}

func (it *POMParser) getParentInfo() *ModuleInfo {
	parents := it.doc.FindElements("//parent")
	if len(parents) != 1 {
		logger.Debugf("Module %s has no parent", it.getInfo())
		return nil
	}
	info := it.parseRawModuleInfo(parents[0])
	return &info
}

func (it *POMParser) getModules() []string {
	elements := it.doc.FindElements("//modules")
	if len(elements) != 1 {
		return []string{}
	}

	found := make([]string, 0)
	for _, child := range elements[0].ChildElements() {
		if name := strings.TrimSpace(child.Text()); name != "" {
			found = append(found, name)
		}
	}
	return found
}

// getDependencies scans every <dependency> in the document, managed ones included.
func (it *POMParser) getDependencies() []ModuleInfo {
	elements := it.doc.FindElements("//dependency")
	dependencies := make([]ModuleInfo, 0, len(elements))
	for _, element := range elements {
		dependencies = append(dependencies, it.parseRawModuleInfo(element))
	}
	return dependencies
}

func (it *POMParser) parseRawModuleInfo(element *etree.Element) ModuleInfo {
	info := it.Defaults
	for _, child := range element.ChildElements() {
		switch child.Tag {
		case groupTag:
			info.GroupID = it.ResolveFromProperties(child.Text(), it.Defaults.GroupID)
		case artifactTag:
			info.ArtifactID = it.ResolveFromProperties(child.Text(), it.Defaults.ArtifactID)
		case versionTag:
			info.Version = it.ResolveFromProperties(child.Text(), it.Defaults.Version)
		}
	}
	return info
}
