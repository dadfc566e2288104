package entities

// UnknownValue is used for every coordinate or packaging that could not be read.
const UnknownValue = "unknown"

// ModuleInfo is one Maven coordinate (groupId, artifactId, version).
// Two values describe the same artifact when GroupID and ArtifactID match,
// the version is not part of the identity.
type ModuleInfo struct {
	GroupID    string `json:"groupId"`
	ArtifactID string `json:"artifactId"`
	Version    string `json:"version"`
}

// NewModuleInfo creates a ModuleInfo from the three coordinate parts.
func NewModuleInfo(groupID, artifactID, version string) ModuleInfo {
	return ModuleInfo{GroupID: groupID, ArtifactID: artifactID, Version: version}
}

// UnknownModuleInfo returns the coordinate used when no defaults are supplied.
func UnknownModuleInfo() ModuleInfo {
	return NewModuleInfo(UnknownValue, UnknownValue, UnknownValue)
}

// ID returns the version-less node id of the artifact.
func (m ModuleInfo) ID() string {
	return m.GroupID + "_" + m.ArtifactID
}

// SameArtifact reports whether both coordinates point to the same artifact.
func (m ModuleInfo) SameArtifact(other ModuleInfo) bool {
	return m.GroupID == other.GroupID && m.ArtifactID == other.ArtifactID
}

func (m ModuleInfo) String() string {
	return m.GroupID + "_" + m.ArtifactID + "_" + m.Version
}

// POMInfo is the parsed content of a single POM document.
type POMInfo struct {
	Packaging    string       `json:"packaging"`
	Self         *ModuleInfo  `json:"self,omitempty"`
	Parent       *ModuleInfo  `json:"parent,omitempty"`
	Dependencies []ModuleInfo `json:"dependencies"`
	Modules      []string     `json:"modules,omitempty"` // raw <module> paths, document order
}

// NewPOMInfo returns an empty record with the packaging set to UnknownValue.
func NewPOMInfo() POMInfo {
	return POMInfo{
		Packaging:    UnknownValue,
		Dependencies: []ModuleInfo{},
	}
}
