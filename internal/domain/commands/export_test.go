package commands

// PresetNameFromPath exports presetNameFromPath for testing.
var PresetNameFromPath = presetNameFromPath //nolint:gochecknoglobals // test export
