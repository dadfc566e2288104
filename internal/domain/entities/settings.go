package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	SourceTypeLocal  = "local"
	SourceTypeGitLab = "gitlab"
	SourceTypeGit    = "git"

	DefaultOutputDir     = "public/presets"
	DefaultProjectLimit  = 20
	DefaultMaxInactivity = 365 * 24 * time.Hour
	DefaultRef           = "main"
)

// Settings is the top-level configuration of pomgraph.
type Settings struct {
	OutputDir       string         `yaml:"output_dir"`
	NamespaceMarker string         `yaml:"namespace_marker"`
	Sources         []SourceConfig `yaml:"sources" validate:"required,min=1,dive"`
}

// SourceConfig describes where the POM files of one preset come from.
type SourceConfig struct {
	Name string `yaml:"name" validate:"required"`
	Type string `yaml:"type" validate:"required,oneof=local gitlab git"`

	// local
	Path string `yaml:"path" validate:"required_if=Type local"`

	// gitlab
	Host              string        `yaml:"host" validate:"omitempty,url"`
	Group             string        `yaml:"group" validate:"required_if=Type gitlab"`
	Limit             int           `yaml:"limit" validate:"gte=0"`
	Match             string        `yaml:"match"`
	MaxInactivity     time.Duration `yaml:"max_inactivity"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gte=0"`

	// gitlab and git
	Token string `yaml:"token"` // inline, ${ENV_VAR}, or file path
	Ref   string `yaml:"ref"`

	// git
	URL string `yaml:"url" validate:"required_if=Type git"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads, resolves and validates the configuration file at path.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes YAML settings, expands tokens and applies defaults.
func ParseSettings(data []byte) (*Settings, error) {
	var settings Settings
	if unmarshalErr := yaml.Unmarshal(data, &settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	for i := range settings.Sources {
		settings.Sources[i].Token = ResolveToken(settings.Sources[i].Token)
	}
	settings.applyDefaults()

	if validateErr := validateSettings(&settings); validateErr != nil {
		return nil, validateErr
	}
	return &settings, nil
}

// Source returns the source configured under name.
func (s *Settings) Source(name string) (SourceConfig, bool) {
	for _, source := range s.Sources {
		if source.Name == name {
			return source, true
		}
	}
	return SourceConfig{}, false
}

func (s *Settings) applyDefaults() {
	if s.OutputDir == "" {
		s.OutputDir = DefaultOutputDir
	}
	if s.NamespaceMarker == "" {
		s.NamespaceMarker = DefaultNamespaceMarker
	}
	for i := range s.Sources {
		source := &s.Sources[i]
		if source.Limit == 0 {
			source.Limit = DefaultProjectLimit
		}
		if source.MaxInactivity == 0 {
			source.MaxInactivity = DefaultMaxInactivity
		}
	}
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".pomgraph.yaml",
		".pomgraph.yml",
		"pomgraph.yaml",
		"pomgraph.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ResolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func ResolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

func validateSettings(settings *Settings) error {
	validate := validator.New()
	if err := validate.Struct(settings); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			first := validationErrs[0]
			return fmt.Errorf(
				"invalid config: %s failed on %q", first.Namespace(), first.Tag(),
			)
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	seen := make(map[string]bool, len(settings.Sources))
	for i, source := range settings.Sources {
		if seen[source.Name] {
			return fmt.Errorf("sources[%d].name %q is used more than once", i, source.Name)
		}
		seen[source.Name] = true

		if source.Match != "" {
			if _, err := regexp.Compile(source.Match); err != nil {
				return fmt.Errorf("sources[%d].match is not a valid expression: %w", i, err)
			}
		}
	}
	return nil
}
