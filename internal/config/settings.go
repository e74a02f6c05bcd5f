package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendSettings is one backend's path/timeout/extra-flags entry in the
// on-disk settings file.
type BackendSettings struct {
	Path          string        `yaml:"path"`
	DefaultTimeout time.Duration `yaml:"default_timeout"`
	ExtraFlags    []string      `yaml:"extra_flags"`
}

// Settings is the optional YAML file naming backend paths/timeouts,
// following the teacher's Config-with-per-concern-substruct layout.
type Settings struct {
	Backends map[string]BackendSettings `yaml:"backends"`
	EncoderPath string                  `yaml:"encoder_path"`
}

// DefaultSettings returns built-in defaults for every known backend,
// assuming the binaries are on PATH.
func DefaultSettings() Settings {
	return Settings{
		Backends: map[string]BackendSettings{
			"cbmc":  {Path: "cbmc", DefaultTimeout: 5 * time.Minute},
			"esbmc": {Path: "esbmc", DefaultTimeout: 5 * time.Minute},
			"cadp":  {Path: "svl", DefaultTimeout: 10 * time.Minute},
			"nuxmv": {Path: "nuXmv", DefaultTimeout: 5 * time.Minute},
		},
		EncoderPath: "LabsTranslate",
	}
}

// LoadSettings reads a YAML settings file, if present, and merges it over
// DefaultSettings (file values override built-in defaults; a missing file
// is not an error).
func LoadSettings(path string) (Settings, error) {
	result := DefaultSettings()
	if path == "" {
		return result, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return Settings{}, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	var file Settings
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Settings{}, fmt.Errorf("parsing settings file %s: %w", path, err)
	}
	for name, b := range file.Backends {
		result.Backends[name] = b
	}
	if file.EncoderPath != "" {
		result.EncoderPath = file.EncoderPath
	}
	return result, nil
}

// BackendFor returns the settings for name, falling back to a bare
// executable-name lookup on PATH if name is unconfigured.
func (s Settings) BackendFor(name string) BackendSettings {
	if b, ok := s.Backends[name]; ok {
		return b
	}
	return BackendSettings{Path: name, DefaultTimeout: 5 * time.Minute}
}
