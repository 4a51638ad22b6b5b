package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/fluent/pkg/localization"
)

// Manifest describes a localization project:
//
//	# fluent.yaml
//	dir: locales
//	default_locale: en
//	locales: [en, pl, de]
//	resources: [main.ftl, errors.ftl]
//
// The same keys are accepted in fluent.toml.
type Manifest struct {
	// Dir holds one directory per locale. Relative paths are resolved
	// against the manifest location.
	Dir           string   `yaml:"dir" toml:"dir"`
	DefaultLocale string   `yaml:"default_locale" toml:"default_locale"`
	Locales       []string `yaml:"locales" toml:"locales"`
	Resources     []string `yaml:"resources" toml:"resources"`
}

// LoadManifest reads a .yaml, .yml or .toml manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m := &Manifest{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, m); err != nil {
			return nil, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), m); err != nil {
			return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	if m.Dir == "" {
		m.Dir = "."
	}
	if !filepath.IsAbs(m.Dir) {
		m.Dir = filepath.Join(filepath.Dir(path), m.Dir)
	}
	if m.DefaultLocale == "" {
		m.DefaultLocale = localization.DefaultLocale
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

func (m *Manifest) validate() error {
	if len(m.Resources) == 0 {
		return fmt.Errorf("%w: resources is empty", ErrInvalidManifest)
	}
	for _, r := range m.Resources {
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("%w: empty resource id", ErrInvalidManifest)
		}
	}
	if len(m.Locales) == 0 {
		m.Locales = []string{m.DefaultLocale}
	}
	if !slices.Contains(m.Locales, m.DefaultLocale) {
		return fmt.Errorf("%w: default locale %q is not listed in locales", ErrInvalidManifest, m.DefaultLocale)
	}
	return nil
}

// Options returns localization options for the manifest locales.
func (m *Manifest) Options() []localization.Option {
	return []localization.Option{
		localization.WithDefaultLocale(m.DefaultLocale),
		localization.WithAvailableLocales(m.Locales...),
	}
}
