package manifest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/david1155/npmsemver/pkg/config"
)

// Manifest holds a parsed package.json alongside its raw text. The raw
// bytes are kept so upgrades can be applied as a formatting-preserving
// textual patch rather than a re-serialization.
type Manifest struct {
	Path            string
	Raw             []byte
	Dependencies    map[string]string
	DevDependencies map[string]string
}

// Read loads and parses the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse decodes package.json data.
func Parse(data []byte) (*Manifest, error) {
	var doc struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return &Manifest{
		Raw:             data,
		Dependencies:    doc.Dependencies,
		DevDependencies: doc.DevDependencies,
	}, nil
}

// Merged returns the dependency collection the upgrade core should see:
// the selected groups flattened into one name -> declaration map, with the
// filter applied. When a name appears in both groups the production
// declaration wins.
func (m *Manifest) Merged(prod, dev bool, filter *config.Filter) map[string]string {
	merged := make(map[string]string)
	if dev {
		for name, declaration := range m.DevDependencies {
			if filter.Match(name) {
				merged[name] = declaration
			}
		}
	}
	if prod {
		for name, declaration := range m.Dependencies {
			if filter.Match(name) {
				merged[name] = declaration
			}
		}
	}
	return merged
}

// Write stores updated manifest text back to path.
func Write(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}
