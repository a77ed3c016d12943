package carriers

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader reads a carriers YAML file from disk.
type Loader struct {
	filePath string
}

// NewLoader creates a new carriers loader
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Path returns the file the loader reads.
func (l *Loader) Path() string { return l.filePath }

// Load reads and parses the file. Codes are upper-cased; entries with an
// empty code or name are skipped.
func (l *Loader) Load() (map[string]string, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read carriers file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse carriers yaml: %w", err)
	}

	names := make(map[string]string, len(file.Carriers))
	for code, name := range file.Carriers {
		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if code == "" || name == "" {
			continue
		}
		names[code] = name
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("no valid carriers found in %s", l.filePath)
	}
	return names, nil
}
