// Package cvdata loads résumé datasets and assembles the per-user CV payload
// served by the API.
package cvdata

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/samlatif/network/internal/schemas"
	"github.com/samlatif/network/internal/types"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a dataset file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the dataset format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported dataset extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// Load decodes and schema-validates a dataset. YAML input is converted to JSON
// before validation so both formats obey the same schema.
func Load(r io.Reader, format Format) (*types.CVData, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	doc := raw
	if format == FormatYAML {
		doc, err = yamlToJSON(raw)
		if err != nil {
			return nil, err
		}
	} else if format != FormatJSON {
		return nil, fmt.Errorf("unsupported dataset format %q", format)
	}

	if err := schemas.ValidateCVData(doc); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	var data types.CVData
	if err := json.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("failed to decode dataset: %w", err)
	}
	return &data, nil
}

// LoadFile loads a dataset from a .json, .yaml or .yml file.
func LoadFile(path string) (*types.CVData, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	data, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML dataset: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert YAML dataset: %w", err)
	}
	return out, nil
}

//go:embed data/default_cv.json
var defaultDataset []byte

var loadDefault = sync.OnceValues(func() (*types.CVData, error) {
	return Load(bytes.NewReader(defaultDataset), FormatJSON)
})

// Default returns the embedded demo dataset. The value is parsed once and
// shared; callers must not modify it.
func Default() (*types.CVData, error) {
	return loadDefault()
}
