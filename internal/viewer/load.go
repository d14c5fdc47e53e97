package viewer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"formwork-cad/internal/converter/mapper"
	"formwork-cad/internal/converter/models"
)

// LoadFile reads a .dxf through the converter, or a previously converted
// primitive set stored as .json.
func LoadFile(path string, opts mapper.Options) (*models.LayeredPrimitiveSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var set models.LayeredPrimitiveSet
		if err := json.NewDecoder(f).Decode(&set); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return &set, nil
	}

	set, err := mapper.New(opts).Convert(f)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", path, err)
	}
	return set, nil
}
