package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"formwork-cad/internal/converter/models"
)

// ParseEntitiesJSON decodes a JSON array of raw entities produced by an
// external parser. Entity types are upper-cased so "line" and "LINE" match.
func ParseEntitiesJSON(r io.Reader) ([]models.RawEntity, error) {
	var list []models.RawEntity
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}
	for i := range list {
		list[i].Type = strings.ToUpper(strings.TrimSpace(list[i].Type))
	}
	return list, nil
}
