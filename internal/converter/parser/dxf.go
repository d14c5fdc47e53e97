package parser

import (
	"fmt"
	"io"
	"reflect"

	"formwork-cad/internal/converter/models"

	"github.com/rpaloschi/dxf-go/core"
	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"
)

// ============================================================
// DXF Parser
// ============================================================

// ParseDXF reads a DXF document and flattens its ENTITIES section into raw
// entities. Entity kinds the pipeline has no geometry for are kept as OTHER.
func ParseDXF(r io.Reader) ([]models.RawEntity, error) {
	doc, err := document.DxfDocumentFromStream(r)
	if err != nil {
		return nil, fmt.Errorf("parse dxf: %w", err)
	}

	var out []models.RawEntity
	for _, entity := range doc.Entities.Entities {
		out = append(out, mapEntity(entity))
	}
	return out, nil
}

func mapEntity(entity entities.Entity) models.RawEntity {
	switch e := entity.(type) {
	case *entities.Line:
		return models.RawEntity{
			Type:  models.KindLine,
			Layer: e.LayerName,
			Color: e.Color,
			Start: point(e.Start),
			End:   point(e.End),
		}

	case *entities.Circle:
		radius := e.Radius
		return models.RawEntity{
			Type:   models.KindCircle,
			Layer:  e.LayerName,
			Color:  e.Color,
			Center: point(e.Center),
			Radius: &radius,
		}

	case *entities.Arc:
		radius := e.Radius
		return models.RawEntity{
			Type:       models.KindArc,
			Layer:      e.LayerName,
			Color:      e.Color,
			Center:     point(e.Center),
			Radius:     &radius,
			StartAngle: e.StartAngle,
			EndAngle:   e.EndAngle,
		}

	case *entities.LWPolyline:
		vertices := make([]models.Point, 0, len(e.Points))
		for _, p := range e.Points {
			vertices = append(vertices, *point(p.Point))
		}
		return models.RawEntity{
			Type:     models.KindLWPolyline,
			Layer:    e.LayerName,
			Color:    e.Color,
			Vertices: vertices,
		}

	case *entities.Polyline:
		vertices := make([]models.Point, 0, len(e.Vertices))
		for _, v := range e.Vertices {
			vertices = append(vertices, *point(v.Location))
		}
		return models.RawEntity{
			Type:     models.KindPolyline,
			Layer:    e.LayerName,
			Color:    e.Color,
			Vertices: vertices,
		}

	case *entities.Text:
		return models.RawEntity{
			Type:  models.KindText,
			Layer: e.LayerName,
			Color: e.Color,
		}
	}

	layer, color := baseFields(entity)
	return models.RawEntity{Type: models.KindOther, Layer: layer, Color: color}
}

// baseFields reads LayerName and Color from the embedded base entity of kinds
// mapEntity has no case for.
func baseFields(entity entities.Entity) (string, any) {
	v := reflect.Indirect(reflect.ValueOf(entity))
	if v.Kind() != reflect.Struct {
		return "", nil
	}

	var layer string
	if f := v.FieldByName("LayerName"); f.IsValid() && f.Kind() == reflect.String {
		layer = f.String()
	}
	var color any
	if f := v.FieldByName("Color"); f.IsValid() && f.CanInt() {
		color = int(f.Int())
	}
	return layer, color
}

func point(p core.Point) *models.Point {
	return &models.Point{X: p.X, Y: p.Y}
}
