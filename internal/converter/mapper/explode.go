package mapper

import (
	"math"

	"formwork-cad/internal/converter/models"
)

// ============================================================
// Explosion into render primitives
// ============================================================

const DefaultStroke = "#aaaaaa"

// aciPalette maps AutoCAD Color Index 1..9 to CSS colors.
var aciPalette = map[int]string{
	1: "#ff0000",
	2: "#ffff00",
	3: "#00ff00",
	4: "#00ffff",
	5: "#0000ff",
	6: "#ff00ff",
	7: "#ffffff",
	8: "#808080",
	9: "#c0c0c0",
}

// ResolveStroke turns an entity color into a CSS stroke. Strings pass through,
// ACI indices 1..9 use the palette, everything else is neutral gray.
func ResolveStroke(color any) string {
	switch v := color.(type) {
	case string:
		if v != "" {
			return v
		}
	case int:
		if c, ok := aciPalette[v]; ok {
			return c
		}
	case int64:
		if c, ok := aciPalette[int(v)]; ok {
			return c
		}
	case float64:
		if v == math.Trunc(v) {
			if c, ok := aciPalette[int(v)]; ok {
				return c
			}
		}
	}
	return DefaultStroke
}

// Explode decomposes an entity into line/circle primitives in canvas space:
// y is flipped against canvasHeight and every coordinate is rounded to 0.1.
// Malformed and non-drawable entities yield nil.
func Explode(e models.RawEntity, canvasHeight float64) []models.RenderPrimitive {
	stroke := ResolveStroke(e.Color)

	switch {
	case e.Type == models.KindLine:
		if e.Start == nil || e.End == nil {
			return nil
		}
		return []models.RenderPrimitive{
			linePrimitive(e.Layer, stroke, *e.Start, *e.End, canvasHeight),
		}

	case e.Type == models.KindCircle:
		if e.Center == nil || e.Radius == nil {
			return nil
		}
		center := flip(*e.Center, canvasHeight)
		return []models.RenderPrimitive{{
			Kind:   models.PrimitiveCircle,
			Layer:  e.Layer,
			Stroke: stroke,
			Center: &center,
			Radius: roundTenth(*e.Radius),
		}}

	case e.IsPolyline():
		if len(e.Vertices) < 2 {
			return nil
		}
		out := make([]models.RenderPrimitive, 0, len(e.Vertices)-1)
		for i := 0; i < len(e.Vertices)-1; i++ {
			out = append(out, linePrimitive(e.Layer, stroke, e.Vertices[i], e.Vertices[i+1], canvasHeight))
		}
		return out
	}

	return nil
}

func linePrimitive(layer, stroke string, a, b models.Point, canvasHeight float64) models.RenderPrimitive {
	start := flip(a, canvasHeight)
	end := flip(b, canvasHeight)
	return models.RenderPrimitive{
		Kind:   models.PrimitiveLine,
		Layer:  layer,
		Stroke: stroke,
		Start:  &start,
		End:    &end,
	}
}

func flip(p models.Point, canvasHeight float64) models.Point {
	return models.Point{
		X: roundTenth(p.X),
		Y: roundTenth(canvasHeight - p.Y),
	}
}

func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
