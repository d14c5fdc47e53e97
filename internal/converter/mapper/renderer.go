package mapper

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"formwork-cad/internal/converter/models"
)

// ============================================================
// Renderer
// ============================================================

type Renderer struct {
	strokeWidth float64
}

func NewRenderer() *Renderer {
	return &Renderer{strokeWidth: 1}
}

// Render builds an SVG preview of a layered primitive set, one <g> per layer.
func (r *Renderer) Render(set *models.LayeredPrimitiveSet) (string, error) {
	if set == nil {
		return "", fmt.Errorf("primitive set is nil")
	}

	minX, minY, width, height := r.viewBox(set)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(width), formatFloat(height),
		formatFloat(minX), formatFloat(minY), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, name := range r.layerOrder(set) {
		builder.WriteString(fmt.Sprintf(`  <g id="%s" fill="none" stroke-width="%s">`, escapeAttr(name), formatFloat(r.strokeWidth)))
		builder.WriteString("\n")
		for _, p := range set.Layers[name] {
			elem := r.renderPrimitive(p)
			if elem == "" {
				continue
			}
			builder.WriteString("    ")
			builder.WriteString(elem)
			builder.WriteString("\n")
		}
		builder.WriteString("  </g>\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

func (r *Renderer) renderPrimitive(p models.RenderPrimitive) string {
	switch p.Kind {
	case models.PrimitiveLine:
		if p.Start == nil || p.End == nil {
			return ""
		}
		return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" />`,
			formatFloat(p.Start.X), formatFloat(p.Start.Y),
			formatFloat(p.End.X), formatFloat(p.End.Y), escapeAttr(p.Stroke))
	case models.PrimitiveCircle:
		if p.Center == nil {
			return ""
		}
		return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s" stroke="%s" />`,
			formatFloat(p.Center.X), formatFloat(p.Center.Y), formatFloat(p.Radius), escapeAttr(p.Stroke))
	}
	return ""
}

// layerOrder prefers the recorded order and falls back to map keys for sets
// built by hand without LayerNames.
func (r *Renderer) layerOrder(set *models.LayeredPrimitiveSet) []string {
	if len(set.LayerNames) == len(set.Layers) {
		return set.LayerNames
	}
	names := make([]string, 0, len(set.Layers))
	for name := range set.Layers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ============================================================
// Sizing
// ============================================================

func (r *Renderer) viewBox(set *models.LayeredPrimitiveSet) (float64, float64, float64, float64) {
	b := models.EmptyBounds()
	for _, layer := range set.Layers {
		for _, p := range layer {
			switch p.Kind {
			case models.PrimitiveLine:
				if p.Start != nil && p.End != nil {
					b.Extend(*p.Start)
					b.Extend(*p.End)
				}
			case models.PrimitiveCircle:
				if p.Center != nil {
					b.Extend(models.Point{X: p.Center.X - p.Radius, Y: p.Center.Y - p.Radius})
					b.Extend(models.Point{X: p.Center.X + p.Radius, Y: p.Center.Y + p.Radius})
				}
			}
		}
	}

	if b.IsEmpty() {
		return 0, 0, 1000, 1000
	}

	width := math.Max(b.MaxX-b.MinX, 1)
	height := math.Max(b.MaxY-b.MinY, 1)
	return b.MinX, b.MinY, width, height
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
