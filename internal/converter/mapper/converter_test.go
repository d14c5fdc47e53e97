package mapper

import (
	"strings"
	"testing"

	"formwork-cad/internal/converter/models"
)

func TestProcess(t *testing.T) {
	raw := []models.RawEntity{
		{Type: models.KindLine, Layer: "walls", Color: 1, Start: pt(0, 0), End: pt(100, 0)},
		{Type: models.KindLine, Layer: "walls", Start: pt(100, 0), End: pt(0, 0)},
		{Type: models.KindLine, Layer: "walls", Start: pt(0, 0), End: pt(1, 0)},
		{Type: models.KindText, Layer: "notes", Text: "room"},
		{Type: models.KindCircle, Layer: "columns", Center: pt(50, 50), Radius: radius(10)},
		{Type: models.KindLWPolyline, Layer: "slab", Vertices: []models.Point{{X: 0, Y: 0}, {X: 0, Y: 100}, {X: 100, Y: 100}}},
	}

	set := New(Options{CanvasHeight: 100}).Process(raw)

	md := set.Metadata
	if md.TotalEntities != 6 {
		t.Errorf("expected 6 total entities, got %d", md.TotalEntities)
	}
	if md.UniqueEntities != 3 {
		t.Errorf("expected 3 unique entities, got %d", md.UniqueEntities)
	}
	// 1 line + 1 circle + 2 polyline segments
	if md.TotalPoints != 2+8+4 {
		t.Errorf("expected 14 points, got %d", md.TotalPoints)
	}
	if md.LayerCount != 3 {
		t.Errorf("expected 3 layers, got %d", md.LayerCount)
	}
	if got := set.Layers["walls"][0].Stroke; got != "#ff0000" {
		t.Errorf("expected red wall, got %s", got)
	}
	if got := set.Layers["columns"][0].Center.Y; got != 50 {
		t.Errorf("expected flipped center y=50, got %v", got)
	}
}

func TestProcessWasLimited(t *testing.T) {
	var raw []models.RawEntity
	for i := 0; i < 10; i++ {
		raw = append(raw, models.RawEntity{
			Type: models.KindLine, Start: pt(0, float64(i*10)), End: pt(100, float64(i*10)),
		})
	}

	set := New(Options{PointBudget: 9}).Process(raw)
	if !set.Metadata.WasLimited {
		t.Error("expected limit")
	}
	if set.Metadata.TotalPoints != 8 {
		t.Errorf("expected 8 points, got %d", set.Metadata.TotalPoints)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	opts := New(Options{}).Options()
	if opts.CanvasHeight != DefaultCanvasHeight || opts.PointBudget != DefaultPointBudget {
		t.Errorf("unexpected defaults %+v", opts)
	}
}

func TestRendererOutput(t *testing.T) {
	set := New(DefaultOptions()).Process([]models.RawEntity{
		{Type: models.KindLine, Layer: "A&B", Start: pt(0, 0), End: pt(100, 0)},
		{Type: models.KindCircle, Layer: "C", Center: pt(50, 50), Radius: radius(10)},
	})

	svg, err := NewRenderer().Render(set)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	for _, want := range []string{
		`<g id="A&amp;B"`,
		`<line x1="0" y1="1000" x2="100" y2="1000" stroke="#aaaaaa" />`,
		`<circle cx="50" cy="950" r="10" stroke="#aaaaaa" />`,
		`viewBox="0 940 100 60"`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q\n%s", want, svg)
		}
	}
	if strings.Index(svg, `id="A&amp;B"`) > strings.Index(svg, `id="C"`) {
		t.Error("layers out of order")
	}
}

func TestRendererNilSet(t *testing.T) {
	if _, err := NewRenderer().Render(nil); err == nil {
		t.Error("expected error for nil set")
	}
}

func TestConvertDXFColorAndText(t *testing.T) {
	doc := "0\nSECTION\n2\nENTITIES\n" +
		"0\nLINE\n8\nWALLS\n62\n1\n10\n0\n20\n0\n30\n0\n11\n100\n21\n0\n31\n0\n" +
		"0\nTEXT\n8\nNOTES\n10\n0\n20\n0\n30\n0\n40\n2.5\n1\nroom\n" +
		"0\nENDSEC\n0\nEOF\n"

	set, err := New(DefaultOptions()).Convert(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("convert failed: %v", err)
	}

	if set.Metadata.TotalEntities != 2 || set.Metadata.UniqueEntities != 1 {
		t.Errorf("expected 2 total / 1 unique, got %+v", set.Metadata)
	}
	walls := set.Layers["WALLS"]
	if len(walls) != 1 {
		t.Fatalf("expected 1 wall primitive, got %d", len(walls))
	}
	if walls[0].Stroke != "#ff0000" {
		t.Errorf("expected ACI 1 stroke #ff0000, got %s", walls[0].Stroke)
	}
	if _, ok := set.Layers["NOTES"]; ok {
		t.Error("text layer should not produce primitives")
	}
}
