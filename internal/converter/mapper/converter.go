package mapper

import (
	"fmt"
	"io"

	"formwork-cad/internal/converter/models"
	"formwork-cad/internal/converter/parser"
)

// ============================================================
// Converter
// ============================================================

const DefaultCanvasHeight = 1000.0

type Options struct {
	CanvasHeight float64
	PointBudget  int
}

// DefaultOptions returns the 1000-unit canvas and the 30k point budget.
func DefaultOptions() Options {
	return Options{
		CanvasHeight: DefaultCanvasHeight,
		PointBudget:  DefaultPointBudget,
	}
}

type Converter struct {
	opts Options
}

func New(opts Options) *Converter {
	if opts.CanvasHeight <= 0 {
		opts.CanvasHeight = DefaultCanvasHeight
	}
	if opts.PointBudget <= 0 {
		opts.PointBudget = DefaultPointBudget
	}
	return &Converter{opts: opts}
}

func (c *Converter) Options() Options {
	return c.opts
}

// Convert DXF → layered primitive set
func (c *Converter) Convert(r io.Reader) (*models.LayeredPrimitiveSet, error) {
	raw, err := parser.ParseDXF(r)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	return c.Process(raw), nil
}

// Process runs filter → dedup → explode → budget over already parsed entities.
// Metadata reports the raw and unique entity counts so pipeline loss is visible.
func (c *Converter) Process(raw []models.RawEntity) *models.LayeredPrimitiveSet {
	unique := Deduplicate(Normalize(raw))

	var primitives []models.RenderPrimitive
	for _, e := range unique {
		primitives = append(primitives, Explode(e, c.opts.CanvasHeight)...)
	}

	set := Allocate(primitives, c.opts.PointBudget)
	set.Metadata.TotalEntities = len(raw)
	set.Metadata.UniqueEntities = len(unique)
	return set
}
