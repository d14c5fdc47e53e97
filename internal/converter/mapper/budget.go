package mapper

import "formwork-cad/internal/converter/models"

// ============================================================
// Point budget
// ============================================================

const DefaultPointBudget = 30000

// Allocate admits primitives in input order until the next one would push the
// weighted point total past budget. Allocation stops there; smaller primitives
// further down the list are not considered.
func Allocate(primitives []models.RenderPrimitive, budget int) *models.LayeredPrimitiveSet {
	set := &models.LayeredPrimitiveSet{
		Layers:     make(map[string][]models.RenderPrimitive),
		LayerNames: []string{},
	}

	total := 0
	for _, p := range primitives {
		w := p.Weight()
		if total+w > budget {
			set.Metadata.WasLimited = true
			break
		}
		total += w

		if _, ok := set.Layers[p.Layer]; !ok {
			set.LayerNames = append(set.LayerNames, p.Layer)
		}
		set.Layers[p.Layer] = append(set.Layers[p.Layer], p)
	}

	set.Metadata.TotalPoints = total
	set.Metadata.LayerCount = len(set.LayerNames)
	return set
}
