package mapper

import "formwork-cad/internal/converter/models"

// ============================================================
// Significance filter
// ============================================================

const (
	minLineLengthSq = 25.0 // lines up to 5 units long are noise
	minCircleRadius = 1.0
)

// IsSignificant decides whether an entity is worth keeping for the planning view.
// Annotation entities are always dropped; unknown kinds pass through.
func IsSignificant(e models.RawEntity) bool {
	switch e.Type {
	case models.KindLine:
		if e.Start == nil || e.End == nil {
			return false
		}
		dx := e.End.X - e.Start.X
		dy := e.End.Y - e.Start.Y
		return dx*dx+dy*dy > minLineLengthSq
	case models.KindPolyline, models.KindLWPolyline:
		return len(e.Vertices) >= 2
	case models.KindCircle:
		return e.Radius != nil && *e.Radius > minCircleRadius
	case models.KindText, models.KindMText, models.KindDimension:
		return false
	}
	return true
}

// Normalize returns the significant entities in input order.
func Normalize(entities []models.RawEntity) []models.RawEntity {
	out := make([]models.RawEntity, 0, len(entities))
	for _, e := range entities {
		if IsSignificant(e) {
			out = append(out, e)
		}
	}
	return out
}
