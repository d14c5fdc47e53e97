package mapper

import (
	"fmt"
	"math"

	"formwork-cad/internal/converter/models"
)

// ============================================================
// Deduplication
// ============================================================

// CanonicalKey builds the dedup key of an entity from coordinates rounded to
// whole units. ok is false when no key can be derived.
//
// Polylines are fingerprinted by vertex count plus first and last vertex only,
// so distinct polylines sharing those collapse into one.
func CanonicalKey(e models.RawEntity) (key string, ok bool) {
	switch {
	case e.Type == models.KindLine:
		if e.Start == nil || e.End == nil {
			return "", false
		}
		ax, ay := roundUnit(e.Start.X), roundUnit(e.Start.Y)
		bx, by := roundUnit(e.End.X), roundUnit(e.End.Y)
		if bx < ax || (bx == ax && by < ay) {
			ax, ay, bx, by = bx, by, ax, ay
		}
		return fmt.Sprintf("L:%d,%d:%d,%d", ax, ay, bx, by), true

	case e.Type == models.KindCircle:
		if e.Center == nil || e.Radius == nil {
			return "", false
		}
		return fmt.Sprintf("C:%d,%d:%d", roundUnit(e.Center.X), roundUnit(e.Center.Y), roundUnit(*e.Radius)), true

	case e.IsPolyline():
		n := len(e.Vertices)
		if n == 0 {
			return "", false
		}
		first, last := e.Vertices[0], e.Vertices[n-1]
		return fmt.Sprintf("P:%d:%d,%d:%d,%d", n,
			roundUnit(first.X), roundUnit(first.Y),
			roundUnit(last.X), roundUnit(last.Y)), true
	}
	return "", false
}

// Deduplicate drops entities whose canonical key was already seen, keeping the
// first occurrence. Entities without a key are always kept.
func Deduplicate(entities []models.RawEntity) []models.RawEntity {
	seen := make(map[string]struct{}, len(entities))
	out := make([]models.RawEntity, 0, len(entities))

	for _, e := range entities {
		key, ok := CanonicalKey(e)
		if !ok {
			out = append(out, e)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// roundUnit rounds half up, so -0.5 goes to 0 rather than -1.
func roundUnit(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
