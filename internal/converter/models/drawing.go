package models

// ============================================================
// Drawing Model
// ============================================================

// Drawing is a converted DXF stored for later viewing.
type Drawing struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	CanvasHeight float64              `json:"canvasHeight"`
	PointBudget  int                  `json:"pointBudget"`
	TotalPoints  int                  `json:"totalPoints"`
	WasLimited   bool                 `json:"wasLimited"`
	CreatedAt    string               `json:"createdAt"`
	Set          *LayeredPrimitiveSet `json:"set,omitempty"`
}
