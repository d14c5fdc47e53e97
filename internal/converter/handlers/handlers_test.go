package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"formwork-cad/internal/converter/mapper"
	"formwork-cad/internal/converter/models"
	"formwork-cad/internal/converter/repository"
	"formwork-cad/internal/converter/service"

	"github.com/gofiber/fiber/v3"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func TestHealthProbes(t *testing.T) {
	app := fiber.New()
	app.Get("/live", LivenessProbe)
	app.Get("/ready", ReadinessProbe(func() error { return nil }))
	app.Get("/down", ReadinessProbe(func() error { return errors.New("db closed") }))
	app.Get("/startup", StartupProbe)

	tests := []struct {
		path   string
		status int
	}{
		{"/live", fiber.StatusOK},
		{"/ready", fiber.StatusOK},
		{"/down", fiber.StatusServiceUnavailable},
		{"/startup", fiber.StatusOK},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		if resp.StatusCode != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.path, tt.status, resp.StatusCode)
		}
	}
}

func TestConvertEntities(t *testing.T) {
	app := fiber.New()
	app.Post("/convert/entities", NewConvertHandler(mapper.DefaultOptions()).ConvertEntities)

	body := `[
		{"type": "LINE", "layer": "walls", "color": 1, "start": {"x": 0, "y": 5}, "end": {"x": 100, "y": 5}},
		{"type": "LINE", "layer": "walls", "start": {"x": 100, "y": 5}, "end": {"x": 0, "y": 5}},
		{"type": "TEXT", "layer": "notes", "text": "hall"},
		{"type": "CIRCLE", "layer": "cols", "center": {"x": 50, "y": 50}, "radius": 10}
	]`
	req := httptest.NewRequest(http.MethodPost, "/convert/entities?canvasHeight=100&budget=2", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var set models.LayeredPrimitiveSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if set.Metadata.TotalEntities != 4 || set.Metadata.UniqueEntities != 2 {
		t.Errorf("unexpected counts %+v", set.Metadata)
	}
	// budget 2 admits the line and stops at the circle
	if !set.Metadata.WasLimited || set.Metadata.TotalPoints != 2 {
		t.Errorf("expected limited set, got %+v", set.Metadata)
	}
	walls := set.Layers["walls"]
	if len(walls) != 1 || walls[0].Start.Y != 95 || walls[0].Stroke != "#ff0000" {
		t.Errorf("unexpected walls %+v", walls)
	}
}

func TestConvertEntitiesBadInput(t *testing.T) {
	app := fiber.New()
	app.Post("/convert/entities", NewConvertHandler(mapper.DefaultOptions()).ConvertEntities)
	app.Post("/convert", NewConvertHandler(mapper.DefaultOptions()).ConvertDXF)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodPost, "/convert/entities", nil),
		httptest.NewRequest(http.MethodPost, "/convert/entities", strings.NewReader("{not json")),
		httptest.NewRequest(http.MethodPost, "/convert", strings.NewReader("no multipart")),
	} {
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", req.URL.Path, resp.StatusCode)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	app := fiber.New()
	app.Post("/render", RenderSVG)

	body := `{"layers": {"A": [{"type": "line", "layer": "A", "stroke": "#fff", "start": {"x": 0, "y": 0}, "end": {"x": 10, "y": 10}}]}, "layerNames": ["A"]}`
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body)))
	if err != nil {
		t.Fatal(err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("unexpected content type %q", ct)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), `<line x1="0" y1="0" x2="10" y2="10" stroke="#fff" />`) {
		t.Errorf("unexpected svg:\n%s", data)
	}
}

// ============================================================
// Drawing routes
// ============================================================

func newDrawingApp(t *testing.T) (*fiber.App, *repository.Repository) {
	t.Helper()
	db, err := repository.OpenSQLite(filepath.Join(t.TempDir(), "handlers.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	if err := repo.Init(context.Background(), "../../../migrations/001_init_drawings.sql"); err != nil {
		t.Fatal(err)
	}

	svc := service.NewDrawingService(repo, service.NewFileStorage(t.TempDir()), mapper.DefaultOptions())
	h := NewDrawingHandler(svc, 4)

	app := fiber.New()
	app.Post("/drawings", h.Upload)
	app.Get("/drawings", h.List)
	app.Get("/drawings/:id", h.Get)
	app.Delete("/drawings/:id", h.Delete)
	app.Get("/drawings/:id/svg", h.SVG)
	app.Get("/drawings/:id/preview.png", h.Preview)
	return app, repo
}

func storedSet() *models.LayeredPrimitiveSet {
	var prims []models.RenderPrimitive
	for i := 0; i < 10; i++ {
		y := float64(i * 20)
		prims = append(prims, models.RenderPrimitive{
			Kind: models.PrimitiveLine, Layer: "grid", Stroke: "#aaaaaa",
			Start: &models.Point{X: 0, Y: y}, End: &models.Point{X: 200, Y: y},
		})
	}
	return mapper.Allocate(prims, mapper.DefaultPointBudget)
}

func TestDrawingRoutes(t *testing.T) {
	app, repo := newDrawingApp(t)
	d, err := repo.Create(context.Background(), "grid", 1000, 30000, storedSet())
	if err != nil {
		t.Fatal(err)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/drawings", nil))
	if err != nil {
		t.Fatal(err)
	}
	var list []models.Drawing
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil || len(list) != 1 || list[0].ID != d.ID {
		t.Fatalf("unexpected list %+v (%v)", list, err)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/drawings/"+d.ID, nil))
	var got models.Drawing
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil || got.Set == nil || len(got.Set.Layers["grid"]) != 10 {
		t.Errorf("unexpected drawing %+v (%v)", got, err)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/drawings/"+d.ID+"/svg", nil))
	if resp.StatusCode != fiber.StatusOK || resp.Header.Get("Content-Type") != "image/svg+xml" {
		t.Errorf("svg: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/drawings/"+d.ID+"/preview.png?width=120&height=80", nil))
	if resp.StatusCode != fiber.StatusOK || resp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("preview: %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("X-Chunks-Total") != "3" || resp.Header.Get("X-Shapes-Rendered") != "10" {
		t.Errorf("unexpected preview headers %v", resp.Header)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/drawings/"+d.ID, nil))
	if resp.StatusCode != fiber.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", resp.StatusCode)
	}
}

func TestDrawingNotFound(t *testing.T) {
	app, _ := newDrawingApp(t)

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/drawings/nope", nil),
		httptest.NewRequest(http.MethodGet, "/drawings/nope/svg", nil),
		httptest.NewRequest(http.MethodGet, "/drawings/nope/preview.png", nil),
		httptest.NewRequest(http.MethodDelete, "/drawings/nope", nil),
	} {
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != fiber.StatusNotFound {
			t.Errorf("%s %s: expected 404, got %d", req.Method, req.URL.Path, resp.StatusCode)
		}
	}

	resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/drawings", nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("upload without file: expected 400, got %d", resp.StatusCode)
	}
}

func TestClampSize(t *testing.T) {
	tests := map[int]int{0: defaultPreviewSize, -3: defaultPreviewSize, 300: 300, 99999: maxPreviewSize}
	for in, want := range tests {
		if got := clampSize(in); got != want {
			t.Errorf("clampSize(%d) = %d, want %d", in, got, want)
		}
	}
}
