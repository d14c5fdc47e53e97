package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "CANVAS_HEIGHT", "POINT_BUDGET", "CHUNK_SIZE", "ALLOWED_ORIGINS", "INBOX_DIR"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "3001" || cfg.CanvasHeight != 1000 || cfg.PointBudget != 30000 || cfg.ChunkSize != 500 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.InboxDir != "" || len(cfg.AllowedOrigins) != 0 {
		t.Errorf("optional settings should be empty: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CANVAS_HEIGHT", "2500.5")
	t.Setenv("POINT_BUDGET", "1200")
	t.Setenv("CHUNK_SIZE", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := Load()
	if cfg.CanvasHeight != 2500.5 || cfg.PointBudget != 1200 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.ChunkSize != 500 {
		t.Errorf("invalid int should fall back to default, got %d", cfg.ChunkSize)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
}
