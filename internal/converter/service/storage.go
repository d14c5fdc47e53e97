package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage keeps the original DXF of every stored drawing.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) DrawingDir(drawingID string) string {
	return filepath.Join(s.root, drawingID)
}

func (s *FileStorage) SourcePath(drawingID string) string {
	return filepath.Join(s.DrawingDir(drawingID), "source.dxf")
}

func (s *FileStorage) EnsureDir(drawingID string) error {
	if err := os.MkdirAll(s.DrawingDir(drawingID), 0o755); err != nil {
		return fmt.Errorf("mkdir drawing dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveSource(drawingID string, data []byte) error {
	if err := s.EnsureDir(drawingID); err != nil {
		return err
	}
	return os.WriteFile(s.SourcePath(drawingID), data, 0o644)
}

// RemoveDrawing deletes the drawing directory; a missing directory is fine.
func (s *FileStorage) RemoveDrawing(drawingID string) error {
	if err := os.RemoveAll(s.DrawingDir(drawingID)); err != nil {
		return fmt.Errorf("remove drawing dir: %w", err)
	}
	return nil
}
