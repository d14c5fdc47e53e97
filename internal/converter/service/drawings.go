package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"formwork-cad/internal/converter/mapper"
	"formwork-cad/internal/converter/models"
	"formwork-cad/internal/converter/repository"
)

// ============================================================
// Drawing Service
// ============================================================

// DrawingService converts DXF uploads and persists the result together with
// the original file.
type DrawingService struct {
	repo    *repository.Repository
	storage *FileStorage
	opts    mapper.Options
}

func NewDrawingService(repo *repository.Repository, storage *FileStorage, opts mapper.Options) *DrawingService {
	return &DrawingService{repo: repo, storage: storage, opts: opts}
}

func (s *DrawingService) Options() mapper.Options {
	return s.opts
}

// Import converts data with opts and stores it under name.
func (s *DrawingService) Import(ctx context.Context, name string, data []byte, opts mapper.Options) (*models.Drawing, error) {
	converter := mapper.New(opts)
	set, err := converter.Convert(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	used := converter.Options()
	drawing, err := s.repo.Create(ctx, drawingName(name), used.CanvasHeight, used.PointBudget, set)
	if err != nil {
		return nil, fmt.Errorf("store drawing: %w", err)
	}

	if err := s.storage.SaveSource(drawing.ID, data); err != nil {
		if delErr := s.repo.Delete(ctx, drawing.ID); delErr != nil {
			log.Printf("[DRAWINGS] rollback %s: %v", drawing.ID, delErr)
		}
		return nil, fmt.Errorf("store source: %w", err)
	}
	return drawing, nil
}

func (s *DrawingService) Get(ctx context.Context, id string) (*models.Drawing, error) {
	return s.repo.Get(ctx, id)
}

func (s *DrawingService) List(ctx context.Context) ([]models.Drawing, error) {
	return s.repo.List(ctx)
}

// Delete removes the source files first so a failed removal leaves the
// drawing listed and retryable.
func (s *DrawingService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.storage.RemoveDrawing(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func drawingName(filename string) string {
	base := filepath.Base(filename)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." {
		return "drawing"
	}
	return name
}
