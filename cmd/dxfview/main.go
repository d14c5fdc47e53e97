package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"formwork-cad/internal/common/config"
	"formwork-cad/internal/converter/mapper"
	"formwork-cad/internal/viewer"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: dxfview <drawing.dxf|set.json>")
		os.Exit(2)
	}
	path := os.Args[1]
	cfg := config.Load()

	set, err := viewer.LoadFile(path, mapper.Options{
		CanvasHeight: cfg.CanvasHeight,
		PointBudget:  cfg.PointBudget,
	})
	if err != nil {
		log.Fatal(err)
	}

	m := viewer.New(set, viewer.Options{
		Title:     filepath.Base(path),
		ChunkSize: cfg.ChunkSize,
	})
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run(); err != nil {
		log.Fatal(err)
	}
}
