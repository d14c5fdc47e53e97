package viewer

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"formwork-cad/internal/canvas"
	"formwork-cad/internal/converter/geometry"
	"formwork-cad/internal/converter/models"
)

const frameInterval = 16 * time.Millisecond

type tickMsg time.Time

// Options control how the set is split into chunks.
type Options struct {
	Title     string
	ChunkSize int     // shapes per chunk when GridCell is 0
	GridCell  float64 // world units per grid chunk; 0 chunks by size
}

// Model is the bubbletea model for the chunked drawing viewer. The engine is
// single-threaded and only touched from Update.
type Model struct {
	opts    Options
	set     *models.LayeredPrimitiveSet
	shapes  []models.GeometryShape
	bounds  models.Bounds
	surface *Surface
	engine  *canvas.Engine

	keys keyMap
	help help.Model

	width, height int
	dragging      bool
	lastX, lastY  int
	dimmed        bool
	hidden        bool
	chunks        int
	grid          bool
}

// New builds the engine for set. The surface starts at a nominal size and is
// resized on the first WindowSizeMsg.
func New(set *models.LayeredPrimitiveSet, opts Options) Model {
	surface := NewSurface(80, 20)
	shapes := geometry.NewShapeBuilder().Build(set)

	m := Model{
		opts:    opts,
		set:     set,
		shapes:  shapes,
		bounds:  models.ShapesBounds(shapes),
		surface: surface,
		engine:  canvas.NewEngine(surface, canvas.NewLoop(nil), canvas.DefaultStyle(), canvas.DefaultVisibilityOptions()),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
	m.engine.Start()
	m.loadChunks()
	return m
}

func (m *Model) loadChunks() {
	var chunks []geometry.Chunk
	if m.opts.GridCell > 0 {
		chunks = geometry.ChunkByGrid(m.shapes, m.opts.GridCell)
	} else {
		chunks = geometry.ChunkBySize(m.shapes, m.opts.ChunkSize)
	}
	for _, c := range chunks {
		m.engine.AddChunk(c.ID, c.Shapes)
	}
	m.chunks = len(chunks)
	m.grid = m.opts.GridCell > 0
	m.dimmed, m.hidden = false, false
	m.surface.Fit(m.bounds)
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

// Engine exposes the chunk engine, mainly for tests.
func (m Model) Engine() *canvas.Engine { return m.engine }

func (m Model) Surface() *Surface { return m.surface }
