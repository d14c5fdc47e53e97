package viewer

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	headerHeight = 1
	footerHeight = 2
	zoomStep     = 1.25
	panStep      = 8.0 // braille pixels per key press
	gridDivision = 8.0 // grid chunking splits the longer side into this many cells
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.surface.Resize(m.mapSize())
	case tickMsg:
		m.engine.Loop.Tick()
		m.surface.Frame()
		return m, tick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols, rows := m.surface.Size()
	cx, cy := float64(cols), float64(rows*2)

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.engine.Stop()
		return m, tea.Quit
	case key.Matches(msg, m.keys.ZoomIn):
		m.surface.ZoomAt(zoomStep, cx, cy)
	case key.Matches(msg, m.keys.ZoomOut):
		m.surface.ZoomAt(1/zoomStep, cx, cy)
	case key.Matches(msg, m.keys.Up):
		m.surface.Pan(0, panStep)
	case key.Matches(msg, m.keys.Down):
		m.surface.Pan(0, -panStep)
	case key.Matches(msg, m.keys.Left):
		m.surface.Pan(panStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.surface.Pan(-panStep, 0)
	case key.Matches(msg, m.keys.Fit):
		m.surface.Fit(m.bounds)
	case key.Matches(msg, m.keys.Dim):
		m.dimmed = !m.dimmed
		if m.dimmed {
			m.engine.Store.SetOpacity(0)
		} else {
			m.engine.Store.SetOpacity(1)
		}
	case key.Matches(msg, m.keys.Hide):
		m.hidden = !m.hidden
		m.engine.Store.SetVisible(!m.hidden)
	case key.Matches(msg, m.keys.Reload):
		m.rechunk()
	}
	return m, nil
}

// rechunk switches between size and grid chunking and rebuilds the store.
func (m *Model) rechunk() {
	if m.grid {
		m.opts.GridCell = 0
	} else {
		side := max(m.bounds.MaxX-m.bounds.MinX, m.bounds.MaxY-m.bounds.MinY)
		m.opts.GridCell = max(side/gridDivision, 1)
	}
	m.engine.Reset()
	m.loadChunks()
}

// handleMouse turns left-button drags into pans and the wheel into zoom
// around the pointer.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	px := float64(msg.X * 2)
	py := float64((msg.Y - headerHeight) * 4)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.surface.ZoomAt(zoomStep, px, py)
	case msg.Button == tea.MouseButtonWheelDown:
		m.surface.ZoomAt(1/zoomStep, px, py)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.lastX, m.lastY = msg.X, msg.Y
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx, dy := msg.X-m.lastX, msg.Y-m.lastY
		m.lastX, m.lastY = msg.X, msg.Y
		if dx != 0 || dy != 0 {
			m.surface.Pan(float64(dx*2), float64(dy*4))
		}
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	}
}

func (m Model) mapSize() (int, int) {
	return max(10, m.width), max(4, m.height-headerHeight-footerHeight)
}
