package viewer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	mapWidth, mapHeight := m.mapSize()

	title := m.opts.Title
	if title == "" {
		title = "drawing"
	}
	header := titleStyle.Render("dxfview") + " " + dimStyle.Render(title)
	header = lipgloss.NewStyle().Width(mapWidth).Render(header)

	body := mapStyle.Width(mapWidth).Height(mapHeight).Render(strings.Join(m.surface.Lines(), "\n"))

	stats := m.engine.Stats()
	mode := "size"
	if m.grid {
		mode = "grid"
	}
	status := fmt.Sprintf("chunks %d (%s)  shapes %d  rendered %d  visible %d  queue %d  zoom %.3g  fps %d",
		m.chunks, mode, stats.TotalShapes, stats.RenderedShapes, stats.VisibleShapes,
		m.engine.Queue.Len(), m.surface.Zoom(), m.engine.Tracker.FPS())
	if m.set != nil && m.set.Metadata.WasLimited {
		status += "  (point budget reached)"
	}
	footer := lipgloss.JoinVertical(lipgloss.Left,
		dimStyle.Render(status),
		m.help.ShortHelpView(m.keys.help()),
	)

	return appStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}
