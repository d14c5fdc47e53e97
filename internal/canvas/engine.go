package canvas

import "formwork-cad/internal/converter/models"

// Engine wires a chunk store, render queue and visibility tracker to one
// surface and one scheduler.
type Engine struct {
	Loop    *Loop
	Store   *ChunkStore
	Queue   *RenderQueue
	Tracker *VisibilityTracker
}

func NewEngine(surface Surface, loop *Loop, style Style, opts VisibilityOptions) *Engine {
	store := NewChunkStore(surface, style)
	queue := NewRenderQueue(store, surface, loop)
	tracker := NewVisibilityTracker(surface, store, queue, loop, opts)
	return &Engine{
		Loop:    loop,
		Store:   store,
		Queue:   queue,
		Tracker: tracker,
	}
}

func (e *Engine) AddChunk(id string, shapes []models.GeometryShape) {
	e.Store.AddChunk(id, shapes)
}

// Settle recomputes visibility immediately and runs frames until the render
// queue is empty or maxFrames is hit. It returns the frames run.
func (e *Engine) Settle(maxFrames int) int {
	e.Tracker.Update()
	return e.Loop.Drain(maxFrames)
}

// Reset abandons queued work and removes every chunk.
func (e *Engine) Reset() {
	e.Queue.ClearQueue()
	e.Store.ClearAllChunks()
}

func (e *Engine) Stats() Stats {
	return e.Store.Stats()
}

// Start lets the tracker follow surface events.
func (e *Engine) Start() {
	e.Tracker.Start()
}

func (e *Engine) Stop() {
	e.Tracker.Stop()
	e.Queue.ClearQueue()
}
