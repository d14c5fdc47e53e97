package canvas

import "time"

// ============================================================
// Render Queue
// ============================================================

const (
	DefaultBatchSize   = 100
	DefaultFrameBudget = 16 * time.Millisecond
)

// RenderQueue spreads chunk rendering across animation frames. Each frame
// renders queued chunks in FIFO order until BatchSize chunks were rendered or
// FrameBudget elapsed, then yields.
type RenderQueue struct {
	store   *ChunkStore
	surface Surface
	sched   Scheduler

	BatchSize   int
	FrameBudget time.Duration

	queue      []string
	queued     map[string]struct{}
	processing bool
	frame      FrameID
}

func NewRenderQueue(store *ChunkStore, surface Surface, sched Scheduler) *RenderQueue {
	return &RenderQueue{
		store:       store,
		surface:     surface,
		sched:       sched,
		BatchSize:   DefaultBatchSize,
		FrameBudget: DefaultFrameBudget,
		queued:      make(map[string]struct{}),
	}
}

// QueueChunkRender appends id unless it is already waiting and starts
// processing if idle.
func (q *RenderQueue) QueueChunkRender(id string) {
	if _, ok := q.queued[id]; ok {
		return
	}
	q.queued[id] = struct{}{}
	q.queue = append(q.queue, id)

	if !q.processing {
		q.processing = true
		q.frame = q.sched.RequestFrame(q.processFrame)
	}
}

func (q *RenderQueue) processFrame() {
	q.frame = 0
	start := q.sched.Now()
	processed := 0

	for len(q.queue) > 0 && processed < q.BatchSize && q.sched.Now().Sub(start) < q.FrameBudget {
		id := q.queue[0]
		q.queue = q.queue[1:]
		delete(q.queued, id)

		q.store.RenderChunk(id)
		processed++
	}

	if len(q.queue) > 0 {
		q.frame = q.sched.RequestFrame(q.processFrame)
		return
	}

	q.processing = false
	if q.surface != nil {
		q.surface.RequestRender()
	}
}

// ClearQueue cancels the pending frame and drops queued work. Chunks already
// rendered stay rendered.
func (q *RenderQueue) ClearQueue() {
	if q.frame != 0 {
		q.sched.CancelFrame(q.frame)
		q.frame = 0
	}
	q.queue = nil
	q.queued = make(map[string]struct{})
	q.processing = false
}

func (q *RenderQueue) Len() int {
	return len(q.queue)
}

func (q *RenderQueue) Processing() bool {
	return q.processing
}
