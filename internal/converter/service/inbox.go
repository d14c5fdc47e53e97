package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ============================================================
// Inbox Watcher
// ============================================================

// Importer is the part of DrawingService the inbox needs.
type Importer interface {
	ImportFile(ctx context.Context, path string) (string, error)
}

// ImportFile reads a DXF from disk and stores it with the service defaults.
func (s *DrawingService) ImportFile(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	drawing, err := s.Import(ctx, filepath.Base(path), data, s.opts)
	if err != nil {
		return "", err
	}
	return drawing.ID, nil
}

// DefaultInboxSettle is how long a file must stay quiet before it is imported.
const DefaultInboxSettle = 250 * time.Millisecond

// Inbox converts every .dxf file written into a watched directory. A file is
// imported once its Create/Write events stop for Settle.
type Inbox struct {
	watcher  *fsnotify.Watcher
	importer Importer
	dir      string
	Settle   time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	ready   chan string
	done    chan struct{}
}

func NewInbox(dir string, importer Importer) (*Inbox, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}
	return &Inbox{
		watcher:  w,
		importer: importer,
		dir:      dir,
		Settle:   DefaultInboxSettle,
		pending:  make(map[string]*time.Timer),
		ready:    make(chan string, 16),
		done:     make(chan struct{}),
	}, nil
}

// Run blocks until ctx is done or the watcher closes. Import failures are
// logged and skipped.
func (in *Inbox) Run(ctx context.Context) {
	log.Printf("[INBOX] Watching %s", in.dir)
	for {
		select {
		case <-ctx.Done():
			in.stopPending()
			return
		case event, ok := <-in.watcher.Events:
			if !ok {
				in.stopPending()
				return
			}
			if !isDXF(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				in.schedule(event.Name)
			}
		case path := <-in.ready:
			id, err := in.importer.ImportFile(ctx, path)
			if err != nil {
				log.Printf("[INBOX] import %s: %v", path, err)
				continue
			}
			log.Printf("[INBOX] imported %s as %s", filepath.Base(path), id)
		case err, ok := <-in.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("[INBOX] watcher error: %v", err)
		}
	}
}

// schedule (re)starts the settle timer of path.
func (in *Inbox) schedule(path string) {
	in.mu.Lock()
	defer in.mu.Unlock()

	if t, ok := in.pending[path]; ok {
		t.Stop()
	}
	in.pending[path] = time.AfterFunc(in.Settle, func() {
		in.mu.Lock()
		delete(in.pending, path)
		in.mu.Unlock()
		select {
		case in.ready <- path:
		case <-in.done:
		}
	})
}

func (in *Inbox) stopPending() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for path, t := range in.pending {
		t.Stop()
		delete(in.pending, path)
	}
}

func (in *Inbox) Close() error {
	in.stopPending()
	close(in.done)
	return in.watcher.Close()
}

func isDXF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".dxf")
}
