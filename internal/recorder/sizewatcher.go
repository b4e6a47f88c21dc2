package recorder

import (
	"sync"
	"time"

	"github.com/prsauer/wow-recorder/internal/engine"
	"github.com/prsauer/wow-recorder/internal/logging"
)

// sizeWatchInterval is how often a live source's reported size is
// polled for changes.
const sizeWatchInterval = 5 * time.Second

// sizeWatcher keeps one scene item scaled to the base canvas as its
// source's native size changes at runtime. A window capture reports
// 0x0 until the window exists and can change size when the game
// switches display modes.
type sizeWatcher struct {
	source   engine.Source
	item     engine.SceneItem
	base     engine.Size
	interval time.Duration

	mu   sync.Mutex
	last *engine.Size

	stopCh chan struct{}
	doneCh chan struct{}
}

func newSizeWatcher(source engine.Source, item engine.SceneItem, base engine.Size, interval time.Duration) *sizeWatcher {
	return &sizeWatcher{
		source:   source,
		item:     item,
		base:     base,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

func (w *sizeWatcher) start() {
	go w.run()
}

func (w *sizeWatcher) run() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.evaluate()
		}
	}
}

// evaluate is one poll: skip while the source reports no size or an
// unchanged size, otherwise rescale the scene item to fit the base
// canvas width and remember the new size.
func (w *sizeWatcher) evaluate() {
	current := w.source.Size()
	if current.Width == 0 || current.Height == 0 {
		return
	}

	w.mu.Lock()
	if w.last != nil && *w.last == current {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	scale := float64(w.base.Width) / float64(current.Width)
	if err := w.item.SetScale(engine.Vec2{X: scale, Y: scale}); err != nil {
		logging.ErrorLogger.Printf("Failed to rescale source to %.3f: %v", scale, err)
		return
	}
	logging.InfoLogger.Printf("Source size now %dx%d, rescaled to %.3f", current.Width, current.Height, scale)

	w.mu.Lock()
	w.last = &current
	w.mu.Unlock()
}

// stop cancels the watcher and waits for the poll goroutine to exit,
// so no tick can touch a released scene item afterwards.
func (w *sizeWatcher) stop() {
	close(w.stopCh)
	<-w.doneCh
}

// lastSize reports the most recent size observed, nil before the
// source first delivered frames.
func (w *sizeWatcher) lastSize() *engine.Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return nil
	}
	size := *w.last
	return &size
}
