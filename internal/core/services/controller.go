package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure Controller implements the interface.
var _ driving.SearchController = (*Controller)(nil)

// ControllerConfig configures a search Controller.
type ControllerConfig struct {
	// Debounce is how long input must stay unchanged before it is committed.
	// Zero selects domain.DefaultDebounce.
	Debounce time.Duration
}

// Controller owns the search state of one session: when the index is
// fetched, and when typed input reaches the query engine.
//
// The index is fetched on the first Focus. Input is committed once it has
// been stable for the debounce delay, or immediately when it becomes blank.
// All state lives on a single event loop goroutine; the exported methods only
// post events, so they are safe to call from any goroutine and never block on
// I/O. After Close returns, the renderer is never called again.
type Controller struct {
	fetcher  driven.SnapshotFetcher
	builder  driven.IndexBuilder
	renderer driven.Renderer
	debounce time.Duration

	ctx       context.Context
	cancel    context.CancelFunc
	events    chan any
	done      chan struct{}
	closeOnce sync.Once

	// Loop-owned state.
	state     domain.LoadState
	index     driven.SearchIndex
	live      string
	committed string
	results   []domain.QueryResult
	loadErr   error
	timer     *time.Timer
	timerGen  uint64
	fetchGen  uint64

	mu   sync.RWMutex
	view domain.SearchView
}

type (
	focusEvent  struct{}
	inputEvent  struct{ value string }
	settleEvent struct {
		gen   uint64
		value string
	}
	loadedEvent struct {
		gen   uint64
		index driven.SearchIndex
		err   error
	}
)

// NewController starts a controller. The renderer may be nil, in which case
// callers read View.
func NewController(
	fetcher driven.SnapshotFetcher,
	builder driven.IndexBuilder,
	renderer driven.Renderer,
	cfg ControllerConfig,
) *Controller {
	if cfg.Debounce <= 0 {
		cfg.Debounce = domain.DefaultDebounce
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		fetcher:  fetcher,
		builder:  builder,
		renderer: renderer,
		debounce: cfg.Debounce,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan any, 64),
		done:     make(chan struct{}),
		results:  []domain.QueryResult{},
	}
	c.view = c.currentView()

	go c.run()
	return c
}

// Focus signals interaction with the search input. The first call starts
// the snapshot fetch; calls while loading or ready do nothing.
func (c *Controller) Focus() {
	c.post(focusEvent{})
}

// SetInput records a keystroke's resulting input value.
func (c *Controller) SetInput(value string) {
	c.post(inputEvent{value: value})
}

// HandleKey applies the search hotkey. It reports whether the key was
// consumed, in which case the caller should move focus to the search input.
func (c *Controller) HandleKey(key string, focus domain.FocusTarget) bool {
	if !ShouldFocusSearch(key, focus) {
		return false
	}
	c.Focus()
	return true
}

// ShouldFocusSearch reports whether key should move focus to the search
// input. The hotkey is left alone while the user is typing in any text entry.
func ShouldFocusSearch(key string, focus domain.FocusTarget) bool {
	return key == domain.SearchHotkey && focus != domain.FocusTextEntry
}

// View returns the latest published view.
func (c *Controller) View() domain.SearchView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Done is closed once the controller has shut down.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Close cancels any in-flight fetch and pending debounce, waits for the
// event loop to exit and releases the index. It is safe to call more than
// once.
func (c *Controller) Close() error {
	c.closeOnce.Do(c.cancel)
	<-c.done
	return nil
}

func (c *Controller) post(ev any) bool {
	select {
	case c.events <- ev:
		return true
	case <-c.ctx.Done():
		return false
	}
}

func (c *Controller) run() {
	defer close(c.done)
	defer c.stopTimer()
	defer c.release()

	for {
		select {
		case <-c.ctx.Done():
			return
		case ev := <-c.events:
			if c.ctx.Err() != nil {
				return
			}
			c.handle(ev)
			c.publish()
		}
	}
}

func (c *Controller) handle(ev any) {
	switch ev := ev.(type) {
	case focusEvent:
		if c.state != domain.LoadStateUnloaded {
			return
		}
		c.state = domain.LoadStateLoading
		c.loadErr = nil
		c.fetchGen++
		go c.fetch(c.fetchGen)

	case inputEvent:
		c.live = ev.value
		c.stopTimer()
		if domain.IsBlankQuery(ev.value) {
			c.commit(ev.value)
			return
		}
		gen, value := c.timerGen, ev.value
		c.timer = time.AfterFunc(c.debounce, func() {
			c.post(settleEvent{gen: gen, value: value})
		})

	case settleEvent:
		if ev.gen != c.timerGen {
			return
		}
		c.timer = nil
		c.commit(ev.value)

	case loadedEvent:
		if ev.gen != c.fetchGen || c.state != domain.LoadStateLoading {
			closeIndex(ev.index)
			return
		}
		if ev.err != nil {
			c.state = domain.LoadStateUnloaded
			c.loadErr = fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, ev.err)
			logger.Warn("search: %v", c.loadErr)
			return
		}
		closeIndex(c.index)
		c.index = ev.index
		c.state = domain.LoadStateReady
		c.loadErr = nil
		logger.Debug("search: index ready with %d records", ev.index.Len())
		c.query()
	}
}

// release closes the held index and any loaded index still queued.
func (c *Controller) release() {
	closeIndex(c.index)
	c.index = nil
	for {
		select {
		case ev := <-c.events:
			if loaded, ok := ev.(loadedEvent); ok {
				closeIndex(loaded.index)
			}
		default:
			return
		}
	}
}

// stopTimer cancels the pending debounce and invalidates any settle event
// already queued by it.
func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

func (c *Controller) commit(value string) {
	c.committed = value
	c.query()
}

func (c *Controller) query() {
	if c.state != domain.LoadStateReady || c.index == nil {
		c.results = []domain.QueryResult{}
		return
	}
	c.results = c.index.Search(c.committed)
}

func (c *Controller) fetch(gen uint64) {
	idx, err := loadIndex(c.ctx, c.fetcher, c.builder)
	if !c.post(loadedEvent{gen: gen, index: idx, err: err}) {
		closeIndex(idx)
	}
}

func (c *Controller) currentView() domain.SearchView {
	return domain.SearchView{
		State:     c.state,
		Live:      c.live,
		Committed: c.committed,
		Results:   c.results,
		Loading:   c.state == domain.LoadStateLoading,
		Pending:   false,
		Err:       c.loadErr,
	}
}

func (c *Controller) publish() {
	view := c.currentView()

	c.mu.Lock()
	c.view = view
	c.mu.Unlock()

	if c.renderer != nil {
		c.renderer.Render(view)
	}
}
