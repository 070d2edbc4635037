package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

// Ensure Renderer implements the driven port.
var _ driven.Renderer = (*Renderer)(nil)

// Renderer hands controller views to the bubbletea program. It holds at most
// one pending view: a newer view replaces an unread one, so Render never
// blocks the controller.
type Renderer struct {
	ch        chan domain.SearchView
	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

// NewRenderer creates a renderer with an empty mailbox.
func NewRenderer() *Renderer {
	return &Renderer{ch: make(chan domain.SearchView, 1)}
}

// Render publishes view, dropping any view not yet consumed.
func (r *Renderer) Render(view domain.SearchView) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	select {
	case <-r.ch:
	default:
	}
	r.ch <- view
}

// Wait returns a command that blocks until the next view and delivers it as
// messages.ViewUpdated. It yields nil once the renderer is closed.
func (r *Renderer) Wait() tea.Cmd {
	return func() tea.Msg {
		view, ok := <-r.ch
		if !ok {
			return nil
		}
		return messages.ViewUpdated{View: view}
	}
}

// Close releases any pending Wait. Render is a no-op afterwards.
func (r *Renderer) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		r.closed = true
		close(r.ch)
		r.mu.Unlock()
	})
}
