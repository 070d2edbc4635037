package driven

import "github.com/custodia-labs/skilldex/internal/core/domain"

// Renderer displays search views. Render is called from the controller's
// event loop and must not block.
type Renderer interface {
	Render(view domain.SearchView)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(view domain.SearchView)

// Render calls f(view).
func (f RendererFunc) Render(view domain.SearchView) {
	f(view)
}
