package status

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/skilldex/internal/core/domain"
)

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateIdle, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, 0, bar.ResultCount())

	bare := NewBar(nil, nil)
	assert.NotNil(t, bare.styles)
	assert.NotNil(t, bare.keymap)
}

func TestBar_SetView(t *testing.T) {
	unavailable := fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, domain.ErrSnapshotFetch)

	tests := []struct {
		name    string
		view    domain.SearchView
		state   State
		message string
		text    string
	}{
		{
			name:  "unloaded",
			view:  domain.SearchView{State: domain.LoadStateUnloaded},
			state: StateIdle,
			text:  "Press / to search",
		},
		{
			name:  "loading",
			view:  domain.SearchView{State: domain.LoadStateLoading, Loading: true, Committed: "hooks"},
			state: StateLoading,
			text:  "Loading index...",
		},
		{
			name:  "unavailable",
			view:  domain.SearchView{State: domain.LoadStateUnloaded, Err: unavailable},
			state: StateError,
			text:  "Search index unavailable",
		},
		{
			name:    "other error",
			view:    domain.SearchView{State: domain.LoadStateUnloaded, Err: errors.New("boom")},
			state:   StateError,
			message: "boom",
			text:    "Search index unavailable: boom",
		},
		{
			name:  "ready blank",
			view:  domain.SearchView{State: domain.LoadStateReady, Committed: " "},
			state: StateReady,
			text:  "Ready",
		},
		{
			name: "results",
			view: domain.SearchView{
				State:     domain.LoadStateReady,
				Committed: "hooks",
				Results:   make([]domain.QueryResult, 3),
			},
			state: StateResults,
			text:  "3 skills",
		},
		{
			name: "single result",
			view: domain.SearchView{
				State:     domain.LoadStateReady,
				Committed: "hooks",
				Results:   make([]domain.QueryResult, 1),
			},
			state: StateResults,
			text:  "1 skill",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewBar(nil, nil)
			bar.SetWidth(120)
			bar.SetView(tt.view)

			assert.Equal(t, tt.state, bar.State())
			assert.Equal(t, tt.message, bar.Message())
			assert.Contains(t, bar.View(), tt.text)
		})
	}
}

func TestBar_Hints(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(120)

	assert.Contains(t, bar.View(), "/: search")

	bar.SetInputFocused(true)
	view := bar.View()
	assert.Contains(t, view, "esc/enter: results")
	assert.NotContains(t, view, "/: search")
}
