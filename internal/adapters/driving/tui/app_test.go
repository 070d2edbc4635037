package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/index/inverted"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/services"
)

func newTestApp(t *testing.T) (*App, *MockController) {
	t.Helper()
	ctrl := &MockController{}
	app, err := NewApp(&Ports{Search: ctrl}, NewRenderer())
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app, ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		app, err := NewApp(&Ports{Search: &MockController{}}, NewRenderer())

		require.NoError(t, err)
		assert.Equal(t, messages.ViewSearch, app.CurrentView())
		assert.False(t, app.Ready())
		assert.Equal(t, "Initialising...", app.View())
	})

	t.Run("missing controller", func(t *testing.T) {
		app, err := NewApp(&Ports{}, NewRenderer())

		assert.ErrorIs(t, err, ErrMissingSearchController)
		assert.Nil(t, app)
	})

	t.Run("missing renderer", func(t *testing.T) {
		app, err := NewApp(&Ports{Search: &MockController{}}, nil)

		assert.ErrorIs(t, err, ErrMissingRenderer)
		assert.Nil(t, app)
	})
}

func TestApp_WithContext(t *testing.T) {
	app, _ := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Same(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app, ctrl := newTestApp(t)
	ctrl.Current = domain.SearchView{State: domain.LoadStateReady, Committed: "x"}

	assert.NotNil(t, app.Init())
	assert.Equal(t, "x", app.SearchView().Current().Committed)
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_KeysReachController(t *testing.T) {
	app, ctrl := newTestApp(t)

	app.Update(runes("/"))
	app.Update(runes("g"))
	app.Update(runes("o"))

	assert.Equal(t, 1, ctrl.FocusCalls)
	assert.Equal(t, []string{"g", "go"}, ctrl.Inputs)
}

func TestApp_ViewUpdatedRearmsWait(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.ViewUpdated{View: domain.SearchView{
		State: domain.LoadStateReady, Committed: "go",
		Results: []domain.QueryResult{{Skill: domain.Skill{Source: "s", SkillID: "go", Name: "go"}}},
	}})

	assert.NotNil(t, cmd)
	assert.Len(t, app.SearchView().Results(), 1)
}

func TestApp_Navigation(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want messages.ViewType
	}{
		{"settings", "s", messages.ViewSettings},
		{"help", "?", messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := newTestApp(t)

			_, cmd := app.Update(runes(tt.key))
			require.NotNil(t, cmd)
			app.Update(cmd())

			assert.Equal(t, tt.want, app.CurrentView())
		})
	}
}

func TestApp_HelpView(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewHelp})

	out := app.View()
	assert.Contains(t, out, "Help")
	assert.Contains(t, out, "settings")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_SettingsWithoutService(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewSettings})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Contains(t, app.View(), "settings service not available")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
}

type staticFetcher struct{ data []byte }

func (f staticFetcher) Fetch(ctx context.Context) ([]byte, error) { return f.data, ctx.Err() }
func (f staticFetcher) Source() string                            { return "static" }

var _ driven.SnapshotFetcher = staticFetcher{}

// TestApp_ControllerRoundTrip drives a real controller through the renderer.
func TestApp_ControllerRoundTrip(t *testing.T) {
	snapshot := []byte(`[
		{"id":0,"source":"acme/skills","skillId":"hooks","name":"react hooks","installs":10},
		{"id":1,"source":"acme/skills","skillId":"router","name":"router","installs":5}
	]`)

	renderer := NewRenderer()
	ctrl := services.NewController(staticFetcher{data: snapshot}, inverted.NewBuilder(), renderer,
		services.ControllerConfig{Debounce: 150 * time.Millisecond})
	defer ctrl.Close()

	app, err := NewApp(&Ports{Search: ctrl}, renderer)
	require.NoError(t, err)
	app.SetDimensions(100, 40)

	app.Update(runes("/"))
	for _, r := range "hooks" {
		app.Update(runes(string(r)))
	}

	require.Eventually(t, func() bool {
		msg := renderer.Wait()()
		app.Update(msg)
		return len(app.SearchView().Results()) == 1
	}, 3*time.Second, 10*time.Millisecond)

	assert.Equal(t, "hooks", app.SearchView().Results()[0].SkillID)
	assert.Equal(t, domain.LoadStateReady, app.SearchView().Current().State)
}
