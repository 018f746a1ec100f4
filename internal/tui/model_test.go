package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/openquota/openquota/internal/core"
)

type stubProvider struct {
	id     string
	name   string
	result core.QueryResult
}

func (s stubProvider) ID() string                  { return s.id }
func (s stubProvider) Describe() core.ProviderInfo { return core.ProviderInfo{Name: s.name} }
func (s stubProvider) Query(context.Context) core.QueryResult {
	return s.result
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	return New([]core.Provider{
		stubProvider{id: "a", name: "Alpha", result: core.OK("alpha report")},
		stubProvider{id: "b", name: "Beta", result: core.Fail("beta broke")},
	}, time.Minute, filepath.Join(t.TempDir()))
}

func TestViewBeforeFirstResults(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	if !strings.Contains(view, "Alpha") || !strings.Contains(view, "Beta") {
		t.Errorf("view missing provider names:\n%s", view)
	}
	if !strings.Contains(view, "loading") {
		t.Errorf("view missing loading state:\n%s", view)
	}
}

func TestUpdateAppliesResults(t *testing.T) {
	m := newTestModel(t)

	updated, _ := m.Update(resultsMsg{
		"a": core.OK("alpha report"),
		"b": core.Fail("beta broke"),
	})
	m = updated.(Model)

	view := m.View()
	if !strings.Contains(view, "alpha report") {
		t.Errorf("view missing success output:\n%s", view)
	}
	if !strings.Contains(view, "beta broke") {
		t.Errorf("view missing error output:\n%s", view)
	}
	if strings.Contains(view, "loading") {
		t.Errorf("view still loading after results:\n%s", view)
	}
}

func TestCredentialChangeTriggersRefresh(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(credentialChangeMsg{})
	m = updated.(Model)

	if !m.refreshing {
		t.Error("credential change did not start a refresh")
	}
	if cmd == nil {
		t.Error("credential change returned no command")
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q returned no command, want quit")
	}
	if msg := cmd(); msg == nil {
		t.Error("quit command produced no message")
	}
}
