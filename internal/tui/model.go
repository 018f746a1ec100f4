// Package tui is the watch-mode terminal UI: it re-runs every provider
// query on an interval and immediately after a credential file changes,
// rendering each provider's report side by side.
package tui

import (
	"context"
	"log"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"

	"github.com/openquota/openquota/internal/core"
	"github.com/openquota/openquota/internal/httpx"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	sectionStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).MarginRight(1)
	nameStyle    = lipgloss.NewStyle().Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle  = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

type resultsMsg map[string]core.QueryResult

type tickMsg time.Time

type credentialChangeMsg struct{}

type Model struct {
	providers  []core.Provider
	runner     *core.Runner
	interval   time.Duration
	watcher    *fsnotify.Watcher
	results    map[string]core.QueryResult
	refreshing bool
	lastUpdate time.Time
}

// New builds the watch model. credentialsDir is watched for changes so a
// fresh login shows up without waiting for the next tick; watch setup
// failure is non-fatal.
func New(providers []core.Provider, interval time.Duration, credentialsDir string) Model {
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err := watcher.Add(credentialsDir); err != nil {
			log.Printf("[tui] watching %s: %v", credentialsDir, err)
			watcher.Close()
			watcher = nil
		}
	} else {
		log.Printf("[tui] fsnotify: %v", err)
		watcher = nil
	}

	return Model{
		providers: providers,
		runner:    core.NewRunner(providers, httpx.RequestTimeout),
		interval:  interval,
		watcher:   watcher,
		results:   make(map[string]core.QueryResult),
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.refresh(), m.tick()}
	if m.watcher != nil {
		cmds = append(cmds, m.waitForCredentialChange())
	}
	return tea.Batch(cmds...)
}

func (m Model) refresh() tea.Cmd {
	runner := m.runner
	return func() tea.Msg {
		return resultsMsg(runner.QueryAll(context.Background()))
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForCredentialChange() tea.Cmd {
	watcher := m.watcher
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					return credentialChangeMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				log.Printf("[tui] watch error: %v", err)
			}
		}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.watcher != nil {
				m.watcher.Close()
			}
			return m, tea.Quit
		case "r":
			if !m.refreshing {
				m.refreshing = true
				return m, m.refresh()
			}
		}

	case resultsMsg:
		m.results = msg
		m.refreshing = false
		m.lastUpdate = time.Now()
		return m, nil

	case tickMsg:
		cmds := []tea.Cmd{m.tick()}
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.refresh())
		}
		return m, tea.Batch(cmds...)

	case credentialChangeMsg:
		cmds := []tea.Cmd{m.waitForCredentialChange()}
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.refresh())
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("openquota · provider quota watch"))
	b.WriteString("\n\n")

	sections := lo.Map(m.providers, func(p core.Provider, _ int) string {
		name := nameStyle.Render(p.Describe().Name)
		res, ok := m.results[p.ID()]
		switch {
		case !ok:
			return sectionStyle.Render(name + "\n\nloading...")
		case res.Success:
			return sectionStyle.Render(name + "\n\n" + res.Output)
		default:
			return sectionStyle.Render(name + "\n\n" + errorStyle.Render(res.Error))
		}
	})
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sections...))
	b.WriteString("\n")

	status := "r refresh · q quit"
	if m.refreshing {
		status = "refreshing... · " + status
	} else if !m.lastUpdate.IsZero() {
		status = "updated " + m.lastUpdate.Format("15:04:05") + " · " + status
	}
	b.WriteString(statusStyle.Render(status))
	b.WriteString("\n")

	return b.String()
}
