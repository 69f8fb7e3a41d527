// Package tui is the terminal study screen: a bubbletea program that drives a
// flashcard.Engine from the keyboard and renders the current card, the round
// and a progress bar.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/medlex/medlex-api/internal/flashcard"
)

// Progress bar width bounds, in cells.
const (
	minProgressWidth = 10
	maxProgressWidth = 60
)

// changedMsg tells the model the engine state moved on its own, i.e. the
// transition timer fired.
type changedMsg struct{}

// Model is the bubbletea model of a study session.
type Model struct {
	engine  *flashcard.Engine
	cards   []flashcard.Item
	changed chan struct{}
	done    chan struct{}

	snap     flashcard.Snapshot
	progress progress.Model
	help     help.Model
	keys     keyMap
	styles   Styles
	quitting bool
}

var _ tea.Model = Model{}

// NewModel starts a session over cards on engine. It returns
// flashcard.ErrEmptyCardSet when cards is empty.
func NewModel(engine *flashcard.Engine, cards []flashcard.Item) (Model, error) {
	m := Model{
		engine:   engine,
		cards:    cards,
		changed:  make(chan struct{}, 1),
		done:     make(chan struct{}),
		progress: progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		keys:     defaultKeyMap(),
		styles:   DefaultStyles(),
	}
	m.progress.Width = maxProgressWidth

	changed := m.changed
	engine.OnChange(func(flashcard.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	snap, err := engine.Start(cards)
	if err != nil {
		return Model{}, err
	}
	m.setSnapshot(snap)
	return m, nil
}

// Close stops the goroutine waiting for engine changes.
func (m Model) Close() {
	select {
	case <-m.done:
	default:
		close(m.done)
	}
}

// Snapshot is the session state the model last rendered.
func (m Model) Snapshot() flashcard.Snapshot {
	return m.snap
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) waitForChange() tea.Cmd {
	changed, done := m.changed, m.done
	return func() tea.Msg {
		select {
		case <-changed:
			return changedMsg{}
		case <-done:
			return nil
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.progress.Width = max(min(msg.Width-4, maxProgressWidth), minProgressWidth)
		m.help.Width = msg.Width
		return m, nil

	case changedMsg:
		m.setSnapshot(m.engine.Snapshot())
		return m, m.waitForChange()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reveal):
			m.engine.Reveal()
		case key.Matches(msg, m.keys.Knew):
			m.engine.Grade(true)
		case key.Matches(msg, m.keys.Missed):
			m.engine.Grade(false)
		case key.Matches(msg, m.keys.Restart):
			if _, err := m.engine.Start(m.cards); err != nil {
				return m, nil
			}
		}
		m.setSnapshot(m.engine.Snapshot())
	}
	return m, nil
}

// setSnapshot stores snap and enables only the keys valid in its state.
func (m *Model) setSnapshot(snap flashcard.Snapshot) {
	m.snap = snap
	m.keys.Reveal.SetEnabled(snap.State == flashcard.AwaitingReveal)
	m.keys.Knew.SetEnabled(snap.State == flashcard.AnswerShown)
	m.keys.Missed.SetEnabled(snap.State == flashcard.AnswerShown)
	m.keys.Restart.SetEnabled(snap.State == flashcard.Complete)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header.Render("medlex study"))
	b.WriteString("  ")
	b.WriteString(flashcard.RoundLabel(m.snap))
	b.WriteString("  ")
	b.WriteString(m.styles.Stats.Render(fmt.Sprintf("correct %d · reviews %d", m.snap.CorrectCount, m.snap.TotalReviews)))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(flashcard.ProgressPercent(m.snap) / 100))
	b.WriteString("\n\n")

	if m.snap.State == flashcard.Complete || m.snap.CurrentCard == nil {
		b.WriteString(m.completeView())
	} else {
		b.WriteString(m.styles.Card.Render(m.cardView(*m.snap.CurrentCard)))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) cardView(card flashcard.Item) string {
	lines := make([]string, 0, 6)

	badges := []string{m.styles.categoryBadge(strings.ToUpper(string(card.Type)), "#4b5563")}
	for _, c := range card.Categories {
		badges = append(badges, m.styles.categoryBadge(c.Name, c.Color))
	}
	lines = append(lines, strings.Join(badges, " "))
	lines = append(lines, m.styles.Front.Render(card.Front))
	if card.Pronunciation != "" {
		lines = append(lines, m.styles.Pronunciation.Render("/"+card.Pronunciation+"/"))
	}

	if m.snap.ShowAnswer {
		lines = append(lines, m.styles.Divider.Render("answer"), m.styles.Back.Render(card.Back))
	}
	if m.snap.IsTransitioning {
		lines = append(lines, m.styles.Waiting.Render("next card..."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) completeView() string {
	accuracy := 0
	if m.snap.TotalReviews > 0 {
		accuracy = 100 * m.snap.CorrectCount / m.snap.TotalReviews
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Complete.Render("Session complete!"),
		fmt.Sprintf("%d cards in %d reviews (%d%% accuracy)",
			len(m.snap.AllCards), m.snap.TotalReviews, accuracy),
	)
}
