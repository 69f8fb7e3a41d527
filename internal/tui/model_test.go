package tui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medlex/medlex-api/internal/domain"
	"github.com/medlex/medlex-api/internal/flashcard"
)

var (
	space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	yes   = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}}
	no    = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}}
	again = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}
	quit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

// manualScheduler fires scheduled callbacks only when the test says so.
type manualScheduler struct {
	mu      sync.Mutex
	pending []func()
}

func (s *manualScheduler) AfterFunc(_ time.Duration, f func()) func() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, f)
	return func() bool { return false }
}

func (s *manualScheduler) fire() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, f := range pending {
		f()
	}
}

func testCards() []flashcard.Item {
	cardiology := domain.Category{ID: uuid.New(), Name: "Cardiology", Color: "#dc2626"}
	return []flashcard.Item{
		flashcard.TermItem(domain.Term{
			ID:            uuid.New(),
			Term:          "Tachycardia",
			Meaning:       "Abnormally rapid heart rate",
			Pronunciation: "tæk.ɪˈkɑːr.di.ə",
			Categories:    []domain.Category{cardiology},
		}),
		flashcard.PhraseItem(domain.Phrase{ID: uuid.New(), Phrase: "MI", Explanation: "Myocardial Infarction"}),
	}
}

func newTestModel(t *testing.T, opts ...flashcard.EngineOption) Model {
	t.Helper()
	opts = append([]flashcard.EngineOption{
		flashcard.WithShuffle(flashcard.IdentityShuffle),
		flashcard.WithTransitionDelay(0),
	}, opts...)
	m, err := NewModel(flashcard.NewEngine(opts...), testCards())
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func press(m Model, keys ...tea.KeyMsg) Model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func TestNewModel_EmptyCards(t *testing.T) {
	_, err := NewModel(flashcard.NewEngine(), nil)
	assert.ErrorIs(t, err, flashcard.ErrEmptyCardSet)
}

func TestModel_StudyFlow(t *testing.T) {
	m := newTestModel(t)

	view := m.View()
	assert.Contains(t, view, "Round 1 of 2")
	assert.Contains(t, view, "Tachycardia")
	assert.Contains(t, view, "Cardiology")
	assert.NotContains(t, view, "Abnormally rapid heart rate")

	m = press(m, space)
	assert.Equal(t, flashcard.AnswerShown, m.Snapshot().State)
	assert.Contains(t, m.View(), "Abnormally rapid heart rate")

	// Missed: Tachycardia goes to the back, MI is next.
	m = press(m, no)
	snap := m.Snapshot()
	assert.Equal(t, flashcard.AwaitingReveal, snap.State)
	assert.Equal(t, "MI", snap.CurrentCard.Front)
	assert.Equal(t, 1, snap.TotalReviews)
	assert.Equal(t, 0, snap.CorrectCount)

	m = press(m, space, yes, space, yes)
	snap = m.Snapshot()
	assert.Equal(t, flashcard.Complete, snap.State)
	assert.Equal(t, 3, snap.TotalReviews)
	assert.Equal(t, 2, snap.CorrectCount)

	view = m.View()
	assert.Contains(t, view, "Session complete!")
	assert.Contains(t, view, "2 cards in 3 reviews (66% accuracy)")
}

func TestModel_IgnoresKeysInvalidForState(t *testing.T) {
	m := newTestModel(t)

	// Grading before reveal does nothing.
	m = press(m, yes, no)
	assert.Equal(t, flashcard.AwaitingReveal, m.Snapshot().State)
	assert.Equal(t, 0, m.Snapshot().TotalReviews)

	// Restart only works once complete.
	id := m.Snapshot().SessionID
	m = press(m, again)
	assert.Equal(t, id, m.Snapshot().SessionID)
}

func TestModel_Restart(t *testing.T) {
	m := newTestModel(t)
	m = press(m, space, yes, space, yes)
	require.Equal(t, flashcard.Complete, m.Snapshot().State)
	first := m.Snapshot().SessionID

	m = press(m, again)
	snap := m.Snapshot()
	assert.Equal(t, flashcard.AwaitingReveal, snap.State)
	assert.NotEqual(t, first, snap.SessionID)
	assert.Equal(t, 0, snap.TotalReviews)
}

func TestModel_TimerDrivenAdvance(t *testing.T) {
	sched := &manualScheduler{}
	m := newTestModel(t, flashcard.WithScheduler(sched), flashcard.WithTransitionDelay(time.Second))
	wait := m.Init()

	m = press(m, space, yes)
	assert.Equal(t, flashcard.Transitioning, m.Snapshot().State)
	assert.Contains(t, m.View(), "next card...")

	sched.fire()

	msg := wait()
	require.IsType(t, changedMsg{}, msg)
	next, cmd := m.Update(msg)
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, flashcard.AwaitingReveal, m.Snapshot().State)
	assert.Equal(t, "MI", m.Snapshot().CurrentCard.Front)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t)

	next, cmd := m.Update(quit)
	m = next.(Model)

	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())
}

func TestModel_WindowSize(t *testing.T) {
	m := newTestModel(t)

	next, _ := m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	assert.Equal(t, 26, next.(Model).progress.Width)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 200, Height: 20})
	assert.Equal(t, maxProgressWidth, next.(Model).progress.Width)

	next, _ = m.Update(tea.WindowSizeMsg{Width: 5, Height: 20})
	assert.Equal(t, minProgressWidth, next.(Model).progress.Width)
}

func TestRun_QuitEndsSession(t *testing.T) {
	engine := flashcard.NewEngine(flashcard.WithShuffle(flashcard.IdentityShuffle))

	snap, err := Run(context.Background(), engine, testCards(),
		tea.WithInput(strings.NewReader("q")),
		tea.WithOutput(&bytes.Buffer{}),
	)
	require.NoError(t, err)

	assert.Equal(t, flashcard.AwaitingReveal, snap.State)
	assert.Len(t, snap.AllCards, 2)
	assert.Equal(t, flashcard.NotStarted, engine.Snapshot().State)
}
