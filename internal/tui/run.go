package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/medlex/medlex-api/internal/flashcard"
)

// Run studies cards full-screen until the learner quits or ctx is cancelled,
// then ends the session and returns its last state. Extra options are passed
// to the bubbletea program after the defaults.
func Run(
	ctx context.Context,
	engine *flashcard.Engine,
	cards []flashcard.Item,
	opts ...tea.ProgramOption,
) (flashcard.Snapshot, error) {
	m, err := NewModel(engine, cards)
	if err != nil {
		return flashcard.Snapshot{}, err
	}
	defer m.Close()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, runErr := tea.NewProgram(m, opts...).Run()

	snap := engine.Snapshot()
	engine.End()

	if runErr != nil {
		return snap, fmt.Errorf("study screen failed: %w", runErr)
	}
	return snap, nil
}
