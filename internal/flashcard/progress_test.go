package flashcard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress(t *testing.T) {
	t.Parallel()

	assert.Zero(t, ProgressPercent(Snapshot{}))

	e, sched := newTestEngine()
	_, err := e.Start([]Item{card("a"), card("b"), card("c"), card("d")})
	require.NoError(t, err)

	snap := e.Snapshot()
	assert.Equal(t, 0.0, ProgressPercent(snap))
	assert.Equal(t, "Round 1 of 4", RoundLabel(snap))

	gradeAndAdvance(t, e, sched, true)
	snap = e.Snapshot()
	assert.Equal(t, 25.0, ProgressPercent(snap))
	assert.Equal(t, "Round 2 of 4", RoundLabel(snap))

	// A failed card stays in the queue, so progress does not move.
	gradeAndAdvance(t, e, sched, false)
	snap = e.Snapshot()
	assert.Equal(t, 25.0, ProgressPercent(snap))
	assert.Equal(t, "Round 2 of 4", RoundLabel(snap))

	for e.Snapshot().State != Complete {
		gradeAndAdvance(t, e, sched, true)
	}
	snap = e.Snapshot()
	assert.Equal(t, 100.0, ProgressPercent(snap))
	assert.Equal(t, "Complete", RoundLabel(snap))
	n, m, complete := Round(snap)
	assert.True(t, complete)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, m)
}
