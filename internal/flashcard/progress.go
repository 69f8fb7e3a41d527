package flashcard

import "fmt"

// ProgressPercent is the share of cards that have left the queue, 0-100.
func ProgressPercent(s Snapshot) float64 {
	total := len(s.AllCards)
	if total == 0 {
		return 0
	}
	return 100 * float64(total-len(s.RemainingCards)) / float64(total)
}

// Round returns the 1-based round n out of m. complete is true once the
// queue is empty, in which case n is meaningless.
func Round(s Snapshot) (n, m int, complete bool) {
	m = len(s.AllCards)
	if len(s.RemainingCards) == 0 {
		return m, m, true
	}
	return m - len(s.RemainingCards) + 1, m, false
}

// RoundLabel renders Round as "Round N of M", or "Complete".
func RoundLabel(s Snapshot) string {
	n, m, complete := Round(s)
	if complete {
		return "Complete"
	}
	return fmt.Sprintf("Round %d of %d", n, m)
}
