package flashcard

import (
	"math/rand/v2"
	"time"
)

// DefaultTransitionDelay is how long a graded card stays on screen before
// the next one is shown.
const DefaultTransitionDelay = 1500 * time.Millisecond

// Scheduler runs f once after d. The returned stop func cancels the call
// if it has not run yet and reports whether it did so.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// TimerScheduler schedules with time.AfterFunc.
type TimerScheduler struct{}

// AfterFunc implements Scheduler.
func (TimerScheduler) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// ShuffleFunc reorders cards in place.
type ShuffleFunc func(cards []Item)

// RandomShuffle is a uniform Fisher-Yates shuffle.
func RandomShuffle(cards []Item) {
	rand.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

// IdentityShuffle leaves cards in their given order.
func IdentityShuffle([]Item) {}
