package flashcard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/medlex/medlex-api/internal/events"
)

// ErrEmptyCardSet is returned by Start when there is nothing to study.
var ErrEmptyCardSet = errors.New("cannot start a study session without cards")

// State is the phase of a study session.
type State int

const (
	NotStarted State = iota
	AwaitingReveal
	AnswerShown
	Transitioning
	Complete
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case AwaitingReveal:
		return "awaiting_reveal"
	case AnswerShown:
		return "answer_shown"
	case Transitioning:
		return "transitioning"
	case Complete:
		return "complete"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of the session state at one moment.
type Snapshot struct {
	SessionID       string
	State           State
	AllCards        []Item
	RemainingCards  []Item
	CorrectCards    []Item
	CurrentCard     *Item
	ShowAnswer      bool
	IsTransitioning bool
	CorrectCount    int
	TotalReviews    int
}

type session struct {
	id            string
	all           []Item
	remaining     []Item
	correct       []Item
	current       *Item
	showAnswer    bool
	transitioning bool
	correctCount  int
	totalReviews  int
}

func (s *session) state() State {
	switch {
	case s.current == nil:
		return Complete
	case s.transitioning:
		return Transitioning
	case s.showAnswer:
		return AnswerShown
	default:
		return AwaitingReveal
	}
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithScheduler replaces the timer used for the post-grade transition.
func WithScheduler(s Scheduler) EngineOption {
	return func(e *Engine) { e.scheduler = s }
}

// WithShuffle replaces the shuffle applied at Start.
func WithShuffle(f ShuffleFunc) EngineOption {
	return func(e *Engine) { e.shuffle = f }
}

// WithTransitionDelay sets the post-grade pause. A delay of zero or less
// advances to the next card immediately.
func WithTransitionDelay(d time.Duration) EngineOption {
	return func(e *Engine) { e.delay = d }
}

// WithEmitter publishes study.session_completed on emitter.
func WithEmitter(emitter events.EventEmitter) EngineOption {
	return func(e *Engine) { e.emitter = emitter }
}

// WithLogger sets the engine logger.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine runs one study session at a time. All methods are safe for
// concurrent use; invalid actions are ignored and report false.
type Engine struct {
	mu         sync.Mutex
	sess       *session
	generation uint64
	stopTimer  func() bool
	observers  []func(Snapshot)

	scheduler Scheduler
	shuffle   ShuffleFunc
	delay     time.Duration
	emitter   events.EventEmitter
	newID     func() (string, error)
	logger    *slog.Logger
}

// NewEngine creates an engine with no session.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		scheduler: TimerScheduler{},
		shuffle:   RandomShuffle,
		delay:     DefaultTransitionDelay,
		newID:     func() (string, error) { return gonanoid.New() },
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(slog.String("component", "study_engine"))
	return e
}

// OnChange registers fn to receive a snapshot after every accepted
// transition, including the timer-driven advance. fn runs without the
// engine lock held and may call back into the engine.
func (e *Engine) OnChange(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, fn)
}

// Start begins a new session over a shuffled copy of cards, replacing any
// current one. An empty cards leaves the engine untouched and returns
// ErrEmptyCardSet.
func (e *Engine) Start(cards []Item) (Snapshot, error) {
	if len(cards) == 0 {
		return e.Snapshot(), ErrEmptyCardSet
	}

	id, err := e.newID()
	if err != nil {
		return e.Snapshot(), err
	}

	all := cloneItems(cards)
	e.shuffle(all)
	first := all[0]

	e.mu.Lock()
	e.cancelTimerLocked()
	e.generation++
	e.sess = &session{
		id:        id,
		all:       all,
		remaining: cloneItems(all),
		correct:   []Item{},
		current:   &first,
	}
	e.logger.Debug("study session started",
		slog.String("session_id", id),
		slog.Int("cards", len(all)))
	snap, observers := e.snapshotLocked(), e.observersLocked()
	e.mu.Unlock()

	notify(observers, snap)
	return snap, nil
}

// Reveal shows the answer of the current card.
func (e *Engine) Reveal() bool {
	e.mu.Lock()
	if e.sess == nil || e.sess.state() != AwaitingReveal {
		e.mu.Unlock()
		return false
	}
	e.sess.showAnswer = true
	snap, observers := e.snapshotLocked(), e.observersLocked()
	e.mu.Unlock()

	notify(observers, snap)
	return true
}

// Grade records whether the learner knew the current card. A known card
// graduates; an unknown card goes to the back of the queue. The next card
// is shown after the transition delay.
func (e *Engine) Grade(knew bool) bool {
	e.mu.Lock()
	s := e.sess
	if s == nil || s.state() != AnswerShown {
		e.mu.Unlock()
		return false
	}

	card := s.remaining[0]
	remaining := make([]Item, 0, len(s.remaining))
	remaining = append(remaining, s.remaining[1:]...)
	if knew {
		s.correct = append(s.correct, card)
		s.correctCount++
	} else {
		remaining = append(remaining, card)
	}
	s.remaining = remaining
	s.totalReviews++
	s.transitioning = true

	e.generation++
	gen, id := e.generation, s.id

	if e.delay <= 0 {
		completed := e.advanceLocked()
		snap, observers := e.snapshotLocked(), e.observersLocked()
		e.mu.Unlock()
		e.finish(completed, snap, observers)
		return true
	}

	e.stopTimer = e.scheduler.AfterFunc(e.delay, func() { e.advance(id, gen) })
	snap, observers := e.snapshotLocked(), e.observersLocked()
	e.mu.Unlock()

	notify(observers, snap)
	return true
}

// advance is the transition timer callback. It does nothing when the
// session it was scheduled for has been replaced, ended or regraded.
func (e *Engine) advance(sessionID string, gen uint64) {
	e.mu.Lock()
	if e.sess == nil || e.sess.id != sessionID || e.generation != gen || !e.sess.transitioning {
		e.mu.Unlock()
		e.logger.Debug("ignoring stale transition", slog.String("session_id", sessionID))
		return
	}
	e.stopTimer = nil
	completed := e.advanceLocked()
	snap, observers := e.snapshotLocked(), e.observersLocked()
	e.mu.Unlock()

	e.finish(completed, snap, observers)
}

// advanceLocked moves to the front of the queue and reports whether the
// session just completed.
func (e *Engine) advanceLocked() bool {
	s := e.sess
	s.showAnswer = false
	s.transitioning = false
	if len(s.remaining) == 0 {
		s.current = nil
		return true
	}
	next := s.remaining[0]
	s.current = &next
	return false
}

func (e *Engine) finish(completed bool, snap Snapshot, observers []func(Snapshot)) {
	if completed {
		e.logger.Info("study session completed",
			slog.String("session_id", snap.SessionID),
			slog.Int("cards", len(snap.AllCards)),
			slog.Int("total_reviews", snap.TotalReviews))
		_ = events.Emit(context.Background(), e.emitter, events.TypeStudySessionCompleted, map[string]any{
			"session_id":    snap.SessionID,
			"cards":         len(snap.AllCards),
			"correct_count": snap.CorrectCount,
			"total_reviews": snap.TotalReviews,
		})
	}
	notify(observers, snap)
}

// End discards the current session and cancels its pending transition.
func (e *Engine) End() {
	e.mu.Lock()
	if e.sess == nil {
		e.mu.Unlock()
		return
	}
	e.cancelTimerLocked()
	e.generation++
	e.logger.Debug("study session ended", slog.String("session_id", e.sess.id))
	e.sess = nil
	snap, observers := e.snapshotLocked(), e.observersLocked()
	e.mu.Unlock()

	notify(observers, snap)
}

// Snapshot returns the current session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) cancelTimerLocked() {
	if e.stopTimer != nil {
		e.stopTimer()
		e.stopTimer = nil
	}
}

func (e *Engine) observersLocked() []func(Snapshot) {
	if len(e.observers) == 0 {
		return nil
	}
	out := make([]func(Snapshot), len(e.observers))
	copy(out, e.observers)
	return out
}

func (e *Engine) snapshotLocked() Snapshot {
	s := e.sess
	if s == nil {
		return Snapshot{
			State:          NotStarted,
			AllCards:       []Item{},
			RemainingCards: []Item{},
			CorrectCards:   []Item{},
		}
	}
	snap := Snapshot{
		SessionID:       s.id,
		State:           s.state(),
		AllCards:        cloneItems(s.all),
		RemainingCards:  cloneItems(s.remaining),
		CorrectCards:    cloneItems(s.correct),
		ShowAnswer:      s.showAnswer,
		IsTransitioning: s.transitioning,
		CorrectCount:    s.correctCount,
		TotalReviews:    s.totalReviews,
	}
	if s.current != nil {
		current := *s.current
		snap.CurrentCard = &current
	}
	return snap
}

func notify(observers []func(Snapshot), snap Snapshot) {
	for _, fn := range observers {
		fn(snap)
	}
}
