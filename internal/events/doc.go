// Package events provides a small in-process publish/subscribe layer.
//
// Components that want to report something without knowing who cares about
// it (the flashcard basket when a save fails, the study engine when a pass
// completes) emit an Event; handlers registered on the emitter receive it.
// LogHandler writes every event to a slog logger.
package events
