// Package flashcard implements the study side of medlex: building a card
// catalog from terms and phrases, keeping a persistent review basket, running
// a study session over a set of cards, and reporting session progress.
//
// A session cycles cards until each has been answered correctly once. Cards
// the learner did not know go to the back of the queue; known cards graduate
// and leave the rotation. After every accepted grade the engine pauses for a
// short transition before showing the next card. That pause runs on a
// Scheduler and is bound to the session ID and a generation counter, so a
// timer from a replaced or ended session never touches the current one.
package flashcard
