package ui

// UI-internal messages. Cross-cutting messages produced by business logic
// live in the model package; these only drive presentation effects.

// highlightFlashMsg ticks the jump-to-turn marker flash
type highlightFlashMsg struct{}

// statusClearMsg clears the transient status bar note
type statusClearMsg struct{}
