package model

import (
	"pecha/storage"
)

// StreamUpdateMsg carries one published snapshot of a streaming reply.
// Text is the full accumulated text so far (markers stripped); Base is
// pre-existing turn text when a truncated reply is being continued manually.
type StreamUpdateMsg struct {
	TurnID    string
	Base      string
	Text      string
	Citations []Citation
	Done      bool
	Truncated bool
}

// StreamErrorMsg reports a failed accumulation. Partial holds whatever text
// arrived before the failure; Unauthorized marks credential/quota failures
// that need re-authorization instead of a retry.
type StreamErrorMsg struct {
	TurnID       string
	Base         string
	Partial      string
	Err          error
	Unauthorized bool
}

// MarkdownRenderedMsg delivers an async markdown render for a turn
type MarkdownRenderedMsg struct {
	TurnIndex int
	Rendered  string
}

// LookupResultMsg delivers a one-shot explain/translate analysis
type LookupResultMsg struct {
	Kind   string // "explain" or "translate"
	Query  string
	Result string
	Err    error
}

// SpeechSynthesizedMsg reports where synthesized audio was written
type SpeechSynthesizedMsg struct {
	Path string
	Err  error
}

type SessionsListMsg struct {
	Sessions []storage.SessionMetadata
	Err      error
}

type SessionLoadedMsg struct {
	Session *storage.Session
	Err     error
}

type SessionSavedMsg struct {
	Err error
}

type SessionDeletedMsg struct {
	ID  string
	Err error
}

type SessionExportedMsg struct {
	Path string
	Err  error
}

type SessionImportedMsg struct {
	Session *storage.Session
	Err     error
}

type ModelsListMsg struct {
	Models []ModelInfo
	Err    error
}

type GlobalSearchResultsMsg struct {
	Query   string
	Matches []storage.ArchiveMatch
	Err     error
}

type WorkspaceSavedMsg struct {
	Err error
}
