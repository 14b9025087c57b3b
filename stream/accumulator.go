// Package stream implements incremental accumulation of generated text.
//
// A generation call delivers text fragment by fragment. The accumulator
// concatenates fragments into a single growing reply and republishes the full
// text after every fragment, so a renderer only ever deals with complete
// snapshots. When the generator signals that it ran out of room (by ending its
// output with a continuation marker) the accumulator chains a follow-up call,
// carrying the accumulated text forward, until a completion marker appears or
// the reply budget is exhausted. Markers are never shown to the user.
package stream

import (
	"context"
	"strings"
)

// Citation is a source reference returned alongside generated text.
type Citation struct {
	URI   string
	Title string
}

// Generator is one streaming generation call. It must invoke onFragment for
// every fragment in arrival order and return once the stream is finished.
// On chained continuation calls prefix carries the text accumulated so far,
// so the generator can present it as the assistant's partial reply.
// Citations passed to onFragment replace the previously known set wholesale;
// nil means "no new citation information".
type Generator func(ctx context.Context, prompt, prefix string, onFragment func(chunk string, cites []Citation) error) error

// Update is one published snapshot of the accumulated reply.
type Update struct {
	Text      string     // full accumulated text so far, markers stripped
	Citations []Citation // latest citation set observed
	Done      bool       // true only on the final update of a finished reply
	Truncated bool       // reply hit the budget while the generator wanted to continue
}

// Options configures the continuation protocol. Zero values fall back to the
// package defaults.
type Options struct {
	ContinueMarker string // sentinel the generator emits when it wants a follow-up call
	DoneMarker     string // sentinel the generator emits when the reply is complete
	ContinuePrompt string // directive sent on each follow-up call
	MaxChars       int    // budget on the total accumulated reply
	MaxCalls       int    // hard cap on chained calls, safety net against marker loops
}

const (
	defaultContinueMarker = "[[CONTINUE]]"
	defaultDoneMarker     = "[[DONE]]"
	defaultContinuePrompt = "Please continue exactly where you left off. Do not repeat earlier text."
	defaultMaxChars       = 60000
	defaultMaxCalls       = 8
)

func (o Options) withDefaults() Options {
	if o.ContinueMarker == "" {
		o.ContinueMarker = defaultContinueMarker
	}
	if o.DoneMarker == "" {
		o.DoneMarker = defaultDoneMarker
	}
	if o.ContinuePrompt == "" {
		o.ContinuePrompt = defaultContinuePrompt
	}
	if o.MaxChars <= 0 {
		o.MaxChars = defaultMaxChars
	}
	if o.MaxCalls <= 0 {
		o.MaxCalls = defaultMaxCalls
	}
	return o
}

// Accumulator drives one logical reply, possibly spanning several chained
// generation calls.
type Accumulator struct {
	gen  Generator
	opts Options
}

// New creates an accumulator over a generator.
func New(gen Generator, opts Options) *Accumulator {
	return &Accumulator{gen: gen, opts: opts.withDefaults()}
}

// Run produces one full reply. publish is invoked once per fragment with the
// complete accumulated text (markers stripped) and again, with Done set, when
// the reply is finished. On error the partial text accumulated so far is
// returned alongside the error; no retry is attempted here.
//
// publish is called from the goroutine running Run; it must not block for
// long. An empty fragment stream still yields a final Done update with empty
// text. Whitespace-only output is preserved verbatim.
func (a *Accumulator) Run(ctx context.Context, prompt string, publish func(Update)) (string, error) {
	var (
		raw   strings.Builder // everything received, markers included
		cites []Citation
	)

	emit := func(done, truncated bool) {
		if publish != nil {
			publish(Update{
				Text:      a.Strip(raw.String()),
				Citations: cites,
				Done:      done,
				Truncated: truncated,
			})
		}
	}

	callPrompt := prompt
	for call := 0; call < a.opts.MaxCalls; call++ {
		prefix := ""
		if call > 0 {
			prefix = a.Strip(raw.String())
		}
		err := a.gen(ctx, callPrompt, prefix, func(chunk string, newCites []Citation) error {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			raw.WriteString(chunk)
			if len(newCites) > 0 {
				cites = newCites
			}
			emit(false, false)
			return nil
		})
		if err != nil {
			return a.Strip(raw.String()), err
		}

		tail := strings.TrimRight(raw.String(), " \t\r\n")
		switch {
		case strings.HasSuffix(tail, a.opts.DoneMarker):
			emit(true, false)
			return a.Strip(raw.String()), nil

		case strings.HasSuffix(tail, a.opts.ContinueMarker):
			if len(a.Strip(raw.String())) >= a.opts.MaxChars {
				// Budget reached: finish with what we have.
				emit(true, true)
				return a.Strip(raw.String()), nil
			}
			callPrompt = a.opts.ContinuePrompt
			continue

		default:
			// No marker at all: the generator simply stopped.
			emit(true, false)
			return a.Strip(raw.String()), nil
		}
	}

	// Call cap reached while the generator still wanted to continue.
	emit(true, true)
	return a.Strip(raw.String()), nil
}

// Strip removes all occurrences of both markers and trims the trailing
// whitespace a terminating marker leaves behind. Leading and interior
// whitespace is preserved: trimming input is the caller's concern, not the
// accumulator's.
func (a *Accumulator) Strip(text string) string {
	stripped := strings.ReplaceAll(text, a.opts.ContinueMarker, "")
	stripped = strings.ReplaceAll(stripped, a.opts.DoneMarker, "")
	if stripped == text {
		// No marker (including all-whitespace output): verbatim.
		return stripped
	}
	// Only a marker that ended the text frames trailing whitespace worth
	// dropping. A mid-text marker must not cost the reply its own trailing
	// newline.
	tail := strings.TrimRight(text, " \t\r\n")
	if strings.HasSuffix(tail, a.opts.ContinueMarker) || strings.HasSuffix(tail, a.opts.DoneMarker) {
		stripped = strings.TrimRight(stripped, " \t\r\n")
	}
	return stripped
}

// Options returns the effective options after defaulting.
func (a *Accumulator) Options() Options {
	return a.opts
}
