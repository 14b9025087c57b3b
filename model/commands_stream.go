package model

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"pecha/config"
	"pecha/stream"
)

// StreamFeed delivers accumulator updates into the bubbletea loop. The
// goroutine running the accumulator pushes messages into the channel; the UI
// re-issues Listen after every received message until the feed closes.
type StreamFeed struct {
	ch chan tea.Msg
}

// Listen returns a command that waits for the next stream message
func (f *StreamFeed) Listen() tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-f.ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Listen continues receiving from the model's active feed
func (m *Model) Listen() tea.Cmd {
	return m.feed.Listen()
}

// StartReply begins streaming a reply into the assistant turn named by
// turnID. prior is the transcript context (excluding the prompting user turn,
// which is passed as prompt, and the target assistant turn). base is existing
// turn text to keep in front of the new stream; it is non-empty only when the
// user manually continues a truncated reply.
//
// Returns stream.ErrBusy while another reply is in flight: at most one
// accumulation runs per conversation, a second send is a no-op.
func (m *Model) StartReply(turnID, prompt string, prior []Turn, base string) (tea.Cmd, error) {
	ctx, err := m.Stream.Start(context.Background())
	if err != nil {
		return nil, err
	}

	acc := stream.New(m.generator(prior, base), optionsFromConfig(m.Config.Assistant))
	feed := &StreamFeed{ch: make(chan tea.Msg, 64)}

	m.StreamTurnID = turnID
	m.feed = feed

	session := m.Stream
	go func() {
		defer session.Finish()
		defer close(feed.ch)

		partial, err := acc.Run(ctx, prompt, func(u stream.Update) {
			feed.ch <- StreamUpdateMsg{
				TurnID:    turnID,
				Base:      base,
				Text:      u.Text,
				Citations: citationsFromStream(u.Citations),
				Done:      u.Done,
				Truncated: u.Truncated,
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			feed.ch <- StreamErrorMsg{
				TurnID:       turnID,
				Base:         base,
				Partial:      partial,
				Err:          err,
				Unauthorized: errors.Is(err, ErrUnauthorized),
			}
		}
	}()

	return feed.Listen(), nil
}

// CancelStream aborts the in-flight reply, if any. Late fragments fail the
// accumulator's context check; the feed closes shortly after.
func (m *Model) CancelStream() {
	m.Stream.Cancel()
	m.StreamTurnID = ""
	m.feed = nil
}

// FinishStream clears streaming bookkeeping after a final update or error
func (m *Model) FinishStream() {
	m.StreamTurnID = ""
	m.feed = nil
}

// generator adapts the active Provider into a stream.Generator: it rebuilds
// the message list for every chained call, inserting the accumulated prefix
// as the assistant's partial reply so continuation calls pick up mid-thought.
func (m *Model) generator(prior []Turn, base string) stream.Generator {
	prov := m.Provider
	system := m.SystemPrompt()

	return func(ctx context.Context, prompt, prefix string, onFragment func(chunk string, cites []stream.Citation) error) error {
		turns := make([]Turn, 0, len(prior)+3)
		if system != "" {
			turns = append(turns, Turn{Role: RoleSystem, Text: system})
		}
		turns = append(turns, prior...)

		partial := base
		if prefix != "" {
			partial += prefix
		}
		if partial != "" {
			turns = append(turns, Turn{Role: RoleAssistant, Text: partial})
		}
		turns = append(turns, Turn{Role: RoleUser, Text: prompt})

		return prov.Chat(ctx, turns, func(chunk string, cites []Citation) error {
			return onFragment(chunk, citationsToStream(cites))
		})
	}
}

func optionsFromConfig(a config.AssistantConfig) stream.Options {
	return stream.Options{
		ContinueMarker: a.ContinueMarker,
		DoneMarker:     a.DoneMarker,
		ContinuePrompt: a.ContinuePrompt,
		MaxChars:       a.MaxReplyChars,
	}
}

func citationsFromStream(cites []stream.Citation) []Citation {
	if len(cites) == 0 {
		return nil
	}
	out := make([]Citation, len(cites))
	for i, c := range cites {
		out[i] = Citation{URI: c.URI, Title: c.Title}
	}
	return out
}

func citationsToStream(cites []Citation) []stream.Citation {
	if len(cites) == 0 {
		return nil
	}
	out := make([]stream.Citation, len(cites))
	for i, c := range cites {
		out[i] = stream.Citation{URI: c.URI, Title: c.Title}
	}
	return out
}
