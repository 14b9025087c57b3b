package stream

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// scriptedGenerator replays one fragment slice per call. The prompt and
// prefix passed on each call are recorded for assertions.
type scriptedGenerator struct {
	calls    [][]string
	prompts  []string
	prefixes []string
	err      error // returned after the last scripted call's fragments
}

func (g *scriptedGenerator) generate(ctx context.Context, prompt, prefix string, onFragment func(chunk string, cites []Citation) error) error {
	call := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	g.prefixes = append(g.prefixes, prefix)

	if call >= len(g.calls) {
		return nil
	}
	for _, chunk := range g.calls[call] {
		if err := onFragment(chunk, nil); err != nil {
			return err
		}
	}
	if call == len(g.calls)-1 {
		return g.err
	}
	return nil
}

func TestRunAccumulatesFragmentsInOrder(t *testing.T) {
	gen := &scriptedGenerator{calls: [][]string{{"The ", "lamp ", "flickers.", "[[DONE]]"}}}
	acc := New(gen.generate, Options{})

	var snapshots []string
	var final Update
	got, err := acc.Run(context.Background(), "describe the lamp", func(u Update) {
		snapshots = append(snapshots, u.Text)
		if u.Done {
			final = u
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "The lamp flickers." {
		t.Errorf("accumulated text = %q", got)
	}
	if final.Truncated {
		t.Error("reply should not be marked truncated")
	}

	// Every snapshot must be a prefix-growth of the previous one
	for i := 1; i < len(snapshots); i++ {
		if !strings.HasPrefix(snapshots[i], snapshots[i-1]) {
			t.Errorf("snapshot %d %q does not extend %q", i, snapshots[i], snapshots[i-1])
		}
	}
}

func TestRunChainsOnContinueMarker(t *testing.T) {
	gen := &scriptedGenerator{calls: [][]string{
		{"part one", "[[CONTINUE]]"},
		{" part two", "[[DONE]]"},
	}}
	acc := New(gen.generate, Options{ContinuePrompt: "keep going"})

	got, err := acc.Run(context.Background(), "original prompt", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "part one part two" {
		t.Errorf("accumulated text = %q", got)
	}

	if len(gen.prompts) != 2 {
		t.Fatalf("expected 2 generation calls, got %d", len(gen.prompts))
	}
	if gen.prompts[0] != "original prompt" {
		t.Errorf("first call prompt = %q", gen.prompts[0])
	}
	if gen.prompts[1] != "keep going" {
		t.Errorf("continuation prompt = %q", gen.prompts[1])
	}
	if gen.prefixes[0] != "" {
		t.Errorf("first call prefix = %q, want empty", gen.prefixes[0])
	}
	if gen.prefixes[1] != "part one" {
		t.Errorf("continuation prefix = %q", gen.prefixes[1])
	}
}

func TestRunStopsAtCharBudget(t *testing.T) {
	long := strings.Repeat("x", 50)
	gen := &scriptedGenerator{calls: [][]string{
		{long, "[[CONTINUE]]"},
		{long, "[[CONTINUE]]"},
		{long, "[[CONTINUE]]"},
	}}
	acc := New(gen.generate, Options{MaxChars: 80})

	var final Update
	got, err := acc.Run(context.Background(), "p", func(u Update) {
		if u.Done {
			final = u
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !final.Truncated {
		t.Error("budget-capped reply must be marked truncated")
	}
	if len(gen.prompts) != 2 {
		t.Errorf("expected 2 calls before the budget stopped chaining, got %d", len(gen.prompts))
	}
	if got != long+long {
		t.Errorf("accumulated %d chars, want %d", len(got), 2*len(long))
	}
}

func TestRunStopsAtCallCap(t *testing.T) {
	// Generator that asks to continue forever
	calls := make([][]string, 20)
	for i := range calls {
		calls[i] = []string{"a", "[[CONTINUE]]"}
	}
	gen := &scriptedGenerator{calls: calls}
	acc := New(gen.generate, Options{MaxCalls: 3})

	var final Update
	_, err := acc.Run(context.Background(), "p", func(u Update) {
		if u.Done {
			final = u
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gen.prompts) != 3 {
		t.Errorf("expected exactly 3 calls, got %d", len(gen.prompts))
	}
	if !final.Truncated {
		t.Error("call-capped reply must be marked truncated")
	}
}

func TestRunMissingMarkerFinishesClean(t *testing.T) {
	gen := &scriptedGenerator{calls: [][]string{{"just stopped"}}}
	acc := New(gen.generate, Options{})

	var final Update
	got, err := acc.Run(context.Background(), "p", func(u Update) {
		if u.Done {
			final = u
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "just stopped" {
		t.Errorf("text = %q", got)
	}
	if final.Truncated {
		t.Error("marker-less end is a normal finish, not a truncation")
	}
	if len(gen.prompts) != 1 {
		t.Errorf("expected a single call, got %d", len(gen.prompts))
	}
}

func TestRunEmptyStreamYieldsDoneUpdate(t *testing.T) {
	gen := &scriptedGenerator{calls: [][]string{{}}}
	acc := New(gen.generate, Options{})

	sawDone := false
	got, err := acc.Run(context.Background(), "p", func(u Update) {
		if u.Done {
			sawDone = true
			if u.Text != "" {
				t.Errorf("final text = %q, want empty", u.Text)
			}
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("text = %q, want empty", got)
	}
	if !sawDone {
		t.Error("empty stream must still publish a final Done update")
	}
}

func TestRunReturnsPartialOnGeneratorError(t *testing.T) {
	boom := errors.New("connection reset")
	gen := &scriptedGenerator{calls: [][]string{{"partial ", "text"}}, err: boom}
	acc := New(gen.generate, Options{})

	got, err := acc.Run(context.Background(), "p", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if got != "partial text" {
		t.Errorf("partial = %q", got)
	}
}

func TestRunCitationsReplaceWholesale(t *testing.T) {
	gen := func(ctx context.Context, prompt, prefix string, onFragment func(chunk string, cites []Citation) error) error {
		if err := onFragment("a", []Citation{{URI: "u1", Title: "first"}}); err != nil {
			return err
		}
		if err := onFragment("b", nil); err != nil {
			return err
		}
		return onFragment("c[[DONE]]", []Citation{{URI: "u2", Title: "second"}, {URI: "u3", Title: "third"}})
	}
	acc := New(gen, Options{})

	var final Update
	_, err := acc.Run(context.Background(), "p", func(u Update) {
		if u.Done {
			final = u
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(final.Citations) != 2 {
		t.Fatalf("citations = %v, want the replacement set of 2", final.Citations)
	}
	if final.Citations[0].URI != "u2" || final.Citations[1].URI != "u3" {
		t.Errorf("citations = %v", final.Citations)
	}
}

func TestStrip(t *testing.T) {
	acc := New(nil, Options{})

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"done marker with trailing newline", "reply text\n[[DONE]]\n", "reply text"},
		{"continue marker mid-text", "before [[CONTINUE]] after", "before  after"},
		{"mid-text marker keeps the reply's trailing newline", "before [[CONTINUE]] after\n", "before  after\n"},
		{"no markers stays verbatim", "  spaced text  ", "  spaced text  "},
		{"whitespace only stays verbatim", " \n\t ", " \n\t "},
		{"leading whitespace survives marker strip", "  indented[[DONE]]", "  indented"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := acc.Strip(tt.in); got != tt.want {
				t.Errorf("Strip(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRunCancelledContextStopsAccumulation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gen := func(ctx context.Context, prompt, prefix string, onFragment func(chunk string, cites []Citation) error) error {
		if err := onFragment("first", nil); err != nil {
			return err
		}
		cancel()
		return onFragment("late fragment", nil)
	}
	acc := New(gen, Options{})

	got, err := acc.Run(ctx, "p", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got != "first" {
		t.Errorf("partial = %q, late fragments must not be appended", got)
	}
}
