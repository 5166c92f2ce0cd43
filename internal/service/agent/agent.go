package agent

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/internal/service/reply"
	"github.com/sandevgo/dazi/pkg/log"
	"github.com/sandevgo/dazi/pkg/tokens"
)

type State int

const (
	AwaitingInput State = iota
	TurnInProgress
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting_input"
	case TurnInProgress:
		return "turn_in_progress"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var ErrNotAwaitingInput = errors.New("agent is not awaiting input")

type MemoryStore interface {
	Load(ctx context.Context) (core.Record, error)
	Snapshot() core.Record
	Commit(ctx context.Context, user, visible, rawMemory string) (core.Record, error)
}

type PromptBuilder interface {
	Build(rec core.Record) string
}

// Reply is one parsed model answer: what the user sees and what is remembered.
type Reply struct {
	Visible string
	Memory  string
}

// Agent runs turns strictly one after another. A turn is Ask, then showing
// the reply, then Commit; the next Ask is refused until Commit succeeded.
type Agent struct {
	ai     core.Completer
	store  MemoryStore
	prompt PromptBuilder
	state  State
}

func NewAgent(ai core.Completer, store MemoryStore, prompt PromptBuilder) *Agent {
	return &Agent{
		ai:     ai,
		store:  store,
		prompt: prompt,
		state:  AwaitingInput,
	}
}

func (a *Agent) State() State {
	return a.state
}

// Ask sends the input with the memory-bearing system prompt and returns the
// parsed, display-ready reply. Any failure ends the session.
func (a *Agent) Ask(ctx context.Context, input string) (Reply, error) {
	if a.state != AwaitingInput {
		return Reply{}, fmt.Errorf("%w: %s", ErrNotAwaitingInput, a.state)
	}
	a.state = TurnInProgress

	logger := log.FromCtx(ctx)

	system := a.prompt.Build(a.store.Snapshot())
	if zerolog.GlobalLevel() <= zerolog.DebugLevel && logger.GetLevel() <= zerolog.DebugLevel {
		counter := tokens.Default()
		logger.Debug().
			Int("prompt_tokens", counter.Count(system)+counter.Count(input)).
			Bool("tokens_exact", counter.Exact()).
			Msg("sending turn")
	}

	raw, err := a.ai.Complete(ctx, system, input)
	if err != nil {
		a.state = Done
		return Reply{}, fmt.Errorf("completion: %w", err)
	}

	visible, memory := reply.Parse(raw)
	r := Reply{
		Visible: reply.Sanitize(visible),
		Memory:  memory,
	}

	logger.Debug().
		Int("raw_chars", utf8.RuneCountInString(raw)).
		Int("visible_chars", utf8.RuneCountInString(r.Visible)).
		Bool("has_memory", r.Memory != "").
		Msg("reply parsed")

	return r, nil
}

// Commit records the finished turn and reloads the store so the next prompt
// reflects what was persisted.
func (a *Agent) Commit(ctx context.Context, input string, r Reply) error {
	if a.state != TurnInProgress {
		return fmt.Errorf("commit outside of a turn: %s", a.state)
	}

	rec, err := a.store.Commit(ctx, input, r.Visible, r.Memory)
	if err != nil {
		a.state = Done
		return err
	}
	if _, err := a.store.Load(ctx); err != nil {
		a.state = Done
		return fmt.Errorf("reload memory: %w", err)
	}

	log.FromCtx(ctx).Debug().Int("history", len(rec.History)).Msg("memory reloaded")

	a.state = AwaitingInput
	return nil
}

// Turn runs Ask and Commit back to back, calling show in between.
func (a *Agent) Turn(ctx context.Context, input string, show func(Reply) error) error {
	r, err := a.Ask(ctx, input)
	if err != nil {
		return err
	}
	if show != nil {
		if err := show(r); err != nil {
			a.state = Done
			return err
		}
	}
	return a.Commit(ctx, input, r)
}

// Finish ends the session.
func (a *Agent) Finish() {
	a.state = Done
}
