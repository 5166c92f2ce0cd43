package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sandevgo/dazi/internal/core"
	"github.com/sandevgo/dazi/pkg/log"
)

const (
	// DefaultMaxHistory is the number of turns kept when no limit is configured.
	DefaultMaxHistory = 6

	fallbackVisibleLimit = 80
	ellipsis             = "..."
)

type Repository interface {
	Load(ctx context.Context) (core.Record, error)
	Save(ctx context.Context, rec core.Record) error
}

// Store owns the memory record: it loads the persisted snapshot, folds each turn
// into it and writes the whole record back.
type Store struct {
	repo       Repository
	maxHistory int

	mu       sync.Mutex
	snapshot core.Record
	loaded   bool
}

func NewStore(cfg core.MemoryConfig, repo Repository) *Store {
	maxHistory := cfg.GetMaxHistory()
	if maxHistory <= 0 {
		maxHistory = DefaultMaxHistory
	}
	return &Store{
		repo:       repo,
		maxHistory: maxHistory,
	}
}

func (s *Store) MaxHistory() int {
	return s.maxHistory
}

// Load reads the persisted record and makes it the current snapshot.
func (s *Store) Load(ctx context.Context) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (core.Record, error) {
	rec, err := s.repo.Load(ctx)
	if err != nil {
		return core.Record{}, err
	}
	s.snapshot = rec
	s.loaded = true
	return rec.Clone(), nil
}

// Snapshot returns a copy of the last loaded record.
func (s *Store) Snapshot() core.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.snapshot.Clone()
}

// Commit appends a turn, evicts the oldest turns beyond the limit, overwrites the
// archive with the turn's memory note and persists the record. The snapshot only
// changes once the write succeeded.
func (s *Store) Commit(ctx context.Context, user, visible, rawMemory string) (core.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		if _, err := s.load(ctx); err != nil {
			return core.Record{}, err
		}
	}

	note := EffectiveNote(user, visible, rawMemory)

	rec := s.snapshot.Clone()
	rec.History = append(rec.History, core.Turn{
		User:             user,
		AssistantVisible: visible,
		AssistantMemory:  note,
	})
	if len(rec.History) > s.maxHistory {
		rec.History = rec.History[len(rec.History)-s.maxHistory:]
	}
	rec.Archive = note

	if err := s.repo.Save(ctx, rec); err != nil {
		return core.Record{}, fmt.Errorf("commit turn: %w", err)
	}
	s.snapshot = rec

	log.FromCtx(ctx).Debug().
		Int("history", len(rec.History)).
		Bool("fallback_note", rawMemory == "").
		Msg("turn committed")

	return rec.Clone(), nil
}

// EffectiveNote returns the memory note stored for a turn: the model's own note when
// it wrote one, otherwise a note synthesised from the exchange.
func EffectiveNote(user, visible, rawMemory string) string {
	if rawMemory != "" {
		return rawMemory
	}
	return FallbackNote(user, visible)
}

// FallbackNote summarises a turn whose reply carried no memory note.
func FallbackNote(user, visible string) string {
	return fmt.Sprintf("【记录】用户：%s；回复摘要：%s", user, truncate(strings.TrimSpace(visible), fallbackVisibleLimit))
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
