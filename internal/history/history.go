// Package history keeps the bounded, most-recent-first list of completed
// translations and mirrors it to a persistence slot after every change.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

const (
	MaxEntries = 50
	SlotName   = "translationHistory"
)

var ErrPersist = errors.New("failed to persist history")

type Entry struct {
	ID             string `json:"id"`
	SourceText     string `json:"sourceText"`
	TranslatedText string `json:"translatedText"`
	SourceLang     string `json:"sourceLang"`
	TargetLang     string `json:"targetLang"`
	SourceLangName string `json:"sourceLangName"`
	TargetLangName string `json:"targetLangName"`
	Timestamp      int64  `json:"timestamp"`
}

// Time returns the entry timestamp as a time.Time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

// Slot is the durable home of the serialized list. Load returns nil data when
// nothing has been saved yet.
type Slot interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

type Store struct {
	mu      sync.Mutex
	slot    Slot
	entries []Entry
	now     func() time.Time
	newID   func() string
	logger  *zap.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithIDs(newID func() string) Option {
	return func(s *Store) {
		s.newID = newID
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:   slot,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory list with the slot contents. Unreadable or
// corrupt data is logged and treated as an empty history. Only a cancelled
// context is returned.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.slot.Load(ctx)
	if err != nil && ctx.Err() != nil {
		return fmt.Errorf("failed to load history: %w", ctx.Err())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	if err != nil {
		s.logger.Warn("PersistenceUnreadable: starting with an empty history",
			zap.String("slot", SlotName),
			zap.Error(err))
		return nil
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var loaded []Entry
	if err := json.Unmarshal(data, &loaded); err != nil {
		s.logger.Warn("PersistenceCorrupt: discarding stored history",
			zap.String("slot", SlotName),
			zap.Int("bytes", len(data)),
			zap.Error(err))
		return nil
	}

	if len(loaded) > MaxEntries {
		loaded = loaded[:MaxEntries]
	}
	for i := range loaded {
		if loaded[i].ID == "" {
			loaded[i].ID = s.newID()
		}
	}
	s.entries = loaded
	return nil
}

// Add prepends e, dropping the oldest entry once the list is full. A missing ID
// or timestamp is filled in. The stored entry is returned.
func (s *Store) Add(ctx context.Context, e Entry) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = s.newID()
	}
	if e.Timestamp == 0 {
		e.Timestamp = s.now().UnixMilli()
	}

	next := make([]Entry, 0, min(len(s.entries)+1, MaxEntries))
	next = append(next, e)
	next = append(next, s.entries...)
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	s.entries = next

	return e, s.persist(ctx)
}

// Remove deletes the entry with the given id. An unknown id is not an error.
func (s *Store) Remove(ctx context.Context, id string) error {
	return s.filter(ctx, func(e Entry) bool { return e.ID != id })
}

// RemoveTimestamp deletes every entry recorded at ts.
func (s *Store) RemoveTimestamp(ctx context.Context, ts int64) error {
	return s.filter(ctx, func(e Entry) bool { return e.Timestamp != ts })
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil
	return s.persist(ctx)
}

func (s *Store) filter(ctx context.Context, keep func(Entry) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.entries[:0:0]
	for _, e := range s.entries {
		if keep(e) {
			next = append(next, e)
		}
	}
	s.entries = next
	return s.persist(ctx)
}

// persist writes the whole list. Memory is not rolled back on failure.
// Callers hold s.mu.
func (s *Store) persist(ctx context.Context) error {
	entries := s.entries
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := s.slot.Save(ctx, data); err != nil {
		s.logger.Warn("history write failed, keeping in-memory state",
			zap.Int("entries", len(s.entries)),
			zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// List returns a copy of the entries, most recent first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Search returns the entries whose source or translated text contains query,
// compared after NFC normalization and case folding.
func (s *Store) Search(query string) []Entry {
	q := fold(query)
	if q == "" {
		return s.List()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for _, e := range s.entries {
		if strings.Contains(fold(e.SourceText), q) || strings.Contains(fold(e.TranslatedText), q) {
			out = append(out, e)
		}
	}
	return out
}

func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}
