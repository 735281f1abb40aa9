package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Store loads and persists conversation records on top of a Storage.
// Expiry is logical: a record older than the TTL is replaced on load.
type Store struct {
	storage  Storage
	ttl      time.Duration
	maxTurns int
	now      func() time.Time
}

func NewStore(storage Storage, ttl time.Duration, maxTurns int) *Store {
	return &Store{storage: storage, ttl: ttl, maxTurns: maxTurns, now: time.Now}
}

// Get returns the live record for the conversation, or a fresh one when none
// exists or the stored one is stale. Stale records are never merged.
func (s *Store) Get(ctx context.Context, endpointID, senderID string) (*Record, error) {
	rec, err := s.Find(ctx, endpointID, senderID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	now := s.now()
	return &Record{
		ID:         Key(endpointID, senderID),
		EndpointID: endpointID,
		SenderID:   senderID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Find returns the stored record without creating one. Stale records are
// reported as ErrNotFound.
func (s *Store) Find(ctx context.Context, endpointID, senderID string) (*Record, error) {
	key := Key(endpointID, senderID)
	doc, err := s.storage.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading conversation %s: %w", key, err)
	}

	var rec Record
	if err := json.Unmarshal(doc, &rec); err != nil {
		slog.Warn("discarding unreadable conversation", "conversation_id", key, "error", err)
		return nil, ErrNotFound
	}
	if s.now().Sub(rec.UpdatedAt) > s.ttl {
		slog.Debug("conversation expired", "conversation_id", key, "updated_at", rec.UpdatedAt)
		return nil, ErrNotFound
	}
	return &rec, nil
}

// Append pushes a turn and persists the record.
func (s *Store) Append(ctx context.Context, rec *Record, role Role, text string) error {
	s.Push(rec, role, text)
	return s.Save(ctx, rec)
}

// Push adds a turn in memory and drops the oldest turns beyond the cap.
// Callers batching several changes follow up with Save.
func (s *Store) Push(rec *Record, role Role, text string) {
	rec.History = append(rec.History, Turn{Role: role, Text: text, At: s.now()})
	if over := len(rec.History) - s.maxTurns; s.maxTurns > 0 && over > 0 {
		rec.History = append([]Turn(nil), rec.History[over:]...)
	}
}

// Save stamps UpdatedAt and writes the whole record through to storage.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	rec.UpdatedAt = s.now()
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshaling conversation %s: %w", rec.ID, err)
	}
	if err := s.storage.Put(ctx, rec.ID, doc); err != nil {
		return fmt.Errorf("saving conversation %s: %w", rec.ID, err)
	}
	return nil
}

// Reset deletes the stored conversation.
func (s *Store) Reset(ctx context.Context, endpointID, senderID string) error {
	return s.storage.Delete(ctx, Key(endpointID, senderID))
}
