// README: Itinerary store; one JSON array per slot, most recently saved first, never returns errors.
package itinerary

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"travelplanner/internal/types"
)

// Store persists itineraries as a single JSON array under one key of a Medium.
// Every read/parse/write failure is logged and reported as nil, empty, or false.
// A nil medium means storage is unavailable; operations then do nothing.
type Store struct {
	medium Medium
	key    string
	mu     *sync.Mutex
	now    func() time.Time
	newID  func() types.ID
}

func NewStore(medium Medium, key string) *Store {
	return &Store{
		medium: medium,
		key:    key,
		mu:     &sync.Mutex{},
		now:    time.Now,
		newID:  func() types.ID { return types.NewID("itin") },
	}
}

// For returns a store bound to the owner's own slot. It shares the medium and lock.
func (s *Store) For(owner string) *Store {
	scoped := *s
	scoped.key = fmt.Sprintf("%s:%s", s.key, owner)
	return &scoped
}

// Save inserts or replaces the itinerary and moves it to the front of the list.
// A missing ID is assigned; otherwise UpdatedAt is bumped. SavedAt is set on
// first save only. Replacing a stored record keeps its SavedAt, Source and
// FallbackReason.
// The argument is never modified. Returns nil when persistence fails.
func (s *Store) Save(ctx context.Context, it Itinerary) *Itinerary {
	if s.medium == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		log.Printf("itinerary store: save %s: %v", s.key, err)
		return nil
	}

	rec := it.Clone()
	rec.Normalize()
	now := s.now().UTC()
	rec.SavedAt, rec.UpdatedAt = &now, nil
	if rec.ID == "" {
		rec.ID = s.newID()
	} else {
		rec.UpdatedAt = &now
	}

	rest := make([]Itinerary, 0, len(list))
	for _, existing := range list {
		if existing.ID != rec.ID {
			rest = append(rest, existing)
			continue
		}
		if existing.SavedAt != nil {
			rec.SavedAt = existing.SavedAt
		}
		rec.Source = existing.Source
		rec.FallbackReason = existing.FallbackReason
	}
	next := append([]Itinerary{rec}, rest...)
	if err := s.persist(ctx, next); err != nil {
		log.Printf("itinerary store: save %s: %v", s.key, err)
		return nil
	}
	out := rec.Clone()
	return &out
}

// List returns every stored itinerary, most recently saved first.
func (s *Store) List(ctx context.Context) []Itinerary {
	if s.medium == nil {
		return []Itinerary{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		log.Printf("itinerary store: list %s: %v", s.key, err)
		return []Itinerary{}
	}
	return list
}

// GetByID returns the itinerary with the given id, or nil.
func (s *Store) GetByID(ctx context.Context, id types.ID) *Itinerary {
	if s.medium == nil || id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		log.Printf("itinerary store: get %s/%s: %v", s.key, id, err)
		return nil
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
	}
	return nil
}

// DeleteByID removes the itinerary and reports whether anything was removed.
// The slot is not rewritten when the id is absent.
func (s *Store) DeleteByID(ctx context.Context, id types.ID) bool {
	if s.medium == nil || id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		log.Printf("itinerary store: delete %s/%s: %v", s.key, id, err)
		return false
	}
	next := make([]Itinerary, 0, len(list))
	for _, existing := range list {
		if existing.ID != id {
			next = append(next, existing)
		}
	}
	if len(next) == len(list) {
		return false
	}
	if err := s.persist(ctx, next); err != nil {
		log.Printf("itinerary store: delete %s/%s: %v", s.key, id, err)
		return false
	}
	return true
}

func (s *Store) load(ctx context.Context) ([]Itinerary, error) {
	raw, err := s.medium.Load(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(raw) == 0 {
		return []Itinerary{}, nil
	}
	var list []Itinerary
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if list == nil {
		list = []Itinerary{}
	}
	return list, nil
}

func (s *Store) persist(ctx context.Context, list []Itinerary) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := s.medium.Save(ctx, s.key, raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
