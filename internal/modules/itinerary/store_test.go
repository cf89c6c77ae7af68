// README: Itinerary store tests (ordering, idempotent save, delete, failure handling).
package itinerary

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"travelplanner/internal/types"
)

type brokenMedium struct {
	loadErr error
	saveErr error
	raw     []byte
}

func (b *brokenMedium) Load(context.Context, string) ([]byte, error) { return b.raw, b.loadErr }
func (b *brokenMedium) Save(context.Context, string, []byte) error { return b.saveErr }

func newTestStore(t *testing.T, medium Medium) *Store {
	t.Helper()
	s := NewStore(medium, "test-itineraries")
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	seq := 0
	s.newID = func() types.ID {
		seq++
		return types.ID("itin_" + string(rune('a'+seq-1)))
	}
	return s
}

func sampleItinerary(dest string) Itinerary {
	return Itinerary{
		Destination: dest,
		StartDate:   "2024-06-01",
		EndDate:     "2024-06-01",
		Summary:     "A day in " + dest,
		Tips:        []string{"Bring water"},
		Days: []Day{{
			Date: "2024-06-01",
			Activities: []Activity{{
				ID: "morning-0", Time: "09:00 - 12:00", Title: "Walk", Location: dest,
				Description: "Stroll", Type: TypeAttraction,
			}},
		}},
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestSaveAssignsIDAndSavedAt(t *testing.T) {
	s := newTestStore(t, NewMemoryMedium())
	ctx := context.Background()

	in := sampleItinerary("Rome")
	saved := s.Save(ctx, in)
	if saved == nil {
		t.Fatal("save returned nil")
	}
	if saved.ID == "" || saved.SavedAt == nil || saved.UpdatedAt != nil {
		t.Fatalf("unexpected identity fields: id=%q savedAt=%v updatedAt=%v", saved.ID, saved.SavedAt, saved.UpdatedAt)
	}
	if in.ID != "" || in.SavedAt != nil {
		t.Fatal("caller's itinerary was mutated")
	}

	got := s.GetByID(ctx, saved.ID)
	if got == nil {
		t.Fatal("GetByID returned nil after save")
	}
	if mustJSON(t, got) != mustJSON(t, saved) {
		t.Fatalf("round trip mismatch:\n got  %s\n want %s", mustJSON(t, got), mustJSON(t, saved))
	}
}

func TestSaveSameIDUpdatesInPlace(t *testing.T) {
	s := newTestStore(t, NewMemoryMedium())
	ctx := context.Background()

	first := s.Save(ctx, sampleItinerary("Rome"))
	s.Save(ctx, sampleItinerary("Paris"))
	if n := len(s.List(ctx)); n != 2 {
		t.Fatalf("expected 2 itineraries, got %d", n)
	}

	edited := first.Clone()
	edited.Days[0].Activities[0].Title = "Colosseum"
	again := s.Save(ctx, edited)
	if again == nil {
		t.Fatal("second save returned nil")
	}

	list := s.List(ctx)
	if len(list) != 2 {
		t.Fatalf("list length changed to %d", len(list))
	}
	if list[0].ID != first.ID {
		t.Fatalf("re-saved itinerary should move to the front, got %s first", list[0].ID)
	}
	if again.UpdatedAt == nil {
		t.Fatal("UpdatedAt not set on second save")
	}
	if !again.SavedAt.Equal(*first.SavedAt) {
		t.Fatalf("SavedAt changed from %v to %v", first.SavedAt, again.SavedAt)
	}
	if list[0].Days[0].Activities[0].Title != "Colosseum" {
		t.Fatalf("edit not persisted: %+v", list[0].Days[0].Activities[0])
	}
	if first.Days[0].Activities[0].Title != "Walk" {
		t.Fatal("earlier returned record shares memory with the store")
	}
}

func TestSaveKeepsStoredProvenance(t *testing.T) {
	s := newTestStore(t, NewMemoryMedium())
	ctx := context.Background()

	generated := sampleItinerary("Rome")
	generated.Source = SourceFallback
	generated.FallbackReason = "generation disabled"
	first := s.Save(ctx, generated)

	fresh := sampleItinerary("Rome")
	fresh.ID = first.ID
	fresh.Source = SourceAI
	again := s.Save(ctx, fresh)
	if again == nil {
		t.Fatal("re-save returned nil")
	}
	if again.SavedAt == nil || !again.SavedAt.Equal(*first.SavedAt) {
		t.Fatalf("SavedAt = %v, want %v", again.SavedAt, first.SavedAt)
	}
	if again.UpdatedAt == nil {
		t.Fatal("UpdatedAt not set on re-save")
	}
	if again.Source != SourceFallback || again.FallbackReason != "generation disabled" {
		t.Fatalf("provenance overwritten: %q %q", again.Source, again.FallbackReason)
	}

	stored := s.GetByID(ctx, first.ID)
	if stored == nil || stored.SavedAt == nil || !stored.SavedAt.Equal(*first.SavedAt) {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestSaveUnknownIDIsFirstSave(t *testing.T) {
	s := newTestStore(t, NewMemoryMedium())
	in := sampleItinerary("Lisbon")
	in.ID = "itin_client"
	saved := s.Save(context.Background(), in)
	if saved == nil || saved.ID != "itin_client" {
		t.Fatalf("saved = %+v", saved)
	}
	if saved.SavedAt == nil || saved.UpdatedAt == nil {
		t.Fatalf("savedAt=%v updatedAt=%v", saved.SavedAt, saved.UpdatedAt)
	}
}

func TestListMostRecentFirst(t *testing.T) {
	s := newTestStore(t, NewMemoryMedium())
	ctx := context.Background()
	for _, d := range []string{"Rome", "Paris", "Tokyo"} {
		s.Save(ctx, sampleItinerary(d))
	}
	list := s.List(ctx)
	got := []string{list[0].Destination, list[1].Destination, list[2].Destination}
	want := []string{"Tokyo", "Paris", "Rome"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDeleteByID(t *testing.T) {
	medium := NewMemoryMedium()
	s := newTestStore(t, medium)
	ctx := context.Background()

	saved := s.Save(ctx, sampleItinerary("Rome"))
	before, _ := medium.Load(ctx, s.key)

	if s.DeleteByID(ctx, "itin_missing") {
		t.Fatal("deleting a missing id reported true")
	}
	after, _ := medium.Load(ctx, s.key)
	if string(before) != string(after) {
		t.Fatal("slot rewritten on missing delete")
	}

	if !s.DeleteByID(ctx, saved.ID) {
		t.Fatal("delete of existing id reported false")
	}
	if s.GetByID(ctx, saved.ID) != nil {
		t.Fatal("itinerary still present after delete")
	}
	if len(s.List(ctx)) != 0 {
		t.Fatal("list not empty after delete")
	}
}

func TestStoreUnavailableMedium(t *testing.T) {
	s := NewStore(nil, "k")
	ctx := context.Background()
	if s.Save(ctx, sampleItinerary("Rome")) != nil {
		t.Error("save without medium should return nil")
	}
	if l := s.List(ctx); l == nil || len(l) != 0 {
		t.Errorf("list without medium = %v", l)
	}
	if s.GetByID(ctx, "x") != nil {
		t.Error("get without medium should return nil")
	}
	if s.DeleteByID(ctx, "x") {
		t.Error("delete without medium should return false")
	}
}

func TestStoreSwallowsMediumErrors(t *testing.T) {
	ctx := context.Background()

	readFail := NewStore(&brokenMedium{loadErr: errors.New("connection refused")}, "k")
	if readFail.Save(ctx, sampleItinerary("Rome")) != nil {
		t.Error("save should return nil on read failure")
	}
	if len(readFail.List(ctx)) != 0 {
		t.Error("list should be empty on read failure")
	}

	corrupt := NewStore(&brokenMedium{raw: []byte("{not json")}, "k")
	if corrupt.GetByID(ctx, "x") != nil || len(corrupt.List(ctx)) != 0 {
		t.Error("corrupt slot should read as empty")
	}

	existing, _ := json.Marshal([]Itinerary{{ID: "itin_1", Destination: "Rome"}})
	writeFail := NewStore(&brokenMedium{raw: existing, saveErr: errors.New("read-only")}, "k")
	if writeFail.Save(ctx, sampleItinerary("Paris")) != nil {
		t.Error("save should return nil on write failure")
	}
	if writeFail.DeleteByID(ctx, "itin_1") {
		t.Error("delete should return false on write failure")
	}
}

func TestForIsolatesOwners(t *testing.T) {
	base := newTestStore(t, NewMemoryMedium())
	ctx := context.Background()

	alice, bob := base.For("alice"), base.For("bob")
	saved := alice.Save(ctx, sampleItinerary("Rome"))
	if bob.GetByID(ctx, saved.ID) != nil || len(bob.List(ctx)) != 0 {
		t.Fatal("bob can see alice's itinerary")
	}
	if alice.key != "test-itineraries:alice" {
		t.Fatalf("unexpected scoped key %q", alice.key)
	}
}

func TestSaveNormalizesPlaceholders(t *testing.T) {
	s := newTestStore(t, NewMemoryMedium())
	it := sampleItinerary("Rome")
	it.Days[0].Activities[0].ImageURL = ImageURLPlaceholder
	it.Days[0].Activities[0].Coordinates = CoordinatesPlaceholder
	it.Days[0].Activities[0].Type = "museum"

	saved := s.Save(context.Background(), it)
	a := saved.Days[0].Activities[0]
	if a.ImageURL != "" || a.Coordinates != "" || a.Type != TypeOther {
		t.Fatalf("activity not normalized: %+v", a)
	}
}
