package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/reflectai/reflect-backend/internal/models"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	return NewLocalStore(t.TempDir())
}

func testEntry(userID string, createdAt time.Time) models.JournalEntry {
	return models.JournalEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     "Day 1",
		Content:   "Felt good",
		CreatedAt: createdAt,
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	entry := testEntry("user-a", time.Now().UTC().Add(-time.Hour))
	entry.AIAnalysis = &models.AIAnalysis{
		Sentiment: models.SentimentMixed,
		Summary:   "Ups and downs.",
		Advice:    "Rest.",
		Tags:      []string{"work", "sleep", "family"},
	}

	saved, err := s.SaveEntry(ctx, entry)
	if err != nil {
		t.Fatalf("SaveEntry() error = %v", err)
	}
	if saved.UpdatedAt.Before(saved.CreatedAt) {
		t.Errorf("UpdatedAt %v before CreatedAt %v", saved.UpdatedAt, saved.CreatedAt)
	}

	entries, err := s.GetEntries(ctx, "user-a")
	if err != nil {
		t.Fatalf("GetEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}

	got := entries[0]
	if got.ID != entry.ID || got.UserID != entry.UserID ||
		got.Title != entry.Title || got.Content != entry.Content {
		t.Errorf("round-trip mismatch: got %+v", got)
	}
	if !got.CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("CreatedAt changed: got %v, want %v", got.CreatedAt, entry.CreatedAt)
	}
	if got.AIAnalysis == nil || got.AIAnalysis.Sentiment != models.SentimentMixed ||
		len(got.AIAnalysis.Tags) != 3 {
		t.Errorf("analysis did not survive round trip: %+v", got.AIAnalysis)
	}
}

func TestUpsertKeepsIDAndCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	entry := testEntry("user-a", time.Now().UTC().Add(-time.Hour))
	first, err := s.SaveEntry(ctx, entry)
	if err != nil {
		t.Fatal(err)
	}

	// Edit and save again under the same id.
	edited := first
	edited.Content = "Felt great"
	second, err := s.SaveEntry(ctx, edited)
	if err != nil {
		t.Fatal(err)
	}

	entries, err := s.GetEntries(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("upsert produced %d entries, want 1", len(entries))
	}
	got := entries[0]
	if got.Content != "Felt great" {
		t.Errorf("Content = %q, want %q", got.Content, "Felt great")
	}
	if !got.CreatedAt.Equal(entry.CreatedAt) {
		t.Errorf("CreatedAt changed on edit: %v vs %v", got.CreatedAt, entry.CreatedAt)
	}
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Errorf("UpdatedAt went backwards: %v -> %v", first.UpdatedAt, second.UpdatedAt)
	}
}

func TestGetEntriesSortedNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	middle := testEntry("user-a", now.Add(-2*time.Hour))
	newest := testEntry("user-a", now.Add(-1*time.Hour))
	oldest := testEntry("user-a", now.Add(-3*time.Hour))

	// Insert out of order; the oldest entry goes in last.
	for _, e := range []models.JournalEntry{middle, newest, oldest} {
		if _, err := s.SaveEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.GetEntries(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3", len(entries))
	}
	want := []string{newest.ID, middle.ID, oldest.ID}
	for i, id := range want {
		if entries[i].ID != id {
			t.Errorf("entries[%d].ID = %s, want %s", i, entries[i].ID, id)
		}
	}
}

func TestGetEntriesScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now().UTC()

	mine := testEntry("user-a", now)
	theirs := testEntry("user-b", now)
	for _, e := range []models.JournalEntry{mine, theirs} {
		if _, err := s.SaveEntry(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.GetEntries(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].ID != mine.ID {
		t.Errorf("GetEntries(user-a) = %+v, want only own entry", entries)
	}
}

func TestDeleteEntry(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	entry := testEntry("user-a", time.Now().UTC())
	if _, err := s.SaveEntry(ctx, entry); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteEntry(ctx, entry.ID); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}

	entries, err := s.GetEntries(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("entry still present after delete: %+v", entries)
	}

	// Already gone: must not be an error.
	if err := s.DeleteEntry(ctx, entry.ID); err != nil {
		t.Errorf("DeleteEntry(already gone) error = %v, want nil", err)
	}
}

func TestSaveEntryRequiresID(t *testing.T) {
	s := newTestStore(t)
	entry := testEntry("user-a", time.Now().UTC())
	entry.ID = ""
	if _, err := s.SaveEntry(context.Background(), entry); err == nil {
		t.Error("SaveEntry(no id) error = nil, want validation error")
	}
}

func TestSaveEntryRejectsForeignOwner(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	original := testEntry("user-a", time.Now().UTC().Add(-time.Hour))
	if _, err := s.SaveEntry(ctx, original); err != nil {
		t.Fatal(err)
	}

	// Another user upserting the same id must be rejected, not overwrite.
	takeover := testEntry("user-b", time.Now().UTC())
	takeover.ID = original.ID
	takeover.Content = "hijacked"
	if _, err := s.SaveEntry(ctx, takeover); err == nil {
		t.Fatal("SaveEntry(foreign id) error = nil, want rejection")
	}

	mine, err := s.GetEntries(ctx, "user-a")
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].Content != original.Content {
		t.Errorf("owner's entry changed: %+v", mine)
	}
	theirs, err := s.GetEntries(ctx, "user-b")
	if err != nil {
		t.Fatal(err)
	}
	if len(theirs) != 0 {
		t.Errorf("foreign save persisted anyway: %+v", theirs)
	}
}

func TestGetEntriesCanceledContext(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.SaveEntry(context.Background(), testEntry("user-a", time.Now().UTC())); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.GetEntries(ctx, "user-a"); err == nil {
		t.Error("GetEntries(canceled ctx) error = nil, want repository error")
	}
}
