// Package store persists journal entries. The primary backend is MongoDB;
// a diskv-backed local store is available as a substitute.
package store

import (
	"context"
	"sort"

	"github.com/reflectai/reflect-backend/internal/models"
)

// EntryStore is the persistence contract for journal entries.
type EntryStore interface {
	// GetEntries returns all entries owned by userID, newest first by
	// creation time. It never returns entries owned by other users.
	GetEntries(ctx context.Context, userID string) ([]models.JournalEntry, error)

	// SaveEntry upserts by entry ID within the owning user's records. It
	// stamps UpdatedAt and preserves the caller-supplied CreatedAt,
	// returning the persisted record. An ID that already belongs to a
	// different user is rejected. A failed save leaves prior persisted
	// state untouched.
	SaveEntry(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error)

	// DeleteEntry removes the entry. Deleting an entry that is already gone
	// is not an error.
	DeleteEntry(ctx context.Context, id string) error
}

// sortEntriesDesc orders entries by CreatedAt descending, breaking ties by ID
// so the order is deterministic.
func sortEntriesDesc(entries []models.JournalEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
}
