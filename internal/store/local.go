package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/reflectai/reflect-backend/internal/apperrors"
	"github.com/reflectai/reflect-backend/internal/models"
)

// Fixed key namespaces of the local store. Entries are the only namespace the
// repository uses; the account namespaces exist for a fully offline setup.
const (
	NamespaceUsers       = "users"
	NamespaceCurrentUser = "current_user"
	NamespaceEntries     = "entries"
)

// LocalStore is a diskv-backed substitute for the Mongo entry store: one
// JSON-serialized record per entry under the entries namespace. It is selected
// with ENTRIES_BACKEND=local and needs no external services.
type LocalStore struct {
	d *diskv.Diskv
}

func NewLocalStore(basePath string) *LocalStore {
	return &LocalStore{d: diskv.New(diskv.Options{
		BasePath: basePath,
		Transform: func(key string) []string {
			return []string{NamespaceEntries}
		},
		CacheSizeMax: 1024 * 1024, // 1MB
	})}
}

func (s *LocalStore) GetEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	entries := make([]models.JournalEntry, 0)
	for key := range s.d.Keys(ctx.Done()) {
		data, err := s.d.Read(key)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeRepository, "Failed to read entry", err)
		}
		var entry models.JournalEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeRepository, "Failed to decode entry", err)
		}
		if entry.UserID == userID {
			entries = append(entries, entry)
		}
	}
	// A canceled context closes the key channel mid-walk; the partial list
	// must not pass for a complete one.
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRepository, "Failed to list entries", err)
	}
	sortEntriesDesc(entries)
	return entries, nil
}

func (s *LocalStore) SaveEntry(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	if entry.ID == "" {
		return models.JournalEntry{}, apperrors.New(apperrors.CodeValidation, "Entry id is required")
	}

	// An id that already belongs to another user must not be overwritten.
	if data, err := s.d.Read(entry.ID); err == nil {
		var existing models.JournalEntry
		if err := json.Unmarshal(data, &existing); err == nil && existing.UserID != entry.UserID {
			return models.JournalEntry{}, apperrors.New(apperrors.CodeValidation, "Entry id is already in use")
		}
	}

	entry.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(entry)
	if err != nil {
		return models.JournalEntry{}, apperrors.Wrap(apperrors.CodeRepository, "Failed to encode entry", err)
	}
	if err := s.d.Write(entry.ID, data); err != nil {
		return models.JournalEntry{}, apperrors.Wrap(apperrors.CodeRepository, "Failed to save entry", err)
	}
	return entry, nil
}

func (s *LocalStore) DeleteEntry(ctx context.Context, id string) error {
	if err := s.d.Erase(id); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil // already gone
		}
		return apperrors.Wrap(apperrors.CodeRepository, "Failed to delete entry", err)
	}
	return nil
}
