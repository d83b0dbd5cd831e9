package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reflectai/reflect-backend/internal/apperrors"
	"github.com/reflectai/reflect-backend/internal/models"
)

const entriesCollection = "entries"

// MongoStore keeps entries in a MongoDB collection, keyed by the
// client-generated entry ID.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(entriesCollection)}
}

// EnsureIndexes creates the owner/creation-time index used by GetEntries.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

func (s *MongoStore) GetEntries(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.col.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRepository, "Failed to fetch entries", err)
	}
	defer cursor.Close(ctx)

	entries := make([]models.JournalEntry, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeRepository, "Failed to decode entries", err)
	}
	return entries, nil
}

func (s *MongoStore) SaveEntry(ctx context.Context, entry models.JournalEntry) (models.JournalEntry, error) {
	if entry.ID == "" {
		return models.JournalEntry{}, apperrors.New(apperrors.CodeValidation, "Entry id is required")
	}

	entry.UpdatedAt = time.Now().UTC()

	// The filter carries user_id so an upsert can never replace another
	// user's document. When the id exists under a different owner the filter
	// matches nothing and the attempted insert trips the _id uniqueness.
	_, err := s.col.ReplaceOne(ctx,
		bson.M{"_id": entry.ID, "user_id": entry.UserID},
		entry,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.JournalEntry{}, apperrors.New(apperrors.CodeValidation, "Entry id is already in use")
		}
		return models.JournalEntry{}, apperrors.Wrap(apperrors.CodeRepository, "Failed to save entry", err)
	}

	// ReplaceOne writes the document verbatim, so the argument is the
	// persisted record.
	return entry, nil
}

func (s *MongoStore) DeleteEntry(ctx context.Context, id string) error {
	// DeleteOne reports zero deletions for an already-gone entry without an
	// error, which is the idempotence we want.
	_, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeRepository, "Failed to delete entry", err)
	}
	return nil
}
