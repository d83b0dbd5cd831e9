package models

import "time"

// Sentiment is the overall emotional tone of an entry as judged by the AI.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
	SentimentMixed    Sentiment = "Mixed"
)

// Valid reports whether s is one of the four allowed sentiment values.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative, SentimentMixed:
		return true
	}
	return false
}

// AIAnalysis is the structured reflection produced for one entry. It is
// replaced wholesale on re-analysis, never merged field by field.
type AIAnalysis struct {
	Sentiment Sentiment `bson:"sentiment" json:"sentiment"`
	Summary   string    `bson:"summary" json:"summary"`
	Advice    string    `bson:"advice" json:"advice"`
	Tags      []string  `bson:"tags" json:"tags"`
}

// JournalEntry is a private, dated journal record owned by exactly one user.
// The ID is client-generated and stable across edits (it is the upsert key);
// CreatedAt is set on first save and never changes afterwards.
type JournalEntry struct {
	ID         string      `bson:"_id" json:"id"`
	UserID     string      `bson:"user_id" json:"user_id"`
	Title      string      `bson:"title" json:"title"`
	Content    string      `bson:"content" json:"content"`
	CreatedAt  time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `bson:"updated_at" json:"updated_at"`
	AIAnalysis *AIAnalysis `bson:"ai_analysis,omitempty" json:"ai_analysis,omitempty"`
}
