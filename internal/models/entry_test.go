package models

import "testing"

func TestSentimentValid(t *testing.T) {
	tests := []struct {
		s    Sentiment
		want bool
	}{
		{SentimentPositive, true},
		{SentimentNeutral, true},
		{SentimentNegative, true},
		{SentimentMixed, true},
		{Sentiment("positive"), false},
		{Sentiment("Happy"), false},
		{Sentiment(""), false},
	}
	for _, tt := range tests {
		if got := tt.s.Valid(); got != tt.want {
			t.Errorf("Sentiment(%q).Valid() = %v, want %v", tt.s, got, tt.want)
		}
	}
}
