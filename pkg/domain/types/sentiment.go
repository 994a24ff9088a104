package types

import "fmt"

// Sentiment is the seller's overall mood reported in a weekly check-in
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// AllSentiments returns all valid sentiments
func AllSentiments() []Sentiment {
	return []Sentiment{
		SentimentPositive,
		SentimentNeutral,
		SentimentNegative,
	}
}

// IsValid checks if the sentiment is valid
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	default:
		return false
	}
}

func (s Sentiment) String() string {
	return string(s)
}

// ParseSentiment parses a string into a Sentiment
func ParseSentiment(s string) (Sentiment, error) {
	v := Sentiment(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid sentiment: %s", s)
	}
	return v, nil
}
