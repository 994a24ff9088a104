package model

import (
	"fmt"

	"github.com/secmon-lab/nem0/pkg/domain/types"
)

// CheckInLabel is the system message attached to a weekly check-in turn
const CheckInLabel = "Weekly check-in"

// Week bounds for a check-in
const (
	MinWeekNumber = 1
	MaxWeekNumber = 52
)

// CheckIn is the seller's weekly self-report
type CheckIn struct {
	WeekNumber    int
	KeyWins       string
	KeyChallenges string
	Summary       string
	Sentiment     types.Sentiment
}

func (c *CheckIn) Render() string {
	return fmt.Sprintf("Weekly check-in (Week %d):\n"+
		"- Key Wins: %s\n"+
		"- Key Challenges: %s\n"+
		"- Overall Summary: %s\n"+
		"- Sentiment: %s",
		c.WeekNumber, c.KeyWins, c.KeyChallenges, c.Summary, c.Sentiment)
}

func (c *CheckIn) Turn() Turn {
	return Turn{SystemMessage(CheckInLabel), UserMessage(c.Render())}
}
