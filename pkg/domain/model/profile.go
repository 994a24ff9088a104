package model

import (
	"fmt"

	"github.com/secmon-lab/nem0/pkg/domain/types"
)

// ProfileLabel is the system message attached to a profile update turn
const ProfileLabel = "Seller profile update"

// Profile is the seller's business profile captured during onboarding.
// It is not stored as a row; Render turns it into a memory turn.
type Profile struct {
	BusinessType  types.BusinessType
	RevenueRange  types.RevenueRange
	PrimaryGoals  string
	PainPoints    string
	RiskTolerance types.RiskTolerance
}

// Render formats the profile as the natural-language note stored in memory
func (p *Profile) Render() string {
	return fmt.Sprintf("Seller business profile update:\n"+
		"- Business Type: %s\n"+
		"- Revenue Range: %s\n"+
		"- Primary Goals: %s\n"+
		"- Pain Points: %s\n"+
		"- Risk Tolerance: %s",
		p.BusinessType, p.RevenueRange, p.PrimaryGoals, p.PainPoints, p.RiskTolerance)
}

// Turn returns the two-message turn recorded for this profile
func (p *Profile) Turn() Turn {
	return Turn{SystemMessage(ProfileLabel), UserMessage(p.Render())}
}
