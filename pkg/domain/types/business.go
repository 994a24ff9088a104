package types

import "fmt"

// BusinessType categorizes the seller's business
type BusinessType string

const (
	BusinessTypeRetail       BusinessType = "Retail"
	BusinessTypeCollectibles BusinessType = "Collectibles"
	BusinessTypeEcommerce    BusinessType = "Ecommerce"
	BusinessTypeService      BusinessType = "Service"
	BusinessTypeOther        BusinessType = "Other"
)

// AllBusinessTypes returns all valid business types
func AllBusinessTypes() []BusinessType {
	return []BusinessType{
		BusinessTypeRetail,
		BusinessTypeCollectibles,
		BusinessTypeEcommerce,
		BusinessTypeService,
		BusinessTypeOther,
	}
}

// IsValid checks if the business type is valid
func (b BusinessType) IsValid() bool {
	switch b {
	case BusinessTypeRetail,
		BusinessTypeCollectibles,
		BusinessTypeEcommerce,
		BusinessTypeService,
		BusinessTypeOther:
		return true
	default:
		return false
	}
}

func (b BusinessType) String() string {
	return string(b)
}

// ParseBusinessType parses a string into a BusinessType
func ParseBusinessType(s string) (BusinessType, error) {
	v := BusinessType(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid business type: %s", s)
	}
	return v, nil
}

// RevenueRange is the seller's self-reported yearly revenue bracket.
// The en dash in the middle brackets is part of the value.
type RevenueRange string

const (
	RevenueRangeUnder10K  RevenueRange = "Under $10K/yr"
	RevenueRange10KTo50K  RevenueRange = "$10K–$50K/yr"
	RevenueRange50KTo200K RevenueRange = "$50K–$200K/yr"
	RevenueRangeOver200K  RevenueRange = "$200K+/yr"
)

// AllRevenueRanges returns all valid revenue ranges
func AllRevenueRanges() []RevenueRange {
	return []RevenueRange{
		RevenueRangeUnder10K,
		RevenueRange10KTo50K,
		RevenueRange50KTo200K,
		RevenueRangeOver200K,
	}
}

// IsValid checks if the revenue range is valid
func (r RevenueRange) IsValid() bool {
	switch r {
	case RevenueRangeUnder10K,
		RevenueRange10KTo50K,
		RevenueRange50KTo200K,
		RevenueRangeOver200K:
		return true
	default:
		return false
	}
}

func (r RevenueRange) String() string {
	return string(r)
}

// ParseRevenueRange parses a string into a RevenueRange
func ParseRevenueRange(s string) (RevenueRange, error) {
	v := RevenueRange(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid revenue range: %s", s)
	}
	return v, nil
}

// RiskTolerance is how much risk the seller is willing to take
type RiskTolerance string

const (
	RiskToleranceConservative RiskTolerance = "Conservative"
	RiskToleranceModerate     RiskTolerance = "Moderate"
	RiskToleranceAggressive   RiskTolerance = "Aggressive"
)

// AllRiskTolerances returns all valid risk tolerances
func AllRiskTolerances() []RiskTolerance {
	return []RiskTolerance{
		RiskToleranceConservative,
		RiskToleranceModerate,
		RiskToleranceAggressive,
	}
}

// IsValid checks if the risk tolerance is valid
func (r RiskTolerance) IsValid() bool {
	switch r {
	case RiskToleranceConservative, RiskToleranceModerate, RiskToleranceAggressive:
		return true
	default:
		return false
	}
}

func (r RiskTolerance) String() string {
	return string(r)
}

// ParseRiskTolerance parses a string into a RiskTolerance
func ParseRiskTolerance(s string) (RiskTolerance, error) {
	v := RiskTolerance(s)
	if !v.IsValid() {
		return "", fmt.Errorf("invalid risk tolerance: %s", s)
	}
	return v, nil
}
