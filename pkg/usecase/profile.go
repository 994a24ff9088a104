package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/domain/model/config"
	"github.com/secmon-lab/nem0/pkg/domain/types"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
)

// ProfileInput is the unvalidated onboarding form
type ProfileInput struct {
	UserID        string
	BusinessType  string
	RevenueRange  string
	PrimaryGoals  string
	PainPoints    string
	RiskTolerance string
}

// ProfileUseCase records seller profiles and reports onboarding progress
type ProfileUseCase struct {
	memory    interfaces.MemoryService
	assistant *config.AssistantConfig
}

func NewProfileUseCase(memory interfaces.MemoryService, assistant *config.AssistantConfig) *ProfileUseCase {
	return &ProfileUseCase{
		memory:    memory,
		assistant: assistant,
	}
}

func (uc *ProfileUseCase) SaveProfile(ctx context.Context, input ProfileInput) (model.UserID, error) {
	userID, err := parseUserID(input.UserID)
	if err != nil {
		return "", err
	}

	profile, err := parseProfile(input)
	if err != nil {
		return "", err
	}

	if err := uc.memory.Add(ctx, profile.Turn(), userID); err != nil {
		return "", goerr.Wrap(err, "failed to store seller profile", goerr.V(model.UserIDKey, userID))
	}

	logging.From(ctx).Info("seller profile saved",
		"user_id", userID,
		"business_type", profile.BusinessType,
	)
	return userID, nil
}

// CheckOnboarding reports whether a profile has been recorded for the user
func (uc *ProfileUseCase) CheckOnboarding(ctx context.Context, rawUserID string) (bool, model.UserID, error) {
	userID, err := parseUserID(rawUserID)
	if err != nil {
		return false, "", err
	}

	memories, err := uc.memory.Search(ctx, uc.assistant.OnboardingQuery, userID, 1)
	if err != nil {
		return false, "", goerr.Wrap(err, "failed to check onboarding", goerr.V(model.UserIDKey, userID))
	}

	return len(memories) > 0, userID, nil
}

func parseProfile(input ProfileInput) (*model.Profile, error) {
	businessType, err := types.ParseBusinessType(strings.TrimSpace(input.BusinessType))
	if err != nil {
		return nil, invalidField(FieldBusinessType, input.BusinessType, err)
	}

	revenueRange, err := types.ParseRevenueRange(strings.TrimSpace(input.RevenueRange))
	if err != nil {
		return nil, invalidField(FieldRevenueRange, input.RevenueRange, err)
	}

	riskTolerance, err := types.ParseRiskTolerance(strings.TrimSpace(input.RiskTolerance))
	if err != nil {
		return nil, invalidField(FieldRiskTolerance, input.RiskTolerance, err)
	}

	primaryGoals, err := model.SanitizeText(input.PrimaryGoals, FieldPrimaryGoals, model.MaxFieldLength)
	if err != nil {
		return nil, err
	}

	painPoints, err := model.SanitizeText(input.PainPoints, FieldPainPoints, model.MaxFieldLength)
	if err != nil {
		return nil, err
	}

	return &model.Profile{
		BusinessType:  businessType,
		RevenueRange:  revenueRange,
		PrimaryGoals:  primaryGoals,
		PainPoints:    painPoints,
		RiskTolerance: riskTolerance,
	}, nil
}
