package usecase

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/model"
)

// Field names reported in validation errors. They match the JSON request fields.
const (
	FieldUserID        = "userId"
	FieldMessage       = "message"
	FieldActionText    = "actionText"
	FieldStatus        = "status"
	FieldBusinessType  = "businessType"
	FieldRevenueRange  = "revenueRange"
	FieldPrimaryGoals  = "primaryGoals"
	FieldPainPoints    = "painPoints"
	FieldRiskTolerance = "riskTolerance"
	FieldWeekNumber    = "weekNumber"
	FieldKeyWins       = "keyWins"
	FieldKeyChallenges = "keyChallenges"
	FieldSummary       = "summary"
	FieldSentiment     = "sentiment"
)

// parseUserID validates a caller supplied user identity and canonicalizes it
func parseUserID(raw string) (model.UserID, error) {
	return model.ParseUserID(raw)
}

// invalidField wraps a parse failure of an enumerated field as a validation error
func invalidField(field string, value any, cause error) error {
	return goerr.Wrap(model.ErrValidation, field+" is invalid: "+cause.Error(),
		goerr.V(model.FieldNameKey, field),
		goerr.V("value", value),
	)
}
