package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/nem0/pkg/domain/interfaces"
	"github.com/secmon-lab/nem0/pkg/domain/model"
	"github.com/secmon-lab/nem0/pkg/domain/types"
	"github.com/secmon-lab/nem0/pkg/utils/logging"
)

// CheckInInput is the unvalidated weekly check-in form
type CheckInInput struct {
	UserID        string
	WeekNumber    int
	KeyWins       string
	KeyChallenges string
	Summary       string
	Sentiment     string
}

// CheckInUseCase records weekly check-ins
type CheckInUseCase struct {
	memory interfaces.MemoryService
}

func NewCheckInUseCase(memory interfaces.MemoryService) *CheckInUseCase {
	return &CheckInUseCase{memory: memory}
}

func (uc *CheckInUseCase) SaveCheckIn(ctx context.Context, input CheckInInput) (model.UserID, error) {
	userID, err := parseUserID(input.UserID)
	if err != nil {
		return "", err
	}

	checkIn, err := parseCheckIn(input)
	if err != nil {
		return "", err
	}

	if err := uc.memory.Add(ctx, checkIn.Turn(), userID); err != nil {
		return "", goerr.Wrap(err, "failed to store check-in", goerr.V(model.UserIDKey, userID))
	}

	logging.From(ctx).Info("check-in saved",
		"user_id", userID,
		"week", checkIn.WeekNumber,
		"sentiment", checkIn.Sentiment,
	)
	return userID, nil
}

func parseCheckIn(input CheckInInput) (*model.CheckIn, error) {
	if input.WeekNumber < model.MinWeekNumber || input.WeekNumber > model.MaxWeekNumber {
		return nil, goerr.Wrap(model.ErrValidation, FieldWeekNumber+" must be between 1 and 52",
			goerr.V(model.FieldNameKey, FieldWeekNumber),
			goerr.V("value", input.WeekNumber),
		)
	}

	sentiment, err := types.ParseSentiment(strings.TrimSpace(input.Sentiment))
	if err != nil {
		return nil, invalidField(FieldSentiment, input.Sentiment, err)
	}

	keyWins, err := model.SanitizeText(input.KeyWins, FieldKeyWins, model.MaxFieldLength)
	if err != nil {
		return nil, err
	}

	keyChallenges, err := model.SanitizeText(input.KeyChallenges, FieldKeyChallenges, model.MaxFieldLength)
	if err != nil {
		return nil, err
	}

	summary, err := model.SanitizeText(input.Summary, FieldSummary, model.MaxMessageLength)
	if err != nil {
		return nil, err
	}

	return &model.CheckIn{
		WeekNumber:    input.WeekNumber,
		KeyWins:       keyWins,
		KeyChallenges: keyChallenges,
		Summary:       summary,
		Sentiment:     sentiment,
	}, nil
}
