package model

import (
	"fmt"

	"github.com/secmon-lab/nem0/pkg/domain/types"
)

// ActionFeedbackLabel is the system message attached to an action tracking turn
const ActionFeedbackLabel = "Action tracking feedback"

// ActionFeedback records that a recommended action was implemented or skipped
type ActionFeedback struct {
	ActionText string
	Status     types.ActionStatus
}

func (f *ActionFeedback) Render() string {
	return fmt.Sprintf("Recommendation '%s' was marked as: %s", f.ActionText, f.Status)
}

func (f *ActionFeedback) Turn() Turn {
	return Turn{SystemMessage(ActionFeedbackLabel), UserMessage(f.Render())}
}
