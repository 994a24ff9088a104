package types

import "fmt"

// ActionStatus represents the feedback a seller gives on a recommended action
type ActionStatus string

const (
	ActionStatusImplemented ActionStatus = "implemented"
	ActionStatusSkipped     ActionStatus = "skipped"
)

// AllActionStatuses returns all valid action statuses
func AllActionStatuses() []ActionStatus {
	return []ActionStatus{
		ActionStatusImplemented,
		ActionStatusSkipped,
	}
}

// IsValid checks if the action status is valid
func (s ActionStatus) IsValid() bool {
	switch s {
	case ActionStatusImplemented,
		ActionStatusSkipped:
		return true
	default:
		return false
	}
}

// String returns the string representation of the action status
func (s ActionStatus) String() string {
	return string(s)
}

// ParseActionStatus parses a string into an ActionStatus
func ParseActionStatus(s string) (ActionStatus, error) {
	status := ActionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid action status: %s", s)
	}
	return status, nil
}
