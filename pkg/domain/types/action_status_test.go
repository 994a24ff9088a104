package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/nem0/pkg/domain/types"
)

func TestActionStatus_IsValid(t *testing.T) {
	tests := []struct {
		name   string
		status types.ActionStatus
		want   bool
	}{
		{name: "implemented", status: types.ActionStatusImplemented, want: true},
		{name: "skipped", status: types.ActionStatusSkipped, want: true},
		{name: "capitalized", status: types.ActionStatus("Implemented"), want: false},
		{name: "unknown", status: types.ActionStatus("done"), want: false},
		{name: "empty", status: types.ActionStatus(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.status.IsValid()).Equal(tt.want)
		})
	}
}

func TestParseActionStatus(t *testing.T) {
	t.Run("parses valid status", func(t *testing.T) {
		for _, s := range types.AllActionStatuses() {
			got, err := types.ParseActionStatus(s.String())
			gt.NoError(t, err)
			gt.Value(t, got).Equal(s)
		}
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		_, err := types.ParseActionStatus("pending")
		gt.Error(t, err)
	})
}
