package model_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/nem0/pkg/domain/model"
)

func TestUserID_Validate(t *testing.T) {
	tests := []struct {
		name    string
		id      model.UserID
		wantErr bool
	}{
		{"lowercase uuid", "3f2b8c1e-9a4d-4e6f-8b1a-2c3d4e5f6a7b", false},
		{"uppercase uuid", "3F2B8C1E-9A4D-4E6F-8B1A-2C3D4E5F6A7B", false},
		{"empty", "", true},
		{"not a uuid", "seller-42", true},
		{"truncated", "3f2b8c1e-9a4d-4e6f-8b1a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.id.Validate()
			if tt.wantErr {
				gt.Bool(t, errors.Is(err, model.ErrValidation)).True()
			} else {
				gt.NoError(t, err)
			}
		})
	}
}

func TestParseUserID(t *testing.T) {
	const canonical = model.UserID("3f2b8c1e-9a4d-4e6f-8b1a-2c3d4e5f6a7b")

	for _, raw := range []string{
		"3f2b8c1e-9a4d-4e6f-8b1a-2c3d4e5f6a7b",
		"3F2B8C1E-9A4D-4E6F-8B1A-2C3D4E5F6A7B",
		"{3f2b8c1e-9a4d-4e6f-8b1a-2c3d4e5f6a7b}",
		"urn:uuid:3f2b8c1e-9a4d-4e6f-8b1a-2c3d4e5f6a7b",
		"3f2b8c1e9a4d4e6f8b1a2c3d4e5f6a7b",
	} {
		t.Run(raw, func(t *testing.T) {
			id, err := model.ParseUserID(raw)
			gt.NoError(t, err).Required()
			gt.Value(t, id).Equal(canonical)
		})
	}

	t.Run("rejects non UUID", func(t *testing.T) {
		_, err := model.ParseUserID("seller-42")
		gt.Bool(t, errors.Is(err, model.ErrValidation)).True()
	})
}

func TestNewMemoryID(t *testing.T) {
	id1 := model.NewMemoryID()
	id2 := model.NewMemoryID()

	gt.Value(t, string(id1)).NotEqual("")
	gt.Value(t, id1).NotEqual(id2)
}
