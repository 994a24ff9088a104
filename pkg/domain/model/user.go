package model

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// UserID is the opaque handle all memories are partitioned by. It must be a UUID string.
type UserID string

// Validate returns ErrValidation unless the ID parses as a UUID
func (id UserID) Validate() error {
	if id == "" {
		return goerr.Wrap(ErrValidation, "user_id must not be empty")
	}
	if _, err := uuid.Parse(string(id)); err != nil {
		return goerr.Wrap(ErrValidation, "user_id must be a valid UUID", goerr.V(UserIDKey, string(id)))
	}
	return nil
}

// ParseUserID validates raw and returns its canonical lowercase hyphenated form,
// so braced, urn:uuid: and uppercase spellings of one UUID share one partition.
func ParseUserID(raw string) (UserID, error) {
	if err := UserID(raw).Validate(); err != nil {
		return "", err
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return "", goerr.Wrap(ErrValidation, "user_id must be a valid UUID", goerr.V(UserIDKey, raw))
	}
	return UserID(parsed.String()), nil
}

func (id UserID) String() string {
	return string(id)
}
