package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SavedSchool is the join record between an account and a university a user
// has saved. It carries no state of its own beyond the pair and the time the
// save happened.
type SavedSchool struct {
	ID         uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	SchoolName string    `json:"school_name"`
	SavedAt    time.Time `json:"saved_at"`
}

// NewSavedSchool creates a saved-school association for the given pair,
// stamped with the current time.
func NewSavedSchool(username, schoolName string) (*SavedSchool, error) {
	s := &SavedSchool{
		ID:         uuid.New(),
		Username:   username,
		SchoolName: schoolName,
		SavedAt:    time.Now().UTC(),
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks if the SavedSchool has valid data.
func (s *SavedSchool) Validate() error {
	if s.ID == uuid.Nil {
		return fmt.Errorf("%w: saved school ID cannot be empty", ErrInvalidArgument)
	}
	if s.Username == "" {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, ErrEmptyUsername)
	}
	if s.SchoolName == "" {
		return fmt.Errorf("%w: school %w", ErrInvalidArgument, ErrEmptyName)
	}
	return nil
}
