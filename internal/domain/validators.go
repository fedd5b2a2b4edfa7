package domain

import (
	"fmt"
	"strings"
)

const (
	MaxExternalIDLen  = 64
	MaxDisplayNameLen = 100
)

// ValidateIdentity checks the structural rules for a lookup-or-create
// payload. It never consults storage.
func ValidateIdentity(externalID, displayName string) error {
	if strings.TrimSpace(externalID) == "" {
		return fmt.Errorf("external_id is required and must be a non-empty string")
	}
	if strings.TrimSpace(displayName) == "" {
		return fmt.Errorf("display_name is required and must be a non-empty string")
	}
	if len(externalID) > MaxExternalIDLen {
		return fmt.Errorf("external_id cannot exceed %d characters", MaxExternalIDLen)
	}
	if len(displayName) > MaxDisplayNameLen {
		return fmt.Errorf("display_name cannot exceed %d characters", MaxDisplayNameLen)
	}
	return nil
}

// ValidateScoreUpdate checks the structural rules for a score mutation.
// Both fields are optional; an empty update is a valid no-op. Numeric-ness
// is already guaranteed by the typed decode, so only range rules live here.
func ValidateScoreUpdate(u ScoreUpdate) error {
	if u.HasLevel() && *u.CurrentLevel < 1 {
		return fmt.Errorf("current_level must be a number >= 1")
	}
	return nil
}

// ValidateProgress checks the structural rules for a progress submission.
func ValidateProgress(levelID string, score *int64) error {
	if strings.TrimSpace(levelID) == "" {
		return fmt.Errorf("level_id is required")
	}
	if score == nil {
		return fmt.Errorf("score is required and must be a number")
	}
	return nil
}
