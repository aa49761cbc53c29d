package model

import (
	"time"

	"gorm.io/datatypes"
)

// Challenge is one day of the competition. Immutable once seeded; visibility
// is gated by UnlocksAt against the current time.
type Challenge struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	DayNumber     int            `json:"day_number" gorm:"not null;uniqueIndex"`
	Title         string         `json:"title" gorm:"not null"`
	Description   string         `json:"description" gorm:"type:text;not null"`
	FunctionName  string         `json:"function_name" gorm:"not null"`
	HarnessKind   string         `json:"harness_kind" gorm:"not null;default:'generic'"`
	ExampleInput  string         `json:"example_input" gorm:"type:text"`
	ExampleOutput string         `json:"example_output" gorm:"type:text"`
	TestCases     datatypes.JSON `json:"test_cases" gorm:"not null"`
	Difficulty    string         `json:"difficulty" gorm:"not null"` // "easy", "medium", "hard"
	UnlocksAt     time.Time      `json:"unlocks_at" gorm:"not null"`
	CreatedAt     time.Time      `json:"created_at"`
}

// IsUnlocked reports whether the challenge is visible at the given time.
// devMode bypasses the schedule for local development.
func (c *Challenge) IsUnlocked(now time.Time, devMode bool) bool {
	if devMode {
		return true
	}
	return !c.UnlocksAt.After(now)
}
