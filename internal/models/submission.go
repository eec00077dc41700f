package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultSubmissionReason is reported when a submission carries no explicit reason.
const DefaultSubmissionReason = "Test completed"

// Submission is a student's attempt at a test. TestID may point at a test that no
// longer exists; such submissions are orphaned.
type Submission struct {
	ID               string     `gorm:"primaryKey;size:64" json:"id"`
	TestID           string     `gorm:"size:64;index;not null" json:"test_id"`
	UserID           string     `gorm:"size:64;index;not null" json:"user_id"`
	ObtainedMarks    *float64   `json:"obtained_marks"`
	SubmittedAt      *time.Time `json:"submitted_at"`
	SubmissionReason string     `gorm:"size:255" json:"submission_reason"`
	ViolationReason  string     `gorm:"size:255" json:"violation_reason"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Test             *Test      `gorm:"foreignKey:TestID" json:"test,omitempty"`
	User             *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeCreate assigns an identifier when none was supplied.
func (s *Submission) BeforeCreate(*gorm.DB) error {
	if strings.TrimSpace(s.ID) == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Obtained returns the obtained marks, treating a missing value as zero.
func (s Submission) Obtained() float64 {
	if s.ObtainedMarks == nil {
		return 0
	}
	return *s.ObtainedMarks
}
