package models

import (
	"time"

	"gorm.io/gorm"
)

// Application is a job seeker's submission against a JobPost. Status moves
// through the pipeline submitted -> in_review -> shortlisted -> offer ->
// accepted|rejected; the seeker may withdraw at any non-terminal point.
type Application struct {
	gorm.Model
	JobPostID   uint       `json:"jobPostID" gorm:"not null;index;uniqueIndex:idx_applications_post_seeker"`
	SeekerID    uint       `json:"seekerID" gorm:"not null;index;uniqueIndex:idx_applications_post_seeker"`
	CoverLetter string     `json:"coverLetter" gorm:"type:text"`
	ResumeURL   string     `json:"resumeURL" gorm:"size:512"`
	Status      string     `json:"status" gorm:"size:20;default:'submitted';index"`
	DecidedAt   *time.Time `json:"decidedAt"`
	Notes       string     `json:"notes" gorm:"type:text"`
}
