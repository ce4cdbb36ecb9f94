package models

import (
	"gorm.io/gorm"
)

// Conversation ties a seeker and an employer together, optionally anchored to
// a job post. One conversation per (seeker, employer, post) triple.
type Conversation struct {
	gorm.Model
	SeekerID   uint  `json:"seekerID" gorm:"not null;index;uniqueIndex:idx_conversations_triple"`
	EmployerID uint  `json:"employerID" gorm:"not null;index;uniqueIndex:idx_conversations_triple"`
	JobPostID  *uint `json:"jobPostID" gorm:"index;uniqueIndex:idx_conversations_triple"`

	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID;references:ID"`
}
