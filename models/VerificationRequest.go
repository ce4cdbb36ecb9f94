package models

import (
	"time"
)

// VerificationRequest is a manual-review record opened when the automatic
// document check fails and the user asks a moderator to look at it. At most
// one pending request may exist per user; a moderator decision flips the
// status to approved or rejected, and a rejected user may submit a fresh
// request (the old one stays as history).
type VerificationRequest struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"userID" gorm:"not null;index"`
	DocumentKind string     `json:"documentKind" gorm:"size:50;not null"`
	DocumentKey  string     `json:"documentKey" gorm:"size:512;not null"`
	Status       string     `json:"status" gorm:"size:20;default:'pending';index"` // pending, approved, rejected
	ReviewedBy   *uint      `json:"reviewedBy" gorm:"index"`
	ReviewedAt   *time.Time `json:"reviewedAt"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
