package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment records an employer paying an accepted candidate. The actual money
// movement happens at the external provider; we keep the provider reference
// and the idempotency key used for the capture call.
type Payment struct {
	gorm.Model
	ApplicationID  uint       `json:"applicationID" gorm:"not null;index"`
	EmployerID     uint       `json:"employerID" gorm:"not null;index"`
	CandidateID    uint       `json:"candidateID" gorm:"not null;index"`
	AmountCents    int64      `json:"amountCents" gorm:"not null"`
	Currency       string     `json:"currency" gorm:"size:8;not null"`
	Status         string     `json:"status" gorm:"size:16;default:'pending';index"` // pending, captured, failed
	IdempotencyKey string     `json:"idempotencyKey" gorm:"size:64;uniqueIndex"`
	ProviderRef    string     `json:"providerRef" gorm:"size:128"`
	CapturedAt     *time.Time `json:"capturedAt"`
	FailureReason  string     `json:"failureReason" gorm:"size:512"`
}
