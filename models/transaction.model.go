package models

import (
	"gorm.io/gorm"
)

const (
	TransactionTypeEnrollment = "ENROLLMENT"
	TransactionTypeMint       = "MINT"

	// TransactionStatusPendingEnrollment marks a payment that landed on the
	// ledger while the enrollment write failed. The reconciler and the retry
	// endpoint pick these up; the learner must never be charged again.
	TransactionStatusCompleted         = "COMPLETED"
	TransactionStatusPendingEnrollment = "PENDING_ENROLLMENT"
	TransactionStatusFailed            = "FAILED"
)

// Transactions model
type Transactions struct {
	gorm.Model             // Auto includes ID, CreatedAt, UpdatedAt, DeletedAt
	LearnerAddress  string `json:"learner_address" gorm:"index;not null"`
	CourseID        uint   `json:"course_id" gorm:"index;not null"`
	Reference       string `json:"reference" gorm:"uniqueIndex;not null"` // internal idempotency key
	TransactionType string `json:"transaction_type" gorm:"not null"`      // ENROLLMENT/MINT
	TxHash          string `json:"tx_hash" gorm:"index;default:''"`
	Amount          uint   `json:"amount" gorm:"not null"` // ledger-native units, 0 for free courses
	Status          string `json:"status" gorm:"not null"`
	IsDeleted       bool   `gorm:"default:false"`
}
