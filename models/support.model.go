package models

import "gorm.io/gorm"

const (
	TicketCategoryGeneral = "GENERAL"
	// TicketCategoryPayment is the recovery channel for a learner whose
	// payment landed on the ledger without a matching enrollment record.
	TicketCategoryPayment = "PAYMENT"
)

type SupportTicket struct {
	gorm.Model
	LearnerAddress string `json:"learner_address" gorm:"index;not null"`
	Title          string `json:"title"`
	Message        string `json:"message" gorm:"type:text"`
	Status         string `json:"status" gorm:"default:'OPEN'"` // OPEN, IN_PROGRESS, RESOLVED
	Priority       string `json:"priority" gorm:"default:'MEDIUM'"`
	Category       string `json:"category" gorm:"default:'GENERAL'"`
	CourseID       *uint  `json:"course_id" gorm:"index"`
	TransactionRef string `json:"transaction_ref" gorm:"default:''"` // links PAYMENT tickets to the stranded transaction
	IsDeleted      bool   `gorm:"default:false"`
}
