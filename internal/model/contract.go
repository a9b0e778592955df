package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContractStatus represents the lifecycle state of a contract.
type ContractStatus string

const (
	ContractStatusDraft     ContractStatus = "DRAFT"
	ContractStatusSigned    ContractStatus = "SIGNED"
	ContractStatusActive    ContractStatus = "ACTIVE"
	ContractStatusCompleted ContractStatus = "COMPLETED"
	ContractStatusCancelled ContractStatus = "CANCELLED"
)

// Contract payment aggregation states.
const (
	ContractPaymentPending = "PENDING"
	ContractPaymentPartial = "PARTIAL"
	ContractPaymentPaid    = "PAID"
)

// Contract represents a legal contract between a merchant and a payer.
// Payments are collected against it while it is SIGNED or ACTIVE.
type Contract struct {
	ID              uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	MerchantID      uuid.UUID       `json:"merchant_id" gorm:"type:char(36);not null;index"`
	PayerID         uuid.UUID       `json:"payer_id" gorm:"type:char(36);not null;index"`
	PrincipalAmount decimal.Decimal `json:"principal_amount" gorm:"type:decimal(15,2);not null"`
	InterestRate    decimal.Decimal `json:"interest_rate" gorm:"type:decimal(5,2)"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	Status          ContractStatus  `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	PaymentStatus   string          `json:"payment_status" gorm:"type:varchar(20);not null;default:'PENDING'"`
	TotalPaidAmount decimal.Decimal `json:"total_paid_amount" gorm:"type:decimal(15,2);not null;default:0"`
	LastPaymentAt   *time.Time      `json:"last_payment_at,omitempty"`
	SignedAt        *time.Time      `json:"signed_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Contract) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Payable reports whether the contract may accept a new payment order.
func (c *Contract) Payable() bool {
	return c.Status == ContractStatusActive || c.Status == ContractStatusSigned
}
