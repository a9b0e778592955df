package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditEventType identifies the kind of lifecycle event anchored to the ledger.
type AuditEventType string

const (
	EventContractCreated   AuditEventType = "CONTRACT_CREATED"
	EventContractSigned    AuditEventType = "CONTRACT_SIGNED"
	EventContractActivated AuditEventType = "CONTRACT_ACTIVATED"
	EventPaymentInitiated  AuditEventType = "PAYMENT_INITIATED"
	EventPaymentCompleted  AuditEventType = "PAYMENT_COMPLETED"
	EventPaymentFailed     AuditEventType = "PAYMENT_FAILED"
	EventLegalNoticeSent   AuditEventType = "LEGAL_NOTICE_SENT"
	EventDisputeRaised     AuditEventType = "DISPUTE_RAISED"
	EventDisputeResolved   AuditEventType = "DISPUTE_RESOLVED"
)

var eventWireCodes = map[AuditEventType]uint8{
	EventContractCreated:   0,
	EventContractSigned:    1,
	EventContractActivated: 2,
	EventPaymentInitiated:  3,
	EventPaymentCompleted:  4,
	EventPaymentFailed:     5,
	EventLegalNoticeSent:   6,
	EventDisputeRaised:     7,
	EventDisputeResolved:   8,
}

// WireCode returns the numeric code used on the ledger contract. Codes are
// part of the on-chain format and must never be renumbered.
func (t AuditEventType) WireCode() uint8 {
	return eventWireCodes[t]
}

// AuditRecordStatus represents the ledger submission state of an audit record.
type AuditRecordStatus string

const (
	AuditStatusPending   AuditRecordStatus = "PENDING"
	AuditStatusConfirmed AuditRecordStatus = "CONFIRMED"
	AuditStatusFailed    AuditRecordStatus = "FAILED"
)

// AuditRecord tracks one event's journey to the ledger. Records reference
// entities by id only and are never deleted; they are the audit trail.
type AuditRecord struct {
	ID              uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	EventType       AuditEventType    `json:"event_type" gorm:"type:varchar(50);not null;index"`
	EntityID        uuid.UUID         `json:"entity_id" gorm:"type:char(36);not null;index"`
	EntityType      string            `json:"entity_type" gorm:"size:50;not null"`
	UserID          uuid.UUID         `json:"user_id" gorm:"type:char(36);not null"`
	MetadataJSON    string            `json:"metadata" gorm:"type:text"`
	Network         string            `json:"network" gorm:"size:50;not null"`
	TransactionHash *string           `json:"transaction_hash,omitempty" gorm:"size:66;uniqueIndex"`
	BlockNumber     *uint64           `json:"block_number,omitempty"`
	GasUsed         *uint64           `json:"gas_used,omitempty"`
	GasPrice        string            `json:"gas_price,omitempty" gorm:"size:32"`
	TransactionCost string            `json:"transaction_cost,omitempty" gorm:"size:64"`
	Status          AuditRecordStatus `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ErrorMessage    string            `json:"error_message,omitempty" gorm:"size:1000"`
	RetryCount      int               `json:"retry_count" gorm:"not null;default:0"`
	CreatedAt       time.Time         `json:"created_at" gorm:"index"`
	ConfirmedAt     *time.Time        `json:"confirmed_at,omitempty"`
}

// BeforeCreate sets UUID before creating the record.
func (r *AuditRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
