package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentOrderStatus represents the status of a payment order.
type PaymentOrderStatus string

const (
	OrderStatusCreated    PaymentOrderStatus = "CREATED"
	OrderStatusAuthorized PaymentOrderStatus = "AUTHORIZED"
	OrderStatusCaptured   PaymentOrderStatus = "CAPTURED"
	OrderStatusFailed     PaymentOrderStatus = "FAILED"
	OrderStatusRefunded   PaymentOrderStatus = "REFUNDED"
)

// Terminal reports whether the status permits no further transitions.
func (s PaymentOrderStatus) Terminal() bool {
	return s == OrderStatusCaptured || s == OrderStatusFailed || s == OrderStatusRefunded
}

// PaymentOrder represents one attempt to collect money for a contract.
// Orders are never deleted; they are the financial record.
type PaymentOrder struct {
	ID               uuid.UUID          `json:"id" gorm:"type:char(36);primaryKey"`
	ContractID       uuid.UUID          `json:"contract_id" gorm:"type:char(36);not null;index"`
	PayerID          uuid.UUID          `json:"payer_id" gorm:"type:char(36);not null;index"`
	MerchantID       uuid.UUID          `json:"merchant_id" gorm:"type:char(36);not null;index"`
	GatewayOrderID   string             `json:"gateway_order_id" gorm:"size:64;not null;uniqueIndex"`
	GatewayPaymentID *string            `json:"gateway_payment_id,omitempty" gorm:"size:64;uniqueIndex"`
	GatewaySignature string             `json:"-" gorm:"size:128"`
	Amount           decimal.Decimal    `json:"amount" gorm:"type:decimal(15,2);not null"`
	Currency         string             `json:"currency" gorm:"size:3;not null;default:'INR'"`
	Status           PaymentOrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'CREATED';index"`
	PaymentMethod    string             `json:"payment_method,omitempty" gorm:"size:32"`
	ErrorCode        string             `json:"error_code,omitempty" gorm:"size:64"`
	ErrorDescription string             `json:"error_description,omitempty" gorm:"size:255"`
	ClientIP         string             `json:"client_ip,omitempty" gorm:"size:45"`
	ClientUserAgent  string             `json:"client_user_agent,omitempty" gorm:"size:255"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
	CapturedAt       *time.Time         `json:"captured_at,omitempty"`
	FailedAt         *time.Time         `json:"failed_at,omitempty"`
}

// BeforeCreate sets UUID before creating the record.
func (p *PaymentOrder) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
