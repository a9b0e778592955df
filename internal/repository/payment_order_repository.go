package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"lexpay/internal/model"
)

// PaymentOrderRepository defines payment order persistence operations.
// The conditional updates are check-and-set guards: a late webhook failure
// notice racing a concurrent capture can never both win.
type PaymentOrderRepository interface {
	Create(ctx context.Context, order *model.PaymentOrder) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.PaymentOrder, error)
	FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.PaymentOrder, error)
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]model.PaymentOrder, error)
	CaptureIfPending(ctx context.Context, id uuid.UUID, gatewayPaymentID, signature, paymentMethod string, capturedAt time.Time) (bool, error)
	FailIfNotTerminal(ctx context.Context, id uuid.UUID, errorCode, errorDescription string, failedAt time.Time) (bool, error)
}

type paymentOrderRepository struct {
	db *gorm.DB
}

// NewPaymentOrderRepository creates a new payment order repository.
func NewPaymentOrderRepository(db *gorm.DB) PaymentOrderRepository {
	return &paymentOrderRepository{db: db}
}

// Create creates a new payment order record.
func (r *paymentOrderRepository) Create(ctx context.Context, order *model.PaymentOrder) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// FindByID finds a payment order by ID.
func (r *paymentOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByGatewayOrderID finds a payment order by its gateway order id.
func (r *paymentOrderRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	if err := r.db.WithContext(ctx).Where("gateway_order_id = ?", gatewayOrderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByContract lists all payment orders for a contract, newest first.
func (r *paymentOrderRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]model.PaymentOrder, error) {
	var orders []model.PaymentOrder
	if err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CaptureIfPending transitions an order to CAPTURED only if it is still in a
// non-terminal state. Returns false when another writer got there first.
func (r *paymentOrderRepository) CaptureIfPending(ctx context.Context, id uuid.UUID, gatewayPaymentID, signature, paymentMethod string, capturedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.PaymentOrder{}).
		Where("id = ? AND status IN ?", id, []model.PaymentOrderStatus{model.OrderStatusCreated, model.OrderStatusAuthorized}).
		Updates(map[string]interface{}{
			"status":             model.OrderStatusCaptured,
			"gateway_payment_id": gatewayPaymentID,
			"gateway_signature":  signature,
			"payment_method":     paymentMethod,
			"captured_at":        capturedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FailIfNotTerminal transitions an order to FAILED only if it is still in a
// non-terminal state. Returns false when the order was already terminal.
func (r *paymentOrderRepository) FailIfNotTerminal(ctx context.Context, id uuid.UUID, errorCode, errorDescription string, failedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.PaymentOrder{}).
		Where("id = ? AND status IN ?", id, []model.PaymentOrderStatus{model.OrderStatusCreated, model.OrderStatusAuthorized}).
		Updates(map[string]interface{}{
			"status":            model.OrderStatusFailed,
			"error_code":        errorCode,
			"error_description": errorDescription,
			"failed_at":         failedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
