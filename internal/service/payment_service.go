package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lexpay/internal/errors"
	"lexpay/internal/gateway"
	"lexpay/internal/model"
	"lexpay/internal/repository"
)

const orderCurrency = "INR"

// minorUnitFactor converts rupees to paise.
var minorUnitFactor = decimal.NewFromInt(100)

// PaymentService owns the payment order state machine:
// CREATED -> AUTHORIZED -> CAPTURED | FAILED, REFUNDED from CAPTURED only.
type PaymentService interface {
	// CreateOrder opens a gateway order for a contract's principal amount and
	// persists the payment order in CREATED.
	CreateOrder(ctx context.Context, contractID uuid.UUID, clientIP, clientUserAgent string) (*model.PaymentOrder, error)
	// Capture verifies the gateway signature and transitions the order to
	// CAPTURED, updating the contract's paid aggregate and emitting a
	// PAYMENT_COMPLETED audit event without waiting for ledger confirmation.
	Capture(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature, paymentMethod string) (*model.PaymentOrder, error)
	// MarkFailed transitions a non-terminal order to FAILED. Idempotent:
	// duplicate webhook deliveries for an already-terminal order are no-ops.
	MarkFailed(ctx context.Context, gatewayOrderID, errorCode, errorDescription string) error
	// ListOrders returns every payment order raised against a contract.
	ListOrders(ctx context.Context, contractID uuid.UUID) ([]model.PaymentOrder, error)
}

type paymentService struct {
	orderRepo    repository.PaymentOrderRepository
	contractRepo repository.ContractRepository
	contracts    ContractService
	gateway      gateway.Client
	audit        AuditService
	verifier     *SignatureVerifier
	// Mutex map for per-order locking: a capture and a late webhook failure
	// notice for the same order are serialized here, the repository CAS is
	// the backstop.
	orderMutexes sync.Map
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	orderRepo repository.PaymentOrderRepository,
	contractRepo repository.ContractRepository,
	contracts ContractService,
	gatewayClient gateway.Client,
	audit AuditService,
	verifier *SignatureVerifier,
) PaymentService {
	return &paymentService{
		orderRepo:    orderRepo,
		contractRepo: contractRepo,
		contracts:    contracts,
		gateway:      gatewayClient,
		audit:        audit,
		verifier:     verifier,
	}
}

// getMutex returns a mutex for a specific gateway order ID.
func (s *paymentService) getMutex(gatewayOrderID string) *sync.Mutex {
	value, _ := s.orderMutexes.LoadOrStore(gatewayOrderID, &sync.Mutex{})
	return value.(*sync.Mutex)
}

// CreateOrder opens an order with the gateway and persists it. The gateway
// call happens before the local write; a gateway order with no local record
// is harmless, the reverse is not.
func (s *paymentService) CreateOrder(ctx context.Context, contractID uuid.UUID, clientIP, clientUserAgent string) (*model.PaymentOrder, error) {
	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrContractNotFound
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}

	if !contract.Payable() {
		return nil, errors.ErrContractNotEligible
	}

	// Gateways take the smallest currency unit.
	amountMinorUnits := contract.PrincipalAmount.Mul(minorUnitFactor).Round(0).IntPart()

	gatewayOrderID, err := s.gateway.CreateOrder(ctx, amountMinorUnits, orderCurrency, "contract_"+contractID.String(), map[string]string{
		"contract_id": contractID.String(),
		"merchant_id": contract.MerchantID.String(),
		"payer_id":    contract.PayerID.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrGatewayUnavailable, err)
	}

	order := &model.PaymentOrder{
		ContractID:      contractID,
		PayerID:         contract.PayerID,
		MerchantID:      contract.MerchantID,
		GatewayOrderID:  gatewayOrderID,
		Amount:          contract.PrincipalAmount,
		Currency:        orderCurrency,
		Status:          model.OrderStatusCreated,
		ClientIP:        clientIP,
		ClientUserAgent: clientUserAgent,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create payment order: %w", err)
	}
	return order, nil
}

// Capture validates the signature and finalizes the payment. Replays of an
// already-captured order with a valid signature return the order unchanged;
// the contract's paid aggregate is only ever counted once.
func (s *paymentService) Capture(ctx context.Context, gatewayOrderID, gatewayPaymentID, signature, paymentMethod string) (*model.PaymentOrder, error) {
	mutex := s.getMutex(gatewayOrderID)
	mutex.Lock()
	defer mutex.Unlock()

	order, err := s.orderRepo.FindByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find payment order: %w", err)
	}

	if !s.verifier.VerifyPayment(gatewayOrderID, gatewayPaymentID, signature) {
		// First failure transitions the order; repeats leave it untouched.
		if !order.Status.Terminal() {
			if _, err := s.orderRepo.FailIfNotTerminal(ctx, order.ID, "SIGNATURE_VERIFICATION_FAILED", "payment signature verification failed", time.Now()); err != nil {
				return nil, fmt.Errorf("fail payment order: %w", err)
			}
		}
		return nil, errors.ErrSignatureInvalid
	}

	if order.Status == model.OrderStatusCaptured {
		// Verified replay of a completed capture.
		return order, nil
	}
	if order.Status.Terminal() {
		return nil, errors.ErrOrderNotCapturable
	}

	capturedAt := time.Now()
	captured, err := s.orderRepo.CaptureIfPending(ctx, order.ID, gatewayPaymentID, signature, paymentMethod, capturedAt)
	if err != nil {
		return nil, fmt.Errorf("capture payment order: %w", err)
	}
	if !captured {
		// Lost the race against another writer; report the current state.
		current, ferr := s.orderRepo.FindByID(ctx, order.ID)
		if ferr == nil && current.Status == model.OrderStatusCaptured {
			return current, nil
		}
		return nil, errors.ErrOrderNotCapturable
	}

	order.Status = model.OrderStatusCaptured
	order.GatewayPaymentID = &gatewayPaymentID
	order.GatewaySignature = signature
	order.PaymentMethod = paymentMethod
	order.CapturedAt = &capturedAt

	// The CAS above committed the capture, so the event is queued before
	// anything else can fail; a replay of this order never gets here again.
	s.audit.SubmitAsync(AuditEvent{
		EventType:  model.EventPaymentCompleted,
		EntityID:   order.ContractID,
		EntityType: "Payment",
		UserID:     order.PayerID,
		Metadata: map[string]string{
			"paymentOrderId":   order.ID.String(),
			"gatewayOrderId":   gatewayOrderID,
			"gatewayPaymentId": gatewayPaymentID,
			"contractId":       order.ContractID.String(),
			"amount":           order.Amount.String(),
			"currency":         order.Currency,
			"paymentMethod":    paymentMethod,
			"status":           string(model.OrderStatusCaptured),
		},
	})

	if err := s.contracts.RecordPayment(ctx, order.ContractID, order.Amount, capturedAt); err != nil {
		// The capture stands; the aggregate is reconcilable from orders.
		return order, fmt.Errorf("%w: %v", errors.ErrContractAggregateStale, err)
	}

	return order, nil
}

// ListOrders returns every payment order raised against a contract.
func (s *paymentService) ListOrders(ctx context.Context, contractID uuid.UUID) ([]model.PaymentOrder, error) {
	return s.orderRepo.ListByContract(ctx, contractID)
}

// MarkFailed handles gateway-side failure signals, typically webhook-driven.
// Unknown orders and already-terminal orders are no-ops.
func (s *paymentService) MarkFailed(ctx context.Context, gatewayOrderID, errorCode, errorDescription string) error {
	mutex := s.getMutex(gatewayOrderID)
	mutex.Lock()
	defer mutex.Unlock()

	order, err := s.orderRepo.FindByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("find payment order: %w", err)
	}

	if order.Status.Terminal() {
		return nil
	}

	failed, err := s.orderRepo.FailIfNotTerminal(ctx, order.ID, errorCode, errorDescription, time.Now())
	if err != nil {
		return fmt.Errorf("fail payment order: %w", err)
	}
	if !failed {
		return nil
	}

	s.audit.SubmitAsync(AuditEvent{
		EventType:  model.EventPaymentFailed,
		EntityID:   order.ContractID,
		EntityType: "Payment",
		UserID:     order.PayerID,
		Metadata: map[string]string{
			"paymentOrderId":   order.ID.String(),
			"gatewayOrderId":   gatewayOrderID,
			"contractId":       order.ContractID.String(),
			"amount":           order.Amount.String(),
			"errorCode":        errorCode,
			"errorDescription": errorDescription,
			"status":           string(model.OrderStatusFailed),
		},
	})

	return nil
}
