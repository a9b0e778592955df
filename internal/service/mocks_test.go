package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"lexpay/internal/ledger"
	"lexpay/internal/model"
)

// MockContractRepository is a mock implementation of repository.ContractRepository.
type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, contract *model.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) Update(ctx context.Context, contract *model.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]model.Contract, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contract), args.Error(1)
}

// MockPaymentOrderRepository is a mock implementation of repository.PaymentOrderRepository.
type MockPaymentOrderRepository struct {
	mock.Mock
}

func (m *MockPaymentOrderRepository) Create(ctx context.Context, order *model.PaymentOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPaymentOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PaymentOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) FindByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*model.PaymentOrder, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]model.PaymentOrder, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) CaptureIfPending(ctx context.Context, id uuid.UUID, gatewayPaymentID, signature, paymentMethod string, capturedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, gatewayPaymentID, signature, paymentMethod, capturedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentOrderRepository) FailIfNotTerminal(ctx context.Context, id uuid.UUID, errorCode, errorDescription string, failedAt time.Time) (bool, error) {
	args := m.Called(ctx, id, errorCode, errorDescription, failedAt)
	return args.Bool(0), args.Error(1)
}

// MockAuditRecordRepository is a mock implementation of repository.AuditRecordRepository.
type MockAuditRecordRepository struct {
	mock.Mock
}

func (m *MockAuditRecordRepository) Create(ctx context.Context, record *model.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRecordRepository) Update(ctx context.Context, record *model.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.AuditRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditRecord), args.Error(1)
}

func (m *MockAuditRecordRepository) FindByEntityID(ctx context.Context, entityID uuid.UUID) ([]model.AuditRecord, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditRecord), args.Error(1)
}

func (m *MockAuditRecordRepository) ExistsByEntityAndEvent(ctx context.Context, entityID uuid.UUID, eventType model.AuditEventType) (bool, error) {
	args := m.Called(ctx, entityID, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuditRecordRepository) FindRetryable(ctx context.Context, maxRetries int) ([]model.AuditRecord, error) {
	args := m.Called(ctx, maxRetries)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditRecord), args.Error(1)
}

// MockUserRepository is a mock implementation of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email, role string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, role, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.String(2), args.Error(3)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

// MockGatewayClient is a mock implementation of gateway.Client.
type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) CreateOrder(ctx context.Context, amountMinorUnits int64, currency, receipt string, notes map[string]string) (string, error) {
	args := m.Called(ctx, amountMinorUnits, currency, receipt, notes)
	return args.String(0), args.Error(1)
}

// MockLedgerClient is a mock implementation of ledger.Client.
type MockLedgerClient struct {
	mock.Mock
}

func (m *MockLedgerClient) Broadcast(ctx context.Context, eventCode uint8, entityID, userID, metadataJSON string) (string, error) {
	args := m.Called(ctx, eventCode, entityID, userID, metadataJSON)
	return args.String(0), args.Error(1)
}

func (m *MockLedgerClient) Receipt(ctx context.Context, txHash string) (*ledger.TxReceipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.TxReceipt), args.Error(1)
}

// MockAuditService is a mock implementation of AuditService.
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Submit(ctx context.Context, event AuditEvent) (*model.AuditRecord, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditRecord), args.Error(1)
}

func (m *MockAuditService) SubmitAsync(event AuditEvent) {
	m.Called(event)
}

func (m *MockAuditService) HasEvent(ctx context.Context, entityID uuid.UUID, eventType model.AuditEventType) (bool, error) {
	args := m.Called(ctx, entityID, eventType)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuditService) AuditTrail(ctx context.Context, entityID uuid.UUID) ([]model.AuditRecord, error) {
	args := m.Called(ctx, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditRecord), args.Error(1)
}

func (m *MockAuditService) SweepFailed(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockAuditService) RunSweeper(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockAuditService) Close() {
	m.Called()
}

// MockContractService is a mock implementation of ContractService.
type MockContractService struct {
	mock.Mock
}

func (m *MockContractService) CreateContract(ctx context.Context, merchantID, payerID uuid.UUID, principal, interestRate decimal.Decimal, startDate, endDate time.Time) (*model.Contract, error) {
	args := m.Called(ctx, merchantID, payerID, principal, interestRate, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) SignContract(ctx context.Context, contractID, signerID uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, contractID, signerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) ActivateContract(ctx context.Context, contractID, userID uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, contractID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) GetContract(ctx context.Context, contractID uuid.UUID) (*model.Contract, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contract), args.Error(1)
}

func (m *MockContractService) ListContracts(ctx context.Context, merchantID uuid.UUID) ([]model.Contract, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Contract), args.Error(1)
}

func (m *MockContractService) RecordPayment(ctx context.Context, contractID uuid.UUID, amount decimal.Decimal, paidAt time.Time) error {
	args := m.Called(ctx, contractID, amount, paidAt)
	return args.Error(0)
}
