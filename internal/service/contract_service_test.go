package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "lexpay/internal/errors"
	"lexpay/internal/model"
)

func newContractService() (ContractService, *MockContractRepository, *MockAuditService) {
	contractRepo := new(MockContractRepository)
	audit := new(MockAuditService)
	return NewContractService(contractRepo, audit, nil), contractRepo, audit
}

func TestCreateContract(t *testing.T) {
	svc, contractRepo, audit := newContractService()
	ctx := context.Background()
	merchantID := uuid.New()
	payerID := uuid.New()

	contractRepo.On("Create", ctx, mock.AnythingOfType("*model.Contract")).Return(nil)
	audit.On("SubmitAsync", mock.MatchedBy(func(e AuditEvent) bool {
		return e.EventType == model.EventContractCreated && e.UserID == merchantID
	})).Return()

	contract, err := svc.CreateContract(ctx, merchantID, payerID,
		decimal.RequireFromString("100000.00"), decimal.RequireFromString("12.50"),
		time.Now(), time.Now().AddDate(1, 0, 0))

	assert.NoError(t, err)
	assert.Equal(t, model.ContractStatusDraft, contract.Status)
	assert.Equal(t, model.ContractPaymentPending, contract.PaymentStatus)
	assert.True(t, contract.TotalPaidAmount.IsZero())
	audit.AssertNumberOfCalls(t, "SubmitAsync", 1)
}

func TestCreateContract_InvalidAmount(t *testing.T) {
	svc, contractRepo, audit := newContractService()
	ctx := context.Background()

	contract, err := svc.CreateContract(ctx, uuid.New(), uuid.New(),
		decimal.Zero, decimal.RequireFromString("12.50"),
		time.Now(), time.Now().AddDate(1, 0, 0))

	assert.Nil(t, contract)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	contractRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "SubmitAsync", mock.Anything)
}

func TestSignContract(t *testing.T) {
	svc, contractRepo, audit := newContractService()
	ctx := context.Background()
	signerID := uuid.New()
	contract := &model.Contract{ID: uuid.New(), Status: model.ContractStatusDraft}

	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
	contractRepo.On("Update", ctx, contract).Return(nil)
	audit.On("SubmitAsync", mock.MatchedBy(func(e AuditEvent) bool {
		return e.EventType == model.EventContractSigned && e.UserID == signerID
	})).Return()

	signed, err := svc.SignContract(ctx, contract.ID, signerID)

	assert.NoError(t, err)
	assert.Equal(t, model.ContractStatusSigned, signed.Status)
	assert.NotNil(t, signed.SignedAt)
	audit.AssertNumberOfCalls(t, "SubmitAsync", 1)
}

func TestSignContract_NotDraft(t *testing.T) {
	svc, contractRepo, audit := newContractService()
	ctx := context.Background()
	contract := &model.Contract{ID: uuid.New(), Status: model.ContractStatusActive}

	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)

	signed, err := svc.SignContract(ctx, contract.ID, uuid.New())

	assert.Nil(t, signed)
	assert.Error(t, err)
	contractRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "SubmitAsync", mock.Anything)
}

func TestActivateContract(t *testing.T) {
	svc, contractRepo, audit := newContractService()
	ctx := context.Background()
	contract := &model.Contract{ID: uuid.New(), Status: model.ContractStatusSigned}

	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
	contractRepo.On("Update", ctx, contract).Return(nil)
	audit.On("SubmitAsync", mock.MatchedBy(func(e AuditEvent) bool {
		return e.EventType == model.EventContractActivated
	})).Return()

	activated, err := svc.ActivateContract(ctx, contract.ID, uuid.New())

	assert.NoError(t, err)
	assert.Equal(t, model.ContractStatusActive, activated.Status)
}

func TestActivateContract_NotSigned(t *testing.T) {
	svc, contractRepo, _ := newContractService()
	ctx := context.Background()
	contract := &model.Contract{ID: uuid.New(), Status: model.ContractStatusDraft}

	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)

	activated, err := svc.ActivateContract(ctx, contract.ID, uuid.New())

	assert.Nil(t, activated)
	assert.Error(t, err)
}

func TestGetContract_NotFound(t *testing.T) {
	svc, contractRepo, _ := newContractService()
	ctx := context.Background()
	contractID := uuid.New()

	contractRepo.On("FindByID", ctx, contractID).Return(nil, gorm.ErrRecordNotFound)

	contract, err := svc.GetContract(ctx, contractID)

	assert.Nil(t, contract)
	assert.ErrorIs(t, err, apperrors.ErrContractNotFound)
}

func TestRecordPayment_Partial(t *testing.T) {
	svc, contractRepo, _ := newContractService()
	ctx := context.Background()
	contract := &model.Contract{
		ID:              uuid.New(),
		Status:          model.ContractStatusActive,
		PaymentStatus:   model.ContractPaymentPending,
		PrincipalAmount: decimal.RequireFromString("100000.00"),
		TotalPaidAmount: decimal.Zero,
	}

	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
	contractRepo.On("Update", ctx, contract).Return(nil)

	err := svc.RecordPayment(ctx, contract.ID, decimal.RequireFromString("40000.00"), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, model.ContractPaymentPartial, contract.PaymentStatus)
	assert.True(t, contract.TotalPaidAmount.Equal(decimal.RequireFromString("40000.00")))
	assert.NotNil(t, contract.LastPaymentAt)
}

func TestRecordPayment_Paid(t *testing.T) {
	svc, contractRepo, _ := newContractService()
	ctx := context.Background()
	contract := &model.Contract{
		ID:              uuid.New(),
		Status:          model.ContractStatusActive,
		PaymentStatus:   model.ContractPaymentPartial,
		PrincipalAmount: decimal.RequireFromString("100000.00"),
		TotalPaidAmount: decimal.RequireFromString("60000.00"),
	}

	contractRepo.On("FindByID", ctx, contract.ID).Return(contract, nil)
	contractRepo.On("Update", ctx, contract).Return(nil)

	err := svc.RecordPayment(ctx, contract.ID, decimal.RequireFromString("40000.00"), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, model.ContractPaymentPaid, contract.PaymentStatus)
	assert.True(t, contract.TotalPaidAmount.Equal(contract.PrincipalAmount))
}
