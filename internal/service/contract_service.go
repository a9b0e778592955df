package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"lexpay/internal/cache"
	"lexpay/internal/errors"
	"lexpay/internal/model"
	"lexpay/internal/repository"
)

const contractCacheTTL = 5 * time.Minute

// ContractService handles contract lifecycle operations.
type ContractService interface {
	CreateContract(ctx context.Context, merchantID, payerID uuid.UUID, principal, interestRate decimal.Decimal, startDate, endDate time.Time) (*model.Contract, error)
	SignContract(ctx context.Context, contractID, signerID uuid.UUID) (*model.Contract, error)
	ActivateContract(ctx context.Context, contractID, userID uuid.UUID) (*model.Contract, error)
	GetContract(ctx context.Context, contractID uuid.UUID) (*model.Contract, error)
	ListContracts(ctx context.Context, merchantID uuid.UUID) ([]model.Contract, error)
	// RecordPayment adds a captured amount to the contract's paid aggregate.
	RecordPayment(ctx context.Context, contractID uuid.UUID, amount decimal.Decimal, paidAt time.Time) error
}

type contractService struct {
	contractRepo repository.ContractRepository
	audit        AuditService
	cache        *cache.Client
	// Mutex map for per-contract locking: concurrent captures against the
	// same contract must not lose paid-amount updates.
	contractMutexes sync.Map
}

// NewContractService creates a new contract service.
func NewContractService(contractRepo repository.ContractRepository, audit AuditService, cache *cache.Client) ContractService {
	return &contractService{
		contractRepo: contractRepo,
		audit:        audit,
		cache:        cache,
	}
}

// getMutex returns a mutex for a specific contract ID.
func (s *contractService) getMutex(contractID uuid.UUID) *sync.Mutex {
	value, _ := s.contractMutexes.LoadOrStore(contractID.String(), &sync.Mutex{})
	return value.(*sync.Mutex)
}

// CreateContract creates a contract in DRAFT and emits CONTRACT_CREATED.
func (s *contractService) CreateContract(ctx context.Context, merchantID, payerID uuid.UUID, principal, interestRate decimal.Decimal, startDate, endDate time.Time) (*model.Contract, error) {
	if principal.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}

	contract := &model.Contract{
		MerchantID:      merchantID,
		PayerID:         payerID,
		PrincipalAmount: principal,
		InterestRate:    interestRate,
		StartDate:       startDate,
		EndDate:         endDate,
		Status:          model.ContractStatusDraft,
		PaymentStatus:   model.ContractPaymentPending,
		TotalPaidAmount: decimal.Zero,
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("create contract: %w", err)
	}

	s.audit.SubmitAsync(AuditEvent{
		EventType:  model.EventContractCreated,
		EntityID:   contract.ID,
		EntityType: "Contract",
		UserID:     merchantID,
		Metadata: map[string]string{
			"contractId":      contract.ID.String(),
			"merchantId":      merchantID.String(),
			"payerId":         payerID.String(),
			"principalAmount": principal.String(),
			"status":          string(contract.Status),
		},
	})

	return contract, nil
}

// SignContract transitions DRAFT to SIGNED and emits CONTRACT_SIGNED.
func (s *contractService) SignContract(ctx context.Context, contractID, signerID uuid.UUID) (*model.Contract, error) {
	mutex := s.getMutex(contractID)
	mutex.Lock()
	defer mutex.Unlock()

	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrContractNotFound
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}

	if contract.Status != model.ContractStatusDraft {
		return nil, fmt.Errorf("contract must be DRAFT to sign, is %s", contract.Status)
	}

	now := time.Now()
	contract.Status = model.ContractStatusSigned
	contract.SignedAt = &now
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("update contract: %w", err)
	}
	s.invalidate(ctx, contractID)

	s.audit.SubmitAsync(AuditEvent{
		EventType:  model.EventContractSigned,
		EntityID:   contract.ID,
		EntityType: "Contract",
		UserID:     signerID,
		Metadata: map[string]string{
			"contractId": contract.ID.String(),
			"signedAt":   now.UTC().Format(time.RFC3339),
			"status":     string(contract.Status),
		},
	})

	return contract, nil
}

// ActivateContract transitions SIGNED to ACTIVE and emits CONTRACT_ACTIVATED.
func (s *contractService) ActivateContract(ctx context.Context, contractID, userID uuid.UUID) (*model.Contract, error) {
	mutex := s.getMutex(contractID)
	mutex.Lock()
	defer mutex.Unlock()

	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrContractNotFound
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}

	if contract.Status != model.ContractStatusSigned {
		return nil, fmt.Errorf("contract must be SIGNED to activate, is %s", contract.Status)
	}

	contract.Status = model.ContractStatusActive
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, fmt.Errorf("update contract: %w", err)
	}
	s.invalidate(ctx, contractID)

	s.audit.SubmitAsync(AuditEvent{
		EventType:  model.EventContractActivated,
		EntityID:   contract.ID,
		EntityType: "Contract",
		UserID:     userID,
		Metadata: map[string]string{
			"contractId": contract.ID.String(),
			"status":     string(contract.Status),
		},
	})

	return contract, nil
}

// GetContract returns a contract, served from cache when possible.
func (s *contractService) GetContract(ctx context.Context, contractID uuid.UUID) (*model.Contract, error) {
	cacheKey := contractCacheKey(contractID)
	var cached model.Contract
	if s.cache.GetJSON(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrContractNotFound
		}
		return nil, fmt.Errorf("find contract: %w", err)
	}

	_ = s.cache.SetJSON(ctx, cacheKey, contract, contractCacheTTL)
	return contract, nil
}

// ListContracts returns all contracts owned by a merchant.
func (s *contractService) ListContracts(ctx context.Context, merchantID uuid.UUID) ([]model.Contract, error) {
	return s.contractRepo.ListByMerchant(ctx, merchantID)
}

// RecordPayment adds a captured amount to totalPaidAmount and recomputes the
// aggregate payment status.
func (s *contractService) RecordPayment(ctx context.Context, contractID uuid.UUID, amount decimal.Decimal, paidAt time.Time) error {
	mutex := s.getMutex(contractID)
	mutex.Lock()
	defer mutex.Unlock()

	contract, err := s.contractRepo.FindByID(ctx, contractID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrContractNotFound
		}
		return fmt.Errorf("find contract: %w", err)
	}

	contract.TotalPaidAmount = contract.TotalPaidAmount.Add(amount)
	contract.LastPaymentAt = &paidAt
	if contract.TotalPaidAmount.GreaterThanOrEqual(contract.PrincipalAmount) {
		contract.PaymentStatus = model.ContractPaymentPaid
	} else {
		contract.PaymentStatus = model.ContractPaymentPartial
	}

	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return fmt.Errorf("update contract: %w", err)
	}
	s.invalidate(ctx, contractID)
	return nil
}

func (s *contractService) invalidate(ctx context.Context, contractID uuid.UUID) {
	_ = s.cache.Delete(ctx, contractCacheKey(contractID))
}

func contractCacheKey(contractID uuid.UUID) string {
	return "contract:" + contractID.String()
}
