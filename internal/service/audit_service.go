package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"lexpay/internal/cache"
	"lexpay/internal/config"
	"lexpay/internal/ledger"
	"lexpay/internal/model"
	"lexpay/internal/repository"
)

const hasEventCacheTTL = 24 * time.Hour

// AuditEvent is one lifecycle event to be anchored on the ledger.
type AuditEvent struct {
	EventType  model.AuditEventType
	EntityID   uuid.UUID
	EntityType string
	UserID     uuid.UUID
	Metadata   map[string]string
}

// AuditService owns the audit record lifecycle: submission to the ledger,
// confirmation watching, retry sweeping, and read projections.
//
// Submit performs no deduplication; callers that must avoid duplicate entries
// for the same logical event check HasEvent first.
type AuditService interface {
	// Submit persists a PENDING record, broadcasts it to the ledger, and
	// schedules confirmation. Ledger failures are recorded on the returned
	// record, never returned as errors.
	Submit(ctx context.Context, event AuditEvent) (*model.AuditRecord, error)
	// SubmitAsync hands an event to the background submission worker without
	// blocking the caller.
	SubmitAsync(event AuditEvent)
	// HasEvent reports whether an event of the given type has been recorded
	// for an entity.
	HasEvent(ctx context.Context, entityID uuid.UUID, eventType model.AuditEventType) (bool, error)
	// AuditTrail returns the full trail for an entity, oldest first.
	AuditTrail(ctx context.Context, entityID uuid.UUID) ([]model.AuditRecord, error)
	// SweepFailed re-broadcasts FAILED records below the retry ceiling and
	// returns how many were resubmitted.
	SweepFailed(ctx context.Context) (int, error)
	// RunSweeper runs SweepFailed on the configured interval until ctx is
	// cancelled or the service is closed.
	RunSweeper(ctx context.Context)
	// Close drains the submission queue and waits for in-flight confirmation
	// watchers to finish.
	Close()
}

type auditService struct {
	auditRepo repository.AuditRecordRepository
	ledger    ledger.Client
	cache     *cache.Client
	cfg       config.LedgerConfig

	eventCh    chan AuditEvent
	workerDone chan struct{}
	quit       chan struct{}
	watchers   sync.WaitGroup
	closeOnce  sync.Once
}

// NewAuditService creates an audit service and starts its submission worker.
func NewAuditService(
	auditRepo repository.AuditRecordRepository,
	ledgerClient ledger.Client,
	cacheClient *cache.Client,
	cfg config.LedgerConfig,
) AuditService {
	s := &auditService{
		auditRepo:  auditRepo,
		ledger:     ledgerClient,
		cache:      cacheClient,
		cfg:        cfg,
		eventCh:    make(chan AuditEvent, 100),
		workerDone: make(chan struct{}),
		quit:       make(chan struct{}),
	}

	go s.submitWorker()

	return s
}

// submitWorker drains the event channel until it is closed.
func (s *auditService) submitWorker() {
	defer close(s.workerDone)
	for event := range s.eventCh {
		if _, err := s.Submit(context.Background(), event); err != nil {
			log.Printf("audit: submit %s for entity %s: %v", event.EventType, event.EntityID, err)
		}
	}
}

// SubmitAsync enqueues an event for the background worker. If the queue is
// full the event is submitted from its own goroutine instead; the payment
// path never blocks on audit submission.
func (s *auditService) SubmitAsync(event AuditEvent) {
	select {
	case s.eventCh <- event:
	default:
		go func() {
			if _, err := s.Submit(context.Background(), event); err != nil {
				log.Printf("audit: submit %s for entity %s: %v", event.EventType, event.EntityID, err)
			}
		}()
	}
}

// Submit persists and broadcasts one event. With the ledger administratively
// disabled this is an explicit no-op, not an error.
func (s *auditService) Submit(ctx context.Context, event AuditEvent) (*model.AuditRecord, error) {
	if !s.cfg.Enabled {
		log.Printf("audit: ledger disabled, event %s not logged for entity %s", event.EventType, event.EntityID)
		return nil, nil
	}

	record := &model.AuditRecord{
		EventType:    event.EventType,
		EntityID:     event.EntityID,
		EntityType:   event.EntityType,
		UserID:       event.UserID,
		MetadataJSON: marshalMetadata(event.Metadata),
		Network:      s.cfg.Network,
		Status:       model.AuditStatusPending,
	}

	if err := s.auditRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	txHash, err := s.ledger.Broadcast(ctx, event.EventType.WireCode(), event.EntityID.String(), event.UserID.String(), record.MetadataJSON)
	if err != nil {
		record.Status = model.AuditStatusFailed
		record.ErrorMessage = err.Error()
		if uerr := s.auditRepo.Update(ctx, record); uerr != nil {
			return record, uerr
		}
		log.Printf("audit: ledger submission failed for record %s: %v", record.ID, err)
		return record, nil
	}

	record.TransactionHash = &txHash
	if err := s.auditRepo.Update(ctx, record); err != nil {
		return record, err
	}
	log.Printf("audit: event %s logged for entity %s, tx %s", event.EventType, event.EntityID, txHash)

	s.scheduleConfirmation(record.ID, txHash)

	return record, nil
}

// scheduleConfirmation spawns one watcher per submitted transaction. The
// watcher is the only writer for the record until it reaches a terminal
// status, so sweeping never races confirmation.
func (s *auditService) scheduleConfirmation(recordID uuid.UUID, txHash string) {
	s.watchers.Add(1)
	go func() {
		defer s.watchers.Done()
		s.awaitConfirmation(recordID, txHash)
	}()
}

// awaitConfirmation polls for the transaction receipt until it appears or the
// attempt budget is spent. A timeout marks the record FAILED even though the
// transaction may still confirm later; the sweep path re-broadcasts it.
func (s *auditService) awaitConfirmation(recordID uuid.UUID, txHash string) {
	ctx := context.Background()

	for attempt := 0; attempt < s.cfg.ConfirmAttempts; attempt++ {
		receipt, err := s.ledger.Receipt(ctx, txHash)
		if err == nil {
			s.finishConfirmation(ctx, recordID, txHash, receipt)
			return
		}
		if !errors.Is(err, ledger.ErrReceiptNotFound) {
			log.Printf("audit: receipt lookup for tx %s: %v", txHash, err)
		}
		if attempt == s.cfg.ConfirmAttempts-1 {
			break
		}
		timer := time.NewTimer(s.cfg.ConfirmInterval)
		select {
		case <-timer.C:
		case <-s.quit:
			timer.Stop()
			// Shutdown mid-poll; the record stays PENDING for later
			// reconciliation.
			return
		}
	}

	if err := s.markFailed(ctx, recordID, "confirmation timeout"); err != nil {
		log.Printf("audit: mark record %s failed: %v", recordID, err)
	}
	log.Printf("audit: confirmation timeout for tx %s after %d attempts", txHash, s.cfg.ConfirmAttempts)
}

// finishConfirmation records the receipt outcome on the audit record.
func (s *auditService) finishConfirmation(ctx context.Context, recordID uuid.UUID, txHash string, receipt *ledger.TxReceipt) {
	record, err := s.auditRepo.FindByID(ctx, recordID)
	if err != nil {
		log.Printf("audit: load record %s: %v", recordID, err)
		return
	}

	if !receipt.Success {
		record.Status = model.AuditStatusFailed
		record.ErrorMessage = "transaction reverted on ledger"
		if err := s.auditRepo.Update(ctx, record); err != nil {
			log.Printf("audit: update record %s: %v", recordID, err)
		}
		log.Printf("audit: tx %s reverted", txHash)
		return
	}

	now := time.Now()
	gasPrice := big.NewInt(s.cfg.GasPrice)
	cost := new(big.Int).Mul(new(big.Int).SetUint64(receipt.GasUsed), gasPrice)

	record.Status = model.AuditStatusConfirmed
	record.BlockNumber = &receipt.BlockNumber
	record.GasUsed = &receipt.GasUsed
	record.GasPrice = gasPrice.String()
	record.TransactionCost = cost.String()
	record.ConfirmedAt = &now
	record.ErrorMessage = ""

	if err := s.auditRepo.Update(ctx, record); err != nil {
		log.Printf("audit: update record %s: %v", recordID, err)
		return
	}
	log.Printf("audit: tx %s confirmed in block %d, gas %d", txHash, receipt.BlockNumber, receipt.GasUsed)
}

func (s *auditService) markFailed(ctx context.Context, recordID uuid.UUID, message string) error {
	record, err := s.auditRepo.FindByID(ctx, recordID)
	if err != nil {
		return err
	}
	record.Status = model.AuditStatusFailed
	record.ErrorMessage = message
	return s.auditRepo.Update(ctx, record)
}

// HasEvent answers "has event X been logged for entity Y". Positive answers
// are cached; an event once recorded never disappears.
func (s *auditService) HasEvent(ctx context.Context, entityID uuid.UUID, eventType model.AuditEventType) (bool, error) {
	cacheKey := "audit:event:" + entityID.String() + ":" + string(eventType)
	if data, _ := s.cache.Get(ctx, cacheKey); data != nil {
		return true, nil
	}

	exists, err := s.auditRepo.ExistsByEntityAndEvent(ctx, entityID, eventType)
	if err != nil {
		return false, err
	}
	if exists {
		_ = s.cache.Set(ctx, cacheKey, []byte("1"), hasEventCacheTTL)
	}
	return exists, nil
}

// AuditTrail returns the full trail for an entity, oldest first.
func (s *auditService) AuditTrail(ctx context.Context, entityID uuid.UUID) ([]model.AuditRecord, error) {
	return s.auditRepo.FindByEntityID(ctx, entityID)
}

// SweepFailed re-broadcasts FAILED records with retryCount below the ceiling,
// oldest first. Every swept record's retryCount goes up by exactly one,
// whether the re-broadcast succeeded or not; records at the ceiling stay
// FAILED permanently and need manual intervention.
func (s *auditService) SweepFailed(ctx context.Context) (int, error) {
	records, err := s.auditRepo.FindRetryable(ctx, s.cfg.MaxRetries)
	if err != nil {
		return 0, err
	}

	resubmitted := 0
	for i := range records {
		record := &records[i]
		log.Printf("audit: retrying ledger submission for record %s (attempt %d)", record.ID, record.RetryCount+1)

		txHash, err := s.ledger.Broadcast(ctx, record.EventType.WireCode(), record.EntityID.String(), record.UserID.String(), record.MetadataJSON)
		record.RetryCount++
		if err != nil {
			record.ErrorMessage = err.Error()
			if uerr := s.auditRepo.Update(ctx, record); uerr != nil {
				log.Printf("audit: update record %s: %v", record.ID, uerr)
			}
			continue
		}

		record.TransactionHash = &txHash
		record.Status = model.AuditStatusPending
		record.ErrorMessage = ""
		if uerr := s.auditRepo.Update(ctx, record); uerr != nil {
			log.Printf("audit: update record %s: %v", record.ID, uerr)
			continue
		}
		resubmitted++
		s.scheduleConfirmation(record.ID, txHash)
	}

	return resubmitted, nil
}

// RunSweeper periodically sweeps failed records until ctx is cancelled or the
// service is closed.
func (s *auditService) RunSweeper(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n, err := s.SweepFailed(ctx); err != nil {
				log.Printf("audit: sweep failed records: %v", err)
			} else if n > 0 {
				log.Printf("audit: sweep resubmitted %d records", n)
			}
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		}
	}
}

// Close drains pending submissions and waits for confirmation watchers.
func (s *auditService) Close() {
	s.closeOnce.Do(func() {
		close(s.quit)
		close(s.eventCh)
		<-s.workerDone
		s.watchers.Wait()
	})
}

// marshalMetadata serializes metadata to canonical JSON; map keys are emitted
// in sorted order so equal metadata always yields identical bytes.
func marshalMetadata(metadata map[string]string) string {
	if len(metadata) == 0 {
		return "{}"
	}
	data, err := json.Marshal(metadata)
	if err != nil {
		return "{}"
	}
	return string(data)
}
