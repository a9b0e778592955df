package ledger

import (
	"context"
	"errors"
)

// ErrReceiptNotFound is returned by Receipt while a transaction has not yet
// been mined. Callers poll until the receipt appears or their attempt budget
// runs out.
var ErrReceiptNotFound = errors.New("transaction receipt not found")

// TxReceipt is the ledger's acknowledgment for a mined transaction.
type TxReceipt struct {
	// Success is false when the transaction was mined but reverted.
	Success     bool
	BlockNumber uint64
	GasUsed     uint64
}

// Client abstracts the append-only audit ledger. Broadcast submits one event
// and returns its transaction hash; Receipt reports whether the transaction
// has been mined yet.
type Client interface {
	Broadcast(ctx context.Context, eventCode uint8, entityID, userID, metadataJSON string) (string, error)
	Receipt(ctx context.Context, txHash string) (*TxReceipt, error)
}
