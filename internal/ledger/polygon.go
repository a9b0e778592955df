package ledger

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"lexpay/internal/config"
)

// ABI of the on-chain audit trail contract's logEvent function.
const auditTrailABI = `[{"inputs":[{"internalType":"uint8","name":"eventType","type":"uint8"},{"internalType":"string","name":"entityId","type":"string"},{"internalType":"string","name":"userId","type":"string"},{"internalType":"string","name":"metadata","type":"string"}],"name":"logEvent","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"nonpayable","type":"function"}]`

// PolygonClient submits audit events to an audit-trail contract on Polygon.
type PolygonClient struct {
	eth      *ethclient.Client
	key      *ecdsa.PrivateKey
	from     common.Address
	contract common.Address
	chainID  *big.Int
	gasPrice *big.Int
	gasLimit uint64
	abi      abi.ABI

	// mu serializes nonce allocation; concurrent broadcasts from the submit
	// worker and the sweeper would otherwise race on the same nonce.
	mu sync.Mutex
}

// NewPolygon dials the configured RPC endpoint and prepares signing
// credentials. Errors here are fatal at startup, not per-call.
func NewPolygon(cfg config.LedgerConfig) (*PolygonClient, error) {
	eth, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger rpc: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse ledger private key: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(auditTrailABI))
	if err != nil {
		return nil, fmt.Errorf("parse audit trail abi: %w", err)
	}

	chainID := big.NewInt(137)
	if strings.Contains(cfg.Network, "mumbai") {
		chainID = big.NewInt(80001)
	}

	return &PolygonClient{
		eth:      eth,
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		contract: common.HexToAddress(cfg.ContractAddress),
		chainID:  chainID,
		gasPrice: big.NewInt(cfg.GasPrice),
		gasLimit: cfg.GasLimit,
		abi:      parsed,
	}, nil
}

// Broadcast encodes a logEvent call, signs it, and sends it to the network.
func (c *PolygonClient) Broadcast(ctx context.Context, eventCode uint8, entityID, userID, metadataJSON string) (string, error) {
	data, err := c.abi.Pack("logEvent", eventCode, entityID, userID, metadataJSON)
	if err != nil {
		return "", fmt.Errorf("encode logEvent call: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", fmt.Errorf("fetch nonce: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: c.gasPrice,
		Gas:      c.gasLimit,
		To:       &c.contract,
		Value:    big.NewInt(0),
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", fmt.Errorf("sign transaction: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}
	return signed.Hash().Hex(), nil
}

// Receipt fetches the mined receipt for a transaction, or ErrReceiptNotFound
// while it is still pending.
func (c *PolygonClient) Receipt(ctx context.Context, txHash string) (*TxReceipt, error) {
	receipt, err := c.eth.TransactionReceipt(ctx, common.HexToHash(txHash))
	if errors.Is(err, ethereum.NotFound) {
		return nil, ErrReceiptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch receipt: %w", err)
	}
	return &TxReceipt{
		Success:     receipt.Status == types.ReceiptStatusSuccessful,
		BlockNumber: receipt.BlockNumber.Uint64(),
		GasUsed:     receipt.GasUsed,
	}, nil
}
