package txmgr

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"go.uber.org/zap"

	"github.com/JamesVictor-O/inversearena-v2/internal/arena"
)

// Phase is the lifecycle position of one submitted transaction.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSigning
	PhaseSubmitting
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSigning:
		return "signing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	}
	return "idle"
}

// Backend is the transport surface the submitter needs.
type Backend interface {
	PendingHeader(ctx context.Context) (*types.Header, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Config holds the contract addresses and timing knobs for the submitter.
type Config struct {
	Manager     common.Address
	Token       common.Address
	ReceiptPoll time.Duration
}

// Submitter sequences write transactions: fee estimate, sign, broadcast,
// wait for inclusion. There is no automatic retry; a failed transaction must
// be re-initiated by the caller with a fresh nonce and fee snapshot.
type Submitter struct {
	backend  Backend
	reader   *arena.Reader
	key      *ecdsa.PrivateKey
	from     common.Address
	chainID  *big.Int
	cfg      Config
	logger   *zap.Logger
	observer func(Phase)
}

func NewSubmitter(backend Backend, key *ecdsa.PrivateKey, chainID *big.Int, cfg Config, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ReceiptPoll <= 0 {
		cfg.ReceiptPoll = 2 * time.Second
	}
	return &Submitter{
		backend: backend,
		reader:  arena.NewReader(backend, cfg.Manager, cfg.Token),
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		chainID: chainID,
		cfg:     cfg,
		logger:  logger,
	}
}

// From returns the signing address.
func (s *Submitter) From() common.Address {
	return s.from
}

// SetObserver registers a callback invoked on every phase change.
func (s *Submitter) SetObserver(fn func(Phase)) {
	s.observer = fn
}

func (s *Submitter) phase(p Phase) {
	if s.observer != nil {
		s.observer(p)
	}
}

// submit runs one transaction through signing, broadcast, and inclusion.
// Returned errors are already classified.
func (s *Submitter) submit(ctx context.Context, to common.Address, data []byte) (*types.Receipt, error) {
	s.phase(PhaseSigning)

	fees := EstimateFeeOverrides(ctx, s.backend)

	nonce, err := s.backend.PendingNonceAt(ctx, s.from)
	if err != nil {
		s.phase(PhaseError)
		return nil, arena.Classify(fmt.Errorf("pending nonce: %w", err))
	}

	// Reverted calls surface here before anything is broadcast.
	gas, err := s.backend.EstimateGas(ctx, ethereum.CallMsg{From: s.from, To: &to, Data: data})
	if err != nil {
		s.phase(PhaseError)
		return nil, arena.Classify(err)
	}

	var tx *types.Transaction
	if fees != nil {
		tx = types.NewTx(&types.DynamicFeeTx{
			ChainID:   s.chainID,
			Nonce:     nonce,
			GasTipCap: fees.MaxPriorityFeePerGas,
			GasFeeCap: fees.MaxFeePerGas,
			Gas:       gas,
			To:        &to,
			Data:      data,
		})
	} else {
		gasPrice, err := s.backend.SuggestGasPrice(ctx)
		if err != nil {
			s.phase(PhaseError)
			return nil, arena.Classify(fmt.Errorf("suggest gas price: %w", err))
		}
		tx = types.NewTx(&types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gas,
			To:       &to,
			Data:     data,
		})
	}

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), s.key)
	if err != nil {
		s.phase(PhaseError)
		return nil, arena.Classify(fmt.Errorf("sign transaction: %w", err))
	}

	s.phase(PhaseSubmitting)
	if err := s.backend.SendTransaction(ctx, signed); err != nil {
		s.phase(PhaseError)
		return nil, arena.Classify(err)
	}

	s.logger.Info("transaction sent",
		zap.String("tx", signed.Hash().Hex()),
		zap.String("to", to.Hex()),
		zap.Uint64("nonce", nonce),
	)

	receipt, err := s.waitMined(ctx, signed.Hash())
	if err != nil {
		s.phase(PhaseError)
		return nil, arena.Classify(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		s.phase(PhaseError)
		return nil, arena.Classify(fmt.Errorf("transaction %s reverted", signed.Hash().Hex()))
	}

	s.phase(PhaseSuccess)
	return receipt, nil
}

// waitMined polls for the receipt until the transaction is included or the
// context ends.
func (s *Submitter) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(s.cfg.ReceiptPoll)
	defer ticker.Stop()

	for {
		receipt, err := s.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			s.logger.Debug("receipt poll failed", zap.String("tx", txHash.Hex()), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
