package txmgr

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/JamesVictor-O/inversearena-v2/internal/arena"
	"github.com/JamesVictor-O/inversearena-v2/internal/model"
)

// defaultMinPlayers is the contract minimum for a playable pool.
const defaultMinPlayers = 2

// startDeadlineWindow is how long a new pool stays joinable before the start
// deadline passes.
const startDeadlineWindow = 24 * time.Hour

// CreatePoolParams carries the host-facing pool creation form.
type CreatePoolParams struct {
	EntryFee      *big.Int // USDC, 6 decimals
	MaxPlayers    uint32
	MinPlayers    uint32 // 0 defaults to the contract minimum
	RoundDuration uint32 // seconds
}

// CreatePool submits createPool and returns the minted pool id decoded from
// the PoolCreated event. The contract checks the sender's creator stake; no
// USDC is pulled by this call.
func (s *Submitter) CreatePool(ctx context.Context, p CreatePoolParams) (uint64, error) {
	minPlayers := p.MinPlayers
	if minPlayers == 0 {
		minPlayers = defaultMinPlayers
	}
	startDeadline := uint32(time.Now().Add(startDeadlineWindow).Unix())

	parsed, err := arena.ManagerABI()
	if err != nil {
		return 0, fmt.Errorf("parse manager abi: %w", err)
	}
	data, err := parsed.Pack("createPool", p.EntryFee, p.MaxPlayers, minPlayers, p.RoundDuration, startDeadline)
	if err != nil {
		return 0, fmt.Errorf("pack createPool: %w", err)
	}

	receipt, err := s.submit(ctx, s.cfg.Manager, data)
	if err != nil {
		return 0, err
	}
	return poolIDFromReceipt(receipt)
}

// JoinPool re-reads the authoritative entry fee, ensures the allowance covers
// it, then joins the pool.
func (s *Submitter) JoinPool(ctx context.Context, poolID uint64) error {
	config, err := s.reader.PoolConfig(ctx, poolID)
	if err != nil {
		return fmt.Errorf("pool config: %w", err)
	}
	if err := s.ensureAllowance(ctx, config.EntryFee); err != nil {
		return err
	}
	return s.submitManagerCall(ctx, "joinPool", new(big.Int).SetUint64(poolID))
}

// SubmitChoice submits the player's choice for the current round.
func (s *Submitter) SubmitChoice(ctx context.Context, poolID uint64, choice model.Choice) error {
	return s.submitManagerCall(ctx, "submitChoice", new(big.Int).SetUint64(poolID), uint8(choice))
}

// ResolveRound triggers round resolution once the round deadline has passed.
func (s *Submitter) ResolveRound(ctx context.Context, poolID uint64) error {
	return s.submitManagerCall(ctx, "resolveRound", new(big.Int).SetUint64(poolID))
}

// ClaimWinnings claims the payout after winning the final round.
func (s *Submitter) ClaimWinnings(ctx context.Context, poolID uint64) error {
	return s.submitManagerCall(ctx, "claimWinnings", new(big.Int).SetUint64(poolID))
}

// ClaimRefund claims an entry fee refund after the pool is cancelled.
func (s *Submitter) ClaimRefund(ctx context.Context, poolID uint64) error {
	return s.submitManagerCall(ctx, "claimRefund", new(big.Int).SetUint64(poolID))
}

// DepositCreatorStake deposits USDC as creator stake, topping up the
// allowance first.
func (s *Submitter) DepositCreatorStake(ctx context.Context, amount *big.Int) error {
	if err := s.ensureAllowance(ctx, amount); err != nil {
		return err
	}
	return s.submitManagerCall(ctx, "depositCreatorStake", amount)
}

// WithdrawCreatorStake withdraws the creator stake. Any slashing for open
// pools is decided entirely by the contract.
func (s *Submitter) WithdrawCreatorStake(ctx context.Context) error {
	return s.submitManagerCall(ctx, "withdrawCreatorStake")
}

func (s *Submitter) submitManagerCall(ctx context.Context, method string, args ...interface{}) error {
	parsed, err := arena.ManagerABI()
	if err != nil {
		return fmt.Errorf("parse manager abi: %w", err)
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return fmt.Errorf("pack %s: %w", method, err)
	}
	_, err = s.submit(ctx, s.cfg.Manager, data)
	return err
}

// poolIDFromReceipt extracts the minted pool id from the PoolCreated event.
func poolIDFromReceipt(receipt *types.Receipt) (uint64, error) {
	parsed, err := arena.ManagerABI()
	if err != nil {
		return 0, fmt.Errorf("parse manager abi: %w", err)
	}
	event := parsed.Events["PoolCreated"]

	for _, log := range receipt.Logs {
		if log == nil || len(log.Topics) < 2 || log.Topics[0] != event.ID {
			continue
		}
		id := new(big.Int).SetBytes(log.Topics[1].Bytes())
		if !id.IsUint64() {
			return 0, fmt.Errorf("pool id does not fit in uint64: %s", id)
		}
		return id.Uint64(), nil
	}
	return 0, fmt.Errorf("PoolCreated event not found in receipt")
}
