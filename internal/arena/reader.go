package arena

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/JamesVictor-O/inversearena-v2/internal/model"
)

// ContractCaller is the read-only transport the reader needs.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Reader issues single-entity read calls against the ArenaManager contract
// and the USDC token. Every call is independent and idempotent.
type Reader struct {
	caller  ContractCaller
	manager common.Address
	token   common.Address
}

// NewReader builds a Reader over the given transport and contract addresses.
func NewReader(caller ContractCaller, manager, token common.Address) *Reader {
	return &Reader{caller: caller, manager: manager, token: token}
}

// Manager returns the ArenaManager contract address.
func (r *Reader) Manager() common.Address {
	return r.manager
}

// PoolCount returns the total number of pools ever created. Pool ids are
// dense and consecutive, so a count of N means valid ids 1..N.
func (r *Reader) PoolCount(ctx context.Context) (uint64, error) {
	parsed, err := ManagerABI()
	if err != nil {
		return 0, fmt.Errorf("parse manager abi: %w", err)
	}
	values, err := r.call(ctx, r.manager, parsed, "poolCount")
	if err != nil {
		return 0, err
	}
	count, err := asBigInt(values[0])
	if err != nil {
		return 0, fmt.Errorf("poolCount: %w", err)
	}
	if !count.IsUint64() {
		return 0, fmt.Errorf("poolCount does not fit in uint64: %s", count)
	}
	return count.Uint64(), nil
}

type rawPoolConfig struct {
	Host          common.Address
	EntryFee      *big.Int
	MaxPlayers    uint32
	MinPlayers    uint32
	RoundDuration uint32
	StartDeadline uint32
}

// PoolConfig returns the immutable configuration of one pool.
func (r *Reader) PoolConfig(ctx context.Context, poolID uint64) (model.PoolConfig, error) {
	parsed, err := ManagerABI()
	if err != nil {
		return model.PoolConfig{}, fmt.Errorf("parse manager abi: %w", err)
	}
	values, err := r.call(ctx, r.manager, parsed, "getPoolConfig", new(big.Int).SetUint64(poolID))
	if err != nil {
		return model.PoolConfig{}, err
	}

	raw := *abi.ConvertType(values[0], new(rawPoolConfig)).(*rawPoolConfig)
	return model.PoolConfig{
		Host:          raw.Host,
		EntryFee:      raw.EntryFee,
		MaxPlayers:    raw.MaxPlayers,
		MinPlayers:    raw.MinPlayers,
		RoundDuration: raw.RoundDuration,
		StartDeadline: raw.StartDeadline,
	}, nil
}

type rawPoolState struct {
	Status         uint8
	CurrentRound   uint32
	SurvivorCount  uint32
	PlayerCount    uint32
	TotalDeposited *big.Int
	RoundDeadline  *big.Int
	Winner         common.Address
}

// PoolState returns the current mutable state of one pool.
func (r *Reader) PoolState(ctx context.Context, poolID uint64) (model.PoolState, error) {
	parsed, err := ManagerABI()
	if err != nil {
		return model.PoolState{}, fmt.Errorf("parse manager abi: %w", err)
	}
	values, err := r.call(ctx, r.manager, parsed, "getPoolState", new(big.Int).SetUint64(poolID))
	if err != nil {
		return model.PoolState{}, err
	}

	raw := *abi.ConvertType(values[0], new(rawPoolState)).(*rawPoolState)
	status, err := poolStatusFromCode(raw.Status)
	if err != nil {
		return model.PoolState{}, fmt.Errorf("pool %d: %w", poolID, err)
	}
	return model.PoolState{
		Status:         status,
		CurrentRound:   raw.CurrentRound,
		SurvivorCount:  raw.SurvivorCount,
		PlayerCount:    raw.PlayerCount,
		TotalDeposited: raw.TotalDeposited,
		RoundDeadline:  raw.RoundDeadline.Uint64(),
		Winner:         raw.Winner,
	}, nil
}

type rawPlayerInfo struct {
	IsActive        bool
	HasClaimed      bool
	RoundEliminated uint32
	LastChoice      uint8
}

// PlayerInfo returns one player's record in one pool.
func (r *Reader) PlayerInfo(ctx context.Context, poolID uint64, player common.Address) (model.PlayerRecord, error) {
	parsed, err := ManagerABI()
	if err != nil {
		return model.PlayerRecord{}, fmt.Errorf("parse manager abi: %w", err)
	}
	values, err := r.call(ctx, r.manager, parsed, "getPlayerInfo", new(big.Int).SetUint64(poolID), player)
	if err != nil {
		return model.PlayerRecord{}, err
	}

	raw := *abi.ConvertType(values[0], new(rawPlayerInfo)).(*rawPlayerInfo)
	choice, err := choiceFromCode(raw.LastChoice)
	if err != nil {
		return model.PlayerRecord{}, fmt.Errorf("pool %d player %s: %w", poolID, player.Hex(), err)
	}
	return model.PlayerRecord{
		IsActive:        raw.IsActive,
		HasClaimed:      raw.HasClaimed,
		RoundEliminated: raw.RoundEliminated,
		LastChoice:      choice,
	}, nil
}

// CreatorStake returns the creator's refundable stake balance.
func (r *Reader) CreatorStake(ctx context.Context, creator common.Address) (*big.Int, error) {
	parsed, err := ManagerABI()
	if err != nil {
		return nil, fmt.Errorf("parse manager abi: %w", err)
	}
	values, err := r.call(ctx, r.manager, parsed, "creatorStake", creator)
	if err != nil {
		return nil, err
	}
	stake, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("creatorStake: %w", err)
	}
	return stake, nil
}

// CreatorActivePools returns how many unfinished pools the creator hosts.
func (r *Reader) CreatorActivePools(ctx context.Context, creator common.Address) (uint64, error) {
	parsed, err := ManagerABI()
	if err != nil {
		return 0, fmt.Errorf("parse manager abi: %w", err)
	}
	values, err := r.call(ctx, r.manager, parsed, "creatorActivePools", creator)
	if err != nil {
		return 0, err
	}
	active, err := asBigInt(values[0])
	if err != nil {
		return 0, fmt.Errorf("creatorActivePools: %w", err)
	}
	return active.Uint64(), nil
}

// PendingPayout returns the unclaimed payout held for a finished pool.
func (r *Reader) PendingPayout(ctx context.Context, poolID uint64) (*big.Int, error) {
	parsed, err := ManagerABI()
	if err != nil {
		return nil, fmt.Errorf("parse manager abi: %w", err)
	}
	values, err := r.call(ctx, r.manager, parsed, "pendingPayout", new(big.Int).SetUint64(poolID))
	if err != nil {
		return nil, err
	}
	payout, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("pendingPayout: %w", err)
	}
	return payout, nil
}

// Allowance returns the USDC transfer limit owner has granted spender.
func (r *Reader) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	values, err := r.call(ctx, r.token, parsed, "allowance", owner, spender)
	if err != nil {
		return nil, err
	}
	allowance, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("allowance: %w", err)
	}
	return allowance, nil
}

func (r *Reader) call(ctx context.Context, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := r.caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: empty result", method)
	}
	return values, nil
}

// poolStatusFromCode validates a raw status code. Unknown codes are an error,
// never silently passed through.
func poolStatusFromCode(code uint8) (model.PoolStatus, error) {
	switch model.PoolStatus(code) {
	case model.StatusPending, model.StatusActive, model.StatusResolving, model.StatusFinished, model.StatusCancelled:
		return model.PoolStatus(code), nil
	}
	return 0, fmt.Errorf("unknown pool status code %d", code)
}

func choiceFromCode(code uint8) (model.Choice, error) {
	switch model.Choice(code) {
	case model.ChoiceNone, model.ChoiceHeads, model.ChoiceTails:
		return model.Choice(code), nil
	}
	return 0, fmt.Errorf("unknown choice code %d", code)
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}
