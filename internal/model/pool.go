package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolStatus mirrors the ArenaManager pool status enum. Transitions are owned
// by the contract; this code only reflects what it reads.
type PoolStatus uint8

const (
	StatusPending PoolStatus = iota
	StatusActive
	StatusResolving
	StatusFinished
	StatusCancelled
)

func (s PoolStatus) String() string {
	switch s {
	case StatusPending:
		return "PENDING"
	case StatusActive:
		return "ACTIVE"
	case StatusResolving:
		return "RESOLVING"
	case StatusFinished:
		return "FINISHED"
	case StatusCancelled:
		return "CANCELLED"
	}
	return "UNKNOWN"
}

// Choice mirrors the ArenaManager round choice enum.
type Choice uint8

const (
	ChoiceNone Choice = iota
	ChoiceHeads
	ChoiceTails
)

func (c Choice) String() string {
	switch c {
	case ChoiceNone:
		return "NONE"
	case ChoiceHeads:
		return "HEADS"
	case ChoiceTails:
		return "TAILS"
	}
	return "UNKNOWN"
}

// PoolConfig is the immutable pool configuration fixed at creation.
type PoolConfig struct {
	Host          common.Address
	EntryFee      *big.Int // USDC, 6 decimals
	MaxPlayers    uint32
	MinPlayers    uint32
	RoundDuration uint32 // seconds
	StartDeadline uint32 // unix seconds
}

// PoolState is the mutable pool state advanced by the contract as rounds
// progress.
type PoolState struct {
	Status         PoolStatus
	CurrentRound   uint32
	SurvivorCount  uint32
	PlayerCount    uint32
	TotalDeposited *big.Int // USDC, 6 decimals
	RoundDeadline  uint64   // unix seconds
	Winner         common.Address
}

// PlayerRecord is one player's record scoped to one pool.
type PlayerRecord struct {
	IsActive        bool
	HasClaimed      bool
	RoundEliminated uint32 // 0 = never eliminated
	LastChoice      Choice
}
