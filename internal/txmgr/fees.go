package txmgr

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/core/types"
)

// PendingHeaderReader supplies the pending block header for fee estimation.
type PendingHeaderReader interface {
	PendingHeader(ctx context.Context) (*types.Header, error)
}

// FeeOverrides caps a transaction's fee fields above the observed base fee.
type FeeOverrides struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

// EstimateFeeOverrides reads the pending base fee and returns a ceiling 30%
// above it with a tip of one tenth of the ceiling, so the transaction stays
// above the base fee when it moves. Returns nil when the base fee is zero or
// unavailable; callers then proceed with ambient fee defaults.
func EstimateFeeOverrides(ctx context.Context, reader PendingHeaderReader) *FeeOverrides {
	header, err := reader.PendingHeader(ctx)
	if err != nil || header == nil || header.BaseFee == nil {
		return nil
	}
	if header.BaseFee.Sign() == 0 {
		return nil
	}

	maxFee := new(big.Int).Mul(header.BaseFee, big.NewInt(130))
	maxFee.Div(maxFee, big.NewInt(100))
	tip := new(big.Int).Div(maxFee, big.NewInt(10))
	return &FeeOverrides{MaxFeePerGas: maxFee, MaxPriorityFeePerGas: tip}
}
