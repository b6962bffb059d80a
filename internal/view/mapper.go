package view

import (
	"fmt"
	"math"
	"math/big"

	"github.com/JamesVictor-O/inversearena-v2/internal/model"
)

// usdcScale is the fixed-point scale of all token amounts (6 decimals).
var usdcScale = big.NewFloat(1e6)

// roundSpeedLabels maps on-chain round durations to display labels.
var roundSpeedLabels = map[uint32]string{
	30:  "30S",
	60:  "1M",
	300: "5M",
}

// roundSpeedSeconds is the inverse mapping used when creating pools.
var roundSpeedSeconds = map[string]uint32{
	"30S": 30,
	"1M":  60,
	"5M":  300,
}

// DisplayStatus maps a pool status to the three-state listing status.
func DisplayStatus(s model.PoolStatus) string {
	switch s {
	case model.StatusFinished:
		return "CLOSED"
	case model.StatusPending:
		return "PENDING"
	case model.StatusActive, model.StatusResolving, model.StatusCancelled:
		return "ACTIVE"
	}
	return "ACTIVE"
}

// ProfileStatus maps a pool status to the finer-grained profile row status.
func ProfileStatus(s model.PoolStatus) string {
	switch s {
	case model.StatusPending:
		return "PENDING"
	case model.StatusActive:
		return "LIVE"
	case model.StatusResolving:
		return "SETTLING"
	case model.StatusFinished:
		return "COMPLETED"
	case model.StatusCancelled:
		return "PENDING"
	}
	return "PENDING"
}

// SpeedLabel maps a round duration in seconds to its display label.
// Unmapped durations fall back to "1M".
func SpeedLabel(roundDurationSec uint32) string {
	if label, ok := roundSpeedLabels[roundDurationSec]; ok {
		return label
	}
	return "1M"
}

// SpeedSeconds maps a display label back to on-chain seconds, defaulting
// to one minute.
func SpeedSeconds(label string) uint32 {
	if secs, ok := roundSpeedSeconds[label]; ok {
		return secs
	}
	return 60
}

// USDCValue converts a fixed-point amount to a display-scale float. The
// result is for display only and never used for exact comparisons.
func USDCValue(amount *big.Int) float64 {
	if amount == nil {
		return 0
	}
	value, _ := new(big.Float).Quo(new(big.Float).SetInt(amount), usdcScale).Float64()
	return value
}

// ParseUSDC converts a display-scale amount into fixed-point units.
func ParseUSDC(amount float64) *big.Int {
	return big.NewInt(int64(math.Round(amount * 1e6)))
}

// FormatUSDC renders a fixed-point amount as a two-decimal display string.
func FormatUSDC(amount *big.Int) string {
	return fmt.Sprintf("%.2f USDC", USDCValue(amount))
}

// FormatPnL renders a signed profit/loss value with an explicit sign.
func FormatPnL(value float64) string {
	if value >= 0 {
		return fmt.Sprintf("+%.1f USDC", value)
	}
	return fmt.Sprintf("%.1f USDC", value)
}
