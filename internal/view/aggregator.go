package view

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JamesVictor-O/inversearena-v2/internal/chain"
	"github.com/JamesVictor-O/inversearena-v2/internal/model"
)

// profileScanCap bounds the per-user scan to pool ids 1..50. Pools beyond
// the cap are not scanned; known scale limit.
const profileScanCap = 50

// MinCreatorStakeUSDC must match the contract MIN_CREATOR_STAKE.
const MinCreatorStakeUSDC = 4

const (
	countRetries = 2
	countBackoff = 200 * time.Millisecond
)

// PoolReader is the read surface the aggregator fans out over.
type PoolReader interface {
	PoolCount(ctx context.Context) (uint64, error)
	PoolConfig(ctx context.Context, poolID uint64) (model.PoolConfig, error)
	PoolState(ctx context.Context, poolID uint64) (model.PoolState, error)
	PlayerInfo(ctx context.Context, poolID uint64, player common.Address) (model.PlayerRecord, error)
	CreatorStake(ctx context.Context, creator common.Address) (*big.Int, error)
	CreatorActivePools(ctx context.Context, creator common.Address) (uint64, error)
}

// Aggregator fans out independent reads and folds them into UI-facing views.
// Per-item read failures are excluded from results; only the structural
// total-count read aborts an operation.
type Aggregator struct {
	reader PoolReader
	logger *zap.Logger
}

func NewAggregator(reader PoolReader, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{reader: reader, logger: logger}
}

type arenaSnapshot struct {
	id     uint64
	config model.PoolConfig
	state  model.PoolState
	player model.PlayerRecord
}

// ListArenas returns up to limit recent arenas, newest first. The viewer
// address scopes the per-pool player record; pass the zero address when no
// wallet is connected.
func (a *Aggregator) ListArenas(ctx context.Context, viewer common.Address, limit int) ([]model.ArenaView, error) {
	count, err := a.poolCount(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 || limit <= 0 {
		return []model.ArenaView{}, nil
	}

	useCount := uint64(limit)
	if count < useCount {
		useCount = count
	}
	start := count - useCount + 1

	snaps := make([]*arenaSnapshot, useCount)
	var wg sync.WaitGroup
	for i := range snaps {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := start + uint64(i)
			snap, err := a.fetchSnapshot(ctx, id, viewer)
			if err != nil {
				a.logger.Warn("arena read failed", zap.Uint64("pool_id", id), zap.Error(err))
				return
			}
			snaps[i] = snap
		}(i)
	}
	wg.Wait()

	views := make([]model.ArenaView, 0, useCount)
	for i := len(snaps) - 1; i >= 0; i-- {
		if snaps[i] == nil {
			continue
		}
		views = append(views, mapArenaView(snaps[i]))
	}
	if len(views) > 0 {
		views[0].IsFeatured = true
	}
	return views, nil
}

// GlobalStats scans every pool and folds deposits, live survivors, and a
// coarse network-load classification. An empty ledger yields the defined
// zero-value result, not an error.
func (a *Aggregator) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	count, err := a.poolCount(ctx)
	if err != nil {
		return model.GlobalStats{}, err
	}
	if count == 0 {
		return model.GlobalStats{NetworkLoad: "low"}, nil
	}

	states := make([]*model.PoolState, count)
	var wg sync.WaitGroup
	for i := uint64(0); i < count; i++ {
		wg.Add(1)
		go func(i uint64) {
			defer wg.Done()
			id := i + 1
			state, err := a.reader.PoolState(ctx, id)
			if err != nil {
				a.logger.Warn("pool state read failed", zap.Uint64("pool_id", id), zap.Error(err))
				return
			}
			states[i] = &state
		}(i)
	}
	wg.Wait()

	var total float64
	var survivors uint64
	for _, state := range states {
		if state == nil {
			continue
		}
		total += USDCValue(state.TotalDeposited)
		if state.Status == model.StatusActive || state.Status == model.StatusResolving {
			survivors += uint64(state.SurvivorCount)
		}
	}

	return model.GlobalStats{
		NetworkLoad:     classifyLoad(count),
		GlobalPoolTotal: total,
		LiveSurvivors:   survivors,
		TotalPools:      count,
	}, nil
}

// ProfileArenas scans pool ids 1..min(count, 50) and returns the pools where
// the user is host or participant, plus a history of their finished games
// sorted by pool id descending.
func (a *Aggregator) ProfileArenas(ctx context.Context, user common.Address) (model.Profile, error) {
	count, err := a.poolCount(ctx)
	if err != nil {
		return model.Profile{}, err
	}

	profile := model.Profile{
		Arenas:  []model.ProfileArenaRow{},
		History: []model.ProfileHistoryRow{},
	}
	if count == 0 {
		return profile, nil
	}

	scan := count
	if scan > profileScanCap {
		scan = profileScanCap
	}

	included := make([]bool, scan)
	var wg sync.WaitGroup
	for i := uint64(0); i < scan; i++ {
		wg.Add(1)
		go func(i uint64) {
			defer wg.Done()
			id := i + 1

			var config model.PoolConfig
			var player model.PlayerRecord
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				config, err = a.reader.PoolConfig(gctx, id)
				return err
			})
			g.Go(func() error {
				var err error
				player, err = a.reader.PlayerInfo(gctx, id, user)
				return err
			})
			if err := g.Wait(); err != nil {
				a.logger.Warn("profile scan read failed", zap.Uint64("pool_id", id), zap.Error(err))
				return
			}

			isHost := config.Host == user
			hasParticipated := player.IsActive || player.RoundEliminated > 0
			included[i] = isHost || hasParticipated
		}(i)
	}
	wg.Wait()

	snaps := make([]*arenaSnapshot, scan)
	for i := uint64(0); i < scan; i++ {
		if !included[i] {
			continue
		}
		wg.Add(1)
		go func(i uint64) {
			defer wg.Done()
			id := i + 1
			snap, err := a.fetchSnapshot(ctx, id, user)
			if err != nil {
				a.logger.Warn("profile arena read failed", zap.Uint64("pool_id", id), zap.Error(err))
				return
			}
			snaps[i] = snap
		}(i)
	}
	wg.Wait()

	for _, snap := range snaps {
		if snap == nil {
			continue
		}

		stake := FormatUSDC(snap.config.EntryFee)
		profile.Arenas = append(profile.Arenas, model.ProfileArenaRow{
			PoolID:       snap.id,
			Name:         fmt.Sprintf("Arena #%d", snap.id),
			Stake:        stake,
			Participants: fmt.Sprintf("%d/%d", snap.state.PlayerCount, snap.config.MaxPlayers),
			Status:       ProfileStatus(snap.state.Status),
		})

		if snap.state.Status != model.StatusFinished {
			continue
		}
		success := snap.state.Winner == user
		pnl := -USDCValue(snap.config.EntryFee)
		result := "ELIMINATED"
		if success {
			pnl = USDCValue(snap.state.TotalDeposited)
			result = "SURVIVED"
		}
		profile.History = append(profile.History, model.ProfileHistoryRow{
			PoolID:  snap.id,
			Arena:   fmt.Sprintf("#%d", snap.id),
			Stake:   stake,
			Rounds:  fmt.Sprintf("%d Rounds", snap.state.CurrentRound),
			Result:  result,
			PnL:     FormatPnL(pnl),
			Success: success,
		})
	}

	sort.Slice(profile.History, func(i, j int) bool {
		return profile.History[i].PoolID > profile.History[j].PoolID
	})

	return profile, nil
}

// CreatorStatus reads a host's stake balance and open pool count. Both reads
// are structural: either failing aborts the operation.
func (a *Aggregator) CreatorStatus(ctx context.Context, creator common.Address) (model.CreatorStatus, error) {
	var stakeRaw *big.Int
	var active uint64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stakeRaw, err = a.reader.CreatorStake(gctx, creator)
		return err
	})
	g.Go(func() error {
		var err error
		active, err = a.reader.CreatorActivePools(gctx, creator)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.CreatorStatus{}, fmt.Errorf("creator status: %w", err)
	}

	stake := USDCValue(stakeRaw)
	return model.CreatorStatus{
		Stake:          stake,
		ActivePools:    active,
		HasEnoughStake: stake >= MinCreatorStakeUSDC,
	}, nil
}

// fetchSnapshot joins the three reads describing one pool for one viewer.
// Any of them failing fails the snapshot as a whole.
func (a *Aggregator) fetchSnapshot(ctx context.Context, id uint64, viewer common.Address) (*arenaSnapshot, error) {
	snap := &arenaSnapshot{id: id}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.config, err = a.reader.PoolConfig(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		snap.state, err = a.reader.PoolState(gctx, id)
		return err
	})
	g.Go(func() error {
		var err error
		snap.player, err = a.reader.PlayerInfo(gctx, id, viewer)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (a *Aggregator) poolCount(ctx context.Context) (uint64, error) {
	var count uint64
	err := chain.WithRetry(ctx, countRetries, countBackoff, func(ctx context.Context) error {
		var err error
		count, err = a.reader.PoolCount(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("pool count: %w", err)
	}
	return count, nil
}

func mapArenaView(snap *arenaSnapshot) model.ArenaView {
	return model.ArenaView{
		ID:            snap.id,
		Number:        fmt.Sprintf("#%d", snap.id),
		PlayersJoined: snap.state.PlayerCount,
		MaxPlayers:    snap.config.MaxPlayers,
		RoundSpeed:    SpeedLabel(snap.config.RoundDuration),
		Stake:         FormatUSDC(snap.config.EntryFee),
		Status:        DisplayStatus(snap.state.Status),
	}
}

func classifyLoad(count uint64) string {
	switch {
	case count > 20:
		return "high"
	case count > 5:
		return "medium"
	default:
		return "low"
	}
}
