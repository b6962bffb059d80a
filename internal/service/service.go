package service

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/JamesVictor-O/inversearena-v2/internal/cache"
	"github.com/JamesVictor-O/inversearena-v2/internal/model"
	"github.com/JamesVictor-O/inversearena-v2/internal/txmgr"
)

// Reads is the aggregation surface the service caches.
type Reads interface {
	ListArenas(ctx context.Context, viewer common.Address, limit int) ([]model.ArenaView, error)
	GlobalStats(ctx context.Context) (model.GlobalStats, error)
	ProfileArenas(ctx context.Context, user common.Address) (model.Profile, error)
	CreatorStatus(ctx context.Context, creator common.Address) (model.CreatorStatus, error)
}

// Writer is the transaction surface whose operations invalidate cached reads.
type Writer interface {
	From() common.Address
	CreatePool(ctx context.Context, p txmgr.CreatePoolParams) (uint64, error)
	JoinPool(ctx context.Context, poolID uint64) error
	SubmitChoice(ctx context.Context, poolID uint64, choice model.Choice) error
	ResolveRound(ctx context.Context, poolID uint64) error
	ClaimWinnings(ctx context.Context, poolID uint64) error
	ClaimRefund(ctx context.Context, poolID uint64) error
	DepositCreatorStake(ctx context.Context, amount *big.Int) error
	WithdrawCreatorStake(ctx context.Context) error
}

const (
	statsKey     = "stats"
	arenasPrefix = "arenas:"
)

func arenasKey(viewer common.Address, limit int) string {
	return fmt.Sprintf("%s%s:%d", arenasPrefix, strings.ToLower(viewer.Hex()), limit)
}

func profileKey(user common.Address) string {
	return "profile:" + strings.ToLower(user.Hex())
}

func creatorKey(creator common.Address) string {
	return "creator:" + strings.ToLower(creator.Hex())
}

// Service is the application-facing facade: cached reads over the aggregator
// and write operations that invalidate the query keys they affect. Writer may
// be nil for read-only use.
type Service struct {
	reads  Reads
	writer Writer
	cache  *cache.Store
	logger *zap.Logger
}

func New(reads Reads, writer Writer, store *cache.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reads: reads, writer: writer, cache: store, logger: logger}
}

// Arenas returns the recent-arena listing, served from cache when fresh.
func (s *Service) Arenas(ctx context.Context, viewer common.Address, limit int) ([]model.ArenaView, error) {
	key := arenasKey(viewer, limit)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]model.ArenaView), nil
	}
	views, err := s.reads.ListArenas(ctx, viewer, limit)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, views)
	return views, nil
}

// Stats returns the network-wide rollup, served from cache when fresh.
func (s *Service) Stats(ctx context.Context) (model.GlobalStats, error) {
	if cached, ok := s.cache.Get(statsKey); ok {
		return cached.(model.GlobalStats), nil
	}
	stats, err := s.reads.GlobalStats(ctx)
	if err != nil {
		return model.GlobalStats{}, err
	}
	s.cache.Set(statsKey, stats)
	return stats, nil
}

// Profile returns the per-user participation view, served from cache when
// fresh.
func (s *Service) Profile(ctx context.Context, user common.Address) (model.Profile, error) {
	key := profileKey(user)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(model.Profile), nil
	}
	profile, err := s.reads.ProfileArenas(ctx, user)
	if err != nil {
		return model.Profile{}, err
	}
	s.cache.Set(key, profile)
	return profile, nil
}

// Creator returns the creator stake view, served from cache when fresh.
func (s *Service) Creator(ctx context.Context, creator common.Address) (model.CreatorStatus, error) {
	key := creatorKey(creator)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(model.CreatorStatus), nil
	}
	status, err := s.reads.CreatorStatus(ctx, creator)
	if err != nil {
		return model.CreatorStatus{}, err
	}
	s.cache.Set(key, status)
	return status, nil
}

// CreatePool creates a pool and invalidates the listings, stats, and the
// host's creator view.
func (s *Service) CreatePool(ctx context.Context, p txmgr.CreatePoolParams) (uint64, error) {
	writer, err := s.requireWriter()
	if err != nil {
		return 0, err
	}
	poolID, err := writer.CreatePool(ctx, p)
	if err != nil {
		return 0, err
	}
	s.cache.InvalidatePrefix(arenasPrefix)
	s.cache.Invalidate(statsKey, creatorKey(writer.From()))
	return poolID, nil
}

// JoinPool joins a pool and invalidates the listings, stats, and the
// player's profile.
func (s *Service) JoinPool(ctx context.Context, poolID uint64) error {
	writer, err := s.requireWriter()
	if err != nil {
		return err
	}
	if err := writer.JoinPool(ctx, poolID); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(arenasPrefix)
	s.cache.Invalidate(statsKey, profileKey(writer.From()))
	return nil
}

// SubmitChoice submits a round choice and invalidates the listings and the
// player's profile.
func (s *Service) SubmitChoice(ctx context.Context, poolID uint64, choice model.Choice) error {
	writer, err := s.requireWriter()
	if err != nil {
		return err
	}
	if err := writer.SubmitChoice(ctx, poolID, choice); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(arenasPrefix)
	s.cache.Invalidate(profileKey(writer.From()))
	return nil
}

// ResolveRound resolves a round and invalidates the listings and stats.
func (s *Service) ResolveRound(ctx context.Context, poolID uint64) error {
	writer, err := s.requireWriter()
	if err != nil {
		return err
	}
	if err := writer.ResolveRound(ctx, poolID); err != nil {
		return err
	}
	s.cache.InvalidatePrefix(arenasPrefix)
	s.cache.Invalidate(statsKey)
	return nil
}

// ClaimWinnings claims a payout and invalidates stats and the winner's
// profile.
func (s *Service) ClaimWinnings(ctx context.Context, poolID uint64) error {
	writer, err := s.requireWriter()
	if err != nil {
		return err
	}
	if err := writer.ClaimWinnings(ctx, poolID); err != nil {
		return err
	}
	s.cache.Invalidate(statsKey, profileKey(writer.From()))
	return nil
}

// ClaimRefund claims a refund and invalidates stats and the player's profile.
func (s *Service) ClaimRefund(ctx context.Context, poolID uint64) error {
	writer, err := s.requireWriter()
	if err != nil {
		return err
	}
	if err := writer.ClaimRefund(ctx, poolID); err != nil {
		return err
	}
	s.cache.Invalidate(statsKey, profileKey(writer.From()))
	return nil
}

// DepositCreatorStake deposits creator stake and invalidates the creator
// view.
func (s *Service) DepositCreatorStake(ctx context.Context, amount *big.Int) error {
	writer, err := s.requireWriter()
	if err != nil {
		return err
	}
	if err := writer.DepositCreatorStake(ctx, amount); err != nil {
		return err
	}
	s.cache.Invalidate(creatorKey(writer.From()))
	return nil
}

// WithdrawCreatorStake withdraws creator stake and invalidates the creator
// view.
func (s *Service) WithdrawCreatorStake(ctx context.Context) error {
	writer, err := s.requireWriter()
	if err != nil {
		return err
	}
	if err := writer.WithdrawCreatorStake(ctx); err != nil {
		return err
	}
	s.cache.Invalidate(creatorKey(writer.From()))
	return nil
}

func (s *Service) requireWriter() (Writer, error) {
	if s.writer == nil {
		return nil, fmt.Errorf("signing key not configured")
	}
	return s.writer, nil
}
