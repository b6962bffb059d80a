package service

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/JamesVictor-O/inversearena-v2/internal/cache"
	"github.com/JamesVictor-O/inversearena-v2/internal/model"
	"github.com/JamesVictor-O/inversearena-v2/internal/txmgr"
)

var (
	viewerAddr = common.HexToAddress("0x1111111111111111111111111111111111111111")
	signerAddr = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

type fakeReads struct {
	listCalls    int
	statsCalls   int
	profileCalls int
	creatorCalls int
}

func (f *fakeReads) ListArenas(ctx context.Context, viewer common.Address, limit int) ([]model.ArenaView, error) {
	f.listCalls++
	return []model.ArenaView{{ID: uint64(f.listCalls)}}, nil
}

func (f *fakeReads) GlobalStats(ctx context.Context) (model.GlobalStats, error) {
	f.statsCalls++
	return model.GlobalStats{TotalPools: uint64(f.statsCalls), NetworkLoad: "low"}, nil
}

func (f *fakeReads) ProfileArenas(ctx context.Context, user common.Address) (model.Profile, error) {
	f.profileCalls++
	return model.Profile{}, nil
}

func (f *fakeReads) CreatorStatus(ctx context.Context, creator common.Address) (model.CreatorStatus, error) {
	f.creatorCalls++
	return model.CreatorStatus{ActivePools: uint64(f.creatorCalls)}, nil
}

type fakeWriter struct {
	from common.Address
	err  error
	ops  []string
}

func (f *fakeWriter) From() common.Address { return f.from }

func (f *fakeWriter) record(op string) error {
	if f.err != nil {
		return f.err
	}
	f.ops = append(f.ops, op)
	return nil
}

func (f *fakeWriter) CreatePool(ctx context.Context, p txmgr.CreatePoolParams) (uint64, error) {
	if err := f.record("createPool"); err != nil {
		return 0, err
	}
	return 9, nil
}

func (f *fakeWriter) JoinPool(ctx context.Context, poolID uint64) error {
	return f.record("joinPool")
}

func (f *fakeWriter) SubmitChoice(ctx context.Context, poolID uint64, choice model.Choice) error {
	return f.record("submitChoice")
}

func (f *fakeWriter) ResolveRound(ctx context.Context, poolID uint64) error {
	return f.record("resolveRound")
}

func (f *fakeWriter) ClaimWinnings(ctx context.Context, poolID uint64) error {
	return f.record("claimWinnings")
}

func (f *fakeWriter) ClaimRefund(ctx context.Context, poolID uint64) error {
	return f.record("claimRefund")
}

func (f *fakeWriter) DepositCreatorStake(ctx context.Context, amount *big.Int) error {
	return f.record("depositCreatorStake")
}

func (f *fakeWriter) WithdrawCreatorStake(ctx context.Context) error {
	return f.record("withdrawCreatorStake")
}

func newTestService(writer Writer) (*Service, *fakeReads) {
	reads := &fakeReads{}
	return New(reads, writer, cache.New(time.Minute), nil), reads
}

func TestArenasCached(t *testing.T) {
	svc, reads := newTestService(nil)
	ctx := context.Background()

	first, err := svc.Arenas(ctx, viewerAddr, 5)
	if err != nil {
		t.Fatalf("Arenas: %v", err)
	}
	second, err := svc.Arenas(ctx, viewerAddr, 5)
	if err != nil {
		t.Fatalf("Arenas: %v", err)
	}
	if reads.listCalls != 1 {
		t.Fatalf("listCalls = %d, want 1", reads.listCalls)
	}
	if first[0].ID != second[0].ID {
		t.Fatal("cached result differs from the first fetch")
	}
}

func TestArenasKeyedByViewerAndLimit(t *testing.T) {
	svc, reads := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.Arenas(ctx, viewerAddr, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Arenas(ctx, viewerAddr, 10); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Arenas(ctx, signerAddr, 5); err != nil {
		t.Fatal(err)
	}
	if reads.listCalls != 3 {
		t.Fatalf("listCalls = %d, want 3 distinct keys", reads.listCalls)
	}
}

func TestStatsCached(t *testing.T) {
	svc, reads := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.Stats(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Stats(ctx); err != nil {
		t.Fatal(err)
	}
	if reads.statsCalls != 1 {
		t.Fatalf("statsCalls = %d, want 1", reads.statsCalls)
	}
}

func TestCreatePoolInvalidates(t *testing.T) {
	writer := &fakeWriter{from: signerAddr}
	svc, reads := newTestService(writer)
	ctx := context.Background()

	// Prime every cache.
	if _, err := svc.Arenas(ctx, viewerAddr, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Stats(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Profile(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Creator(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}

	poolID, err := svc.CreatePool(ctx, txmgr.CreatePoolParams{EntryFee: big.NewInt(5_000_000), MaxPlayers: 10})
	if err != nil {
		t.Fatalf("CreatePool: %v", err)
	}
	if poolID != 9 {
		t.Fatalf("poolID = %d, want 9", poolID)
	}

	if _, err := svc.Arenas(ctx, viewerAddr, 5); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Stats(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Creator(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}
	if reads.listCalls != 2 {
		t.Errorf("listCalls = %d, want refetch after create", reads.listCalls)
	}
	if reads.statsCalls != 2 {
		t.Errorf("statsCalls = %d, want refetch after create", reads.statsCalls)
	}
	if reads.creatorCalls != 2 {
		t.Errorf("creatorCalls = %d, want refetch after create", reads.creatorCalls)
	}

	// The profile cache is untouched by pool creation.
	if _, err := svc.Profile(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}
	if reads.profileCalls != 1 {
		t.Errorf("profileCalls = %d, want 1", reads.profileCalls)
	}
}

func TestJoinPoolInvalidatesProfile(t *testing.T) {
	writer := &fakeWriter{from: signerAddr}
	svc, reads := newTestService(writer)
	ctx := context.Background()

	if _, err := svc.Profile(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Creator(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}

	if err := svc.JoinPool(ctx, 3); err != nil {
		t.Fatalf("JoinPool: %v", err)
	}

	if _, err := svc.Profile(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Creator(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}
	if reads.profileCalls != 2 {
		t.Errorf("profileCalls = %d, want refetch after join", reads.profileCalls)
	}
	if reads.creatorCalls != 1 {
		t.Errorf("creatorCalls = %d, creator cache should survive a join", reads.creatorCalls)
	}
}

func TestStakeOpsInvalidateCreatorOnly(t *testing.T) {
	writer := &fakeWriter{from: signerAddr}
	svc, reads := newTestService(writer)
	ctx := context.Background()

	if _, err := svc.Stats(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Creator(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}

	if err := svc.DepositCreatorStake(ctx, big.NewInt(4_000_000)); err != nil {
		t.Fatalf("DepositCreatorStake: %v", err)
	}

	if _, err := svc.Creator(ctx, signerAddr); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Stats(ctx); err != nil {
		t.Fatal(err)
	}
	if reads.creatorCalls != 2 {
		t.Errorf("creatorCalls = %d, want refetch after deposit", reads.creatorCalls)
	}
	if reads.statsCalls != 1 {
		t.Errorf("statsCalls = %d, stats cache should survive a stake deposit", reads.statsCalls)
	}
}

func TestWriterErrorLeavesCacheIntact(t *testing.T) {
	writer := &fakeWriter{from: signerAddr, err: errors.New("reverted")}
	svc, reads := newTestService(writer)
	ctx := context.Background()

	if _, err := svc.Stats(ctx); err != nil {
		t.Fatal(err)
	}
	if err := svc.ResolveRound(ctx, 1); err == nil {
		t.Fatal("expected writer error")
	}
	if _, err := svc.Stats(ctx); err != nil {
		t.Fatal(err)
	}
	if reads.statsCalls != 1 {
		t.Fatalf("statsCalls = %d, failed writes must not invalidate", reads.statsCalls)
	}
}

func TestWritesRequireWriter(t *testing.T) {
	svc, _ := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.CreatePool(ctx, txmgr.CreatePoolParams{}); err == nil {
		t.Fatal("expected error without a configured signer")
	}
	if err := svc.JoinPool(ctx, 1); err == nil {
		t.Fatal("expected error without a configured signer")
	}
	if err := svc.WithdrawCreatorStake(ctx); err == nil {
		t.Fatal("expected error without a configured signer")
	}
}
