package arena

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/JamesVictor-O/inversearena-v2/internal/model"
)

var (
	testManager = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testToken   = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testHost    = common.HexToAddress("0x3000000000000000000000000000000000000003")
	testPlayer  = common.HexToAddress("0x4000000000000000000000000000000000000004")
)

// fakeCaller answers eth_call by the 4-byte method selector.
type fakeCaller struct {
	responses map[string][]byte
	err       error
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	resp, ok := f.responses[string(msg.Data[:4])]
	if !ok {
		return nil, fmt.Errorf("no response for selector %x", msg.Data[:4])
	}
	return resp, nil
}

func packOutput(t *testing.T, parsed abi.ABI, method string, values ...interface{}) []byte {
	t.Helper()
	out, err := parsed.Methods[method].Outputs.Pack(values...)
	if err != nil {
		t.Fatalf("pack %s output: %v", method, err)
	}
	return out
}

func selector(parsed abi.ABI, method string) string {
	return string(parsed.Methods[method].ID)
}

func newFakeReader(t *testing.T, responses map[string][]byte) *Reader {
	t.Helper()
	return NewReader(&fakeCaller{responses: responses}, testManager, testToken)
}

func TestPoolCount(t *testing.T) {
	parsed, err := ManagerABI()
	if err != nil {
		t.Fatal(err)
	}
	reader := newFakeReader(t, map[string][]byte{
		selector(parsed, "poolCount"): packOutput(t, parsed, "poolCount", big.NewInt(7)),
	})

	count, err := reader.PoolCount(context.Background())
	if err != nil {
		t.Fatalf("PoolCount: %v", err)
	}
	if count != 7 {
		t.Fatalf("PoolCount = %d, want 7", count)
	}
}

func TestPoolConfig(t *testing.T) {
	parsed, err := ManagerABI()
	if err != nil {
		t.Fatal(err)
	}
	raw := rawPoolConfig{
		Host:          testHost,
		EntryFee:      big.NewInt(5_000_000),
		MaxPlayers:    10,
		MinPlayers:    2,
		RoundDuration: 60,
		StartDeadline: 1_700_000_000,
	}
	reader := newFakeReader(t, map[string][]byte{
		selector(parsed, "getPoolConfig"): packOutput(t, parsed, "getPoolConfig", raw),
	})

	config, err := reader.PoolConfig(context.Background(), 1)
	if err != nil {
		t.Fatalf("PoolConfig: %v", err)
	}
	want := model.PoolConfig{
		Host:          testHost,
		EntryFee:      big.NewInt(5_000_000),
		MaxPlayers:    10,
		MinPlayers:    2,
		RoundDuration: 60,
		StartDeadline: 1_700_000_000,
	}
	if !reflect.DeepEqual(config, want) {
		t.Fatalf("PoolConfig = %+v, want %+v", config, want)
	}
}

func TestPoolState(t *testing.T) {
	parsed, err := ManagerABI()
	if err != nil {
		t.Fatal(err)
	}
	raw := rawPoolState{
		Status:         uint8(model.StatusActive),
		CurrentRound:   3,
		SurvivorCount:  4,
		PlayerCount:    8,
		TotalDeposited: big.NewInt(40_000_000),
		RoundDeadline:  big.NewInt(1_700_000_500),
		Winner:         common.Address{},
	}
	reader := newFakeReader(t, map[string][]byte{
		selector(parsed, "getPoolState"): packOutput(t, parsed, "getPoolState", raw),
	})

	state, err := reader.PoolState(context.Background(), 1)
	if err != nil {
		t.Fatalf("PoolState: %v", err)
	}
	want := model.PoolState{
		Status:         model.StatusActive,
		CurrentRound:   3,
		SurvivorCount:  4,
		PlayerCount:    8,
		TotalDeposited: big.NewInt(40_000_000),
		RoundDeadline:  1_700_000_500,
	}
	if !reflect.DeepEqual(state, want) {
		t.Fatalf("PoolState = %+v, want %+v", state, want)
	}
}

func TestPoolStateUnknownStatus(t *testing.T) {
	parsed, err := ManagerABI()
	if err != nil {
		t.Fatal(err)
	}
	raw := rawPoolState{
		Status:         9,
		TotalDeposited: big.NewInt(0),
		RoundDeadline:  big.NewInt(0),
	}
	reader := newFakeReader(t, map[string][]byte{
		selector(parsed, "getPoolState"): packOutput(t, parsed, "getPoolState", raw),
	})

	_, err = reader.PoolState(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for unknown status code")
	}
	if !strings.Contains(err.Error(), "unknown pool status code 9") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPlayerInfo(t *testing.T) {
	parsed, err := ManagerABI()
	if err != nil {
		t.Fatal(err)
	}
	raw := rawPlayerInfo{
		IsActive:        true,
		HasClaimed:      false,
		RoundEliminated: 0,
		LastChoice:      uint8(model.ChoiceTails),
	}
	reader := newFakeReader(t, map[string][]byte{
		selector(parsed, "getPlayerInfo"): packOutput(t, parsed, "getPlayerInfo", raw),
	})

	record, err := reader.PlayerInfo(context.Background(), 1, testPlayer)
	if err != nil {
		t.Fatalf("PlayerInfo: %v", err)
	}
	want := model.PlayerRecord{IsActive: true, LastChoice: model.ChoiceTails}
	if !reflect.DeepEqual(record, want) {
		t.Fatalf("PlayerInfo = %+v, want %+v", record, want)
	}
}

func TestPlayerInfoUnknownChoice(t *testing.T) {
	parsed, err := ManagerABI()
	if err != nil {
		t.Fatal(err)
	}
	raw := rawPlayerInfo{LastChoice: 5}
	reader := newFakeReader(t, map[string][]byte{
		selector(parsed, "getPlayerInfo"): packOutput(t, parsed, "getPlayerInfo", raw),
	})

	_, err = reader.PlayerInfo(context.Background(), 1, testPlayer)
	if err == nil {
		t.Fatal("expected error for unknown choice code")
	}
}

func TestCreatorReads(t *testing.T) {
	parsed, err := ManagerABI()
	if err != nil {
		t.Fatal(err)
	}
	reader := newFakeReader(t, map[string][]byte{
		selector(parsed, "creatorStake"):       packOutput(t, parsed, "creatorStake", big.NewInt(10_000_000)),
		selector(parsed, "creatorActivePools"): packOutput(t, parsed, "creatorActivePools", big.NewInt(2)),
		selector(parsed, "pendingPayout"):      packOutput(t, parsed, "pendingPayout", big.NewInt(15_000_000)),
	})

	stake, err := reader.CreatorStake(context.Background(), testHost)
	if err != nil {
		t.Fatalf("CreatorStake: %v", err)
	}
	if stake.Cmp(big.NewInt(10_000_000)) != 0 {
		t.Errorf("CreatorStake = %s, want 10000000", stake)
	}

	active, err := reader.CreatorActivePools(context.Background(), testHost)
	if err != nil {
		t.Fatalf("CreatorActivePools: %v", err)
	}
	if active != 2 {
		t.Errorf("CreatorActivePools = %d, want 2", active)
	}

	payout, err := reader.PendingPayout(context.Background(), 1)
	if err != nil {
		t.Fatalf("PendingPayout: %v", err)
	}
	if payout.Cmp(big.NewInt(15_000_000)) != 0 {
		t.Errorf("PendingPayout = %s, want 15000000", payout)
	}
}

func TestAllowance(t *testing.T) {
	parsed, err := ERC20ABI()
	if err != nil {
		t.Fatal(err)
	}
	reader := newFakeReader(t, map[string][]byte{
		selector(parsed, "allowance"): packOutput(t, parsed, "allowance", big.NewInt(1_000_000)),
	})

	allowance, err := reader.Allowance(context.Background(), testPlayer, testManager)
	if err != nil {
		t.Fatalf("Allowance: %v", err)
	}
	if allowance.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("Allowance = %s, want 1000000", allowance)
	}
}

func TestCallErrorSurfaces(t *testing.T) {
	reader := NewReader(&fakeCaller{err: errors.New("connection refused")}, testManager, testToken)
	if _, err := reader.PoolCount(context.Background()); err == nil {
		t.Fatal("expected transport error")
	}
}
