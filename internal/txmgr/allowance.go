package txmgr

import (
	"context"
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/JamesVictor-O/inversearena-v2/internal/arena"
)

// ensureAllowance tops up the manager's USDC spending allowance before a
// value-transferring call. No transaction is sent when the current allowance
// already covers the required amount; otherwise it approves exactly the
// required amount and waits for inclusion.
func (s *Submitter) ensureAllowance(ctx context.Context, required *big.Int) error {
	allowance, err := s.reader.Allowance(ctx, s.from, s.cfg.Manager)
	if err != nil {
		return fmt.Errorf("read allowance: %w", err)
	}
	if allowance.Cmp(required) >= 0 {
		return nil
	}

	parsed, err := arena.ERC20ABI()
	if err != nil {
		return fmt.Errorf("parse erc20 abi: %w", err)
	}
	data, err := parsed.Pack("approve", s.cfg.Manager, required)
	if err != nil {
		return fmt.Errorf("pack approve: %w", err)
	}

	s.logger.Info("approving token allowance",
		zap.String("spender", s.cfg.Manager.Hex()),
		zap.String("amount", required.String()),
	)
	if _, err := s.submit(ctx, s.cfg.Token, data); err != nil {
		return err
	}
	return nil
}
