package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JamesVictor-O/inversearena-v2/internal/model"
	"github.com/JamesVictor-O/inversearena-v2/internal/txmgr"
	"github.com/JamesVictor-O/inversearena-v2/internal/view"
)

func addWriteCommands(root *cobra.Command) {
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new arena pool",
		RunE:  runCreate,
	}
	createCmd.Flags().Float64("entry-fee", 0, "entry fee in USDC")
	createCmd.Flags().Uint32("max-players", 0, "maximum players")
	createCmd.Flags().Uint32("min-players", 0, "minimum players (0 uses the contract minimum)")
	createCmd.Flags().String("round-speed", "1M", "round speed label (30S, 1M, 5M)")
	root.AddCommand(createCmd)

	joinCmd := &cobra.Command{
		Use:   "join",
		Short: "Join an arena pool",
		RunE:  runJoin,
	}
	joinCmd.Flags().Uint64("pool", 0, "pool id")
	root.AddCommand(joinCmd)

	chooseCmd := &cobra.Command{
		Use:   "choose",
		Short: "Submit a heads or tails choice for the current round",
		RunE:  runChoose,
	}
	chooseCmd.Flags().Uint64("pool", 0, "pool id")
	chooseCmd.Flags().String("choice", "", "heads or tails")
	root.AddCommand(chooseCmd)

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the current round once its deadline has passed",
		RunE:  runResolve,
	}
	resolveCmd.Flags().Uint64("pool", 0, "pool id")
	root.AddCommand(resolveCmd)

	claimCmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim winnings from a finished pool",
		RunE:  runClaim,
	}
	claimCmd.Flags().Uint64("pool", 0, "pool id")
	root.AddCommand(claimCmd)

	refundCmd := &cobra.Command{
		Use:   "refund",
		Short: "Claim a refund from a cancelled pool",
		RunE:  runRefund,
	}
	refundCmd.Flags().Uint64("pool", 0, "pool id")
	root.AddCommand(refundCmd)

	stakeDepositCmd := &cobra.Command{
		Use:   "stake-deposit",
		Short: "Deposit USDC as creator stake",
		RunE:  runStakeDeposit,
	}
	stakeDepositCmd.Flags().Float64("amount", 0, "amount in USDC")
	root.AddCommand(stakeDepositCmd)

	stakeWithdrawCmd := &cobra.Command{
		Use:   "stake-withdraw",
		Short: "Withdraw creator stake (the contract decides any slash)",
		RunE:  runStakeWithdraw,
	}
	root.AddCommand(stakeWithdrawCmd)
}

func runCreate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer app.close()

	entryFee, _ := cmd.Flags().GetFloat64("entry-fee")
	maxPlayers, _ := cmd.Flags().GetUint32("max-players")
	minPlayers, _ := cmd.Flags().GetUint32("min-players")
	roundSpeed, _ := cmd.Flags().GetString("round-speed")
	if entryFee <= 0 {
		return fmt.Errorf("entry fee must be positive")
	}
	if maxPlayers == 0 {
		return fmt.Errorf("max players is required")
	}

	poolID, err := app.svc.CreatePool(ctx, txmgr.CreatePoolParams{
		EntryFee:      view.ParseUSDC(entryFee),
		MaxPlayers:    maxPlayers,
		MinPlayers:    minPlayers,
		RoundDuration: view.SpeedSeconds(roundSpeed),
	})
	if err != nil {
		return reportFailure(app.logger, err)
	}

	app.logger.Info("pool created", zap.Uint64("pool_id", poolID))
	return printJSON(map[string]uint64{"pool_id": poolID})
}

func runJoin(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer app.close()

	poolID, err := requirePool(cmd)
	if err != nil {
		return err
	}
	if err := app.svc.JoinPool(ctx, poolID); err != nil {
		return reportFailure(app.logger, err)
	}

	app.logger.Info("pool joined", zap.Uint64("pool_id", poolID))
	return nil
}

func runChoose(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer app.close()

	poolID, err := requirePool(cmd)
	if err != nil {
		return err
	}

	raw, _ := cmd.Flags().GetString("choice")
	var choice model.Choice
	switch strings.ToLower(raw) {
	case "heads":
		choice = model.ChoiceHeads
	case "tails":
		choice = model.ChoiceTails
	default:
		return fmt.Errorf("choice must be heads or tails")
	}

	if err := app.svc.SubmitChoice(ctx, poolID, choice); err != nil {
		return reportFailure(app.logger, err)
	}

	app.logger.Info("choice submitted", zap.Uint64("pool_id", poolID), zap.String("choice", choice.String()))
	return nil
}

func runResolve(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer app.close()

	poolID, err := requirePool(cmd)
	if err != nil {
		return err
	}
	if err := app.svc.ResolveRound(ctx, poolID); err != nil {
		return reportFailure(app.logger, err)
	}

	app.logger.Info("round resolved", zap.Uint64("pool_id", poolID))
	return nil
}

func runClaim(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer app.close()

	poolID, err := requirePool(cmd)
	if err != nil {
		return err
	}
	if err := app.svc.ClaimWinnings(ctx, poolID); err != nil {
		return reportFailure(app.logger, err)
	}

	app.logger.Info("winnings claimed", zap.Uint64("pool_id", poolID))
	return nil
}

func runRefund(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer app.close()

	poolID, err := requirePool(cmd)
	if err != nil {
		return err
	}
	if err := app.svc.ClaimRefund(ctx, poolID); err != nil {
		return reportFailure(app.logger, err)
	}

	app.logger.Info("refund claimed", zap.Uint64("pool_id", poolID))
	return nil
}

func runStakeDeposit(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer app.close()

	amount, _ := cmd.Flags().GetFloat64("amount")
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}
	if err := app.svc.DepositCreatorStake(ctx, view.ParseUSDC(amount)); err != nil {
		return reportFailure(app.logger, err)
	}

	app.logger.Info("creator stake deposited", zap.Float64("amount", amount))
	return nil
}

func runStakeWithdraw(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := setup(ctx, cmd, true)
	if err != nil {
		return err
	}
	defer app.close()

	if err := app.svc.WithdrawCreatorStake(ctx); err != nil {
		return reportFailure(app.logger, err)
	}

	app.logger.Info("creator stake withdrawn")
	return nil
}

func requirePool(cmd *cobra.Command) (uint64, error) {
	poolID, _ := cmd.Flags().GetUint64("pool")
	if poolID == 0 {
		return 0, fmt.Errorf("pool id is required")
	}
	return poolID, nil
}
