package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JamesVictor-O/inversearena-v2/internal/arena"
	"github.com/JamesVictor-O/inversearena-v2/internal/cache"
	"github.com/JamesVictor-O/inversearena-v2/internal/chain"
	"github.com/JamesVictor-O/inversearena-v2/internal/config"
	"github.com/JamesVictor-O/inversearena-v2/internal/service"
	"github.com/JamesVictor-O/inversearena-v2/internal/txmgr"
	"github.com/JamesVictor-O/inversearena-v2/internal/view"
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "arenactl",
		Short:        "Inverse Arena on-chain reads and transactions",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("rpc", "", "chain RPC URL")
	root.PersistentFlags().String("manager", "", "ArenaManager contract address")
	root.PersistentFlags().String("token", "", "USDC token contract address")
	root.PersistentFlags().String("walletconnect-project-id", "", "WalletConnect project id (injected, unused by the CLI itself)")
	root.PersistentFlags().String("private-key", "", "hex signing key for write commands")
	root.PersistentFlags().Duration("cache-ttl", 10*time.Second, "query cache staleness window")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	addReadCommands(root)
	addWriteCommands(root)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired core for one command invocation.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	client *chain.Client
	agg    *view.Aggregator
	sub    *txmgr.Submitter
	svc    *service.Service
}

func (a *app) close() {
	if a.client != nil {
		a.client.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// setup loads config, connects the chain client, and wires the core. When
// needKey is set, a signing key is required and the submitter is built.
func setup(ctx context.Context, cmd *cobra.Command, needKey bool) (*app, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("rpc url is required")
	}
	manager, err := parseAddress(cfg.ManagerAddress, "manager")
	if err != nil {
		return nil, err
	}
	token, err := parseAddress(cfg.TokenAddress, "token")
	if err != nil {
		return nil, err
	}

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("connect rpc: %w", err)
	}

	reader := arena.NewReader(client, manager, token)
	agg := view.NewAggregator(reader, logger)

	var sub *txmgr.Submitter
	var writer service.Writer
	if needKey {
		if cfg.PrivateKey == "" {
			client.Close()
			return nil, fmt.Errorf("private key is required for write commands")
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		chainID, err := client.ChainID(ctx)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("get chain id: %w", err)
		}
		sub = txmgr.NewSubmitter(client, key, chainID, txmgr.Config{Manager: manager, Token: token}, logger)
		sub.SetObserver(func(p txmgr.Phase) {
			logger.Info("transaction phase", zap.String("phase", p.String()))
		})
		writer = sub
	}

	svc := service.New(agg, writer, cache.New(cfg.CacheTTL), logger)

	return &app{
		cfg:    cfg,
		logger: logger,
		client: client,
		agg:    agg,
		sub:    sub,
		svc:    svc,
	}, nil
}

func parseAddress(value, name string) (common.Address, error) {
	if value == "" {
		return common.Address{}, fmt.Errorf("%s address is required", name)
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("invalid %s address: %s", name, value)
	}
	return common.HexToAddress(value), nil
}

func printJSON(value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// reportFailure classifies an operation error for the terminal.
func reportFailure(logger *zap.Logger, err error) error {
	failure := arena.Classify(err)
	logger.Error("operation failed",
		zap.String("kind", failure.Kind.String()),
		zap.String("reason", failure.Message),
	)
	return failure
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
