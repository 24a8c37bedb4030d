package liquidator

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/session-foundation/sn-liquidator/api"
	"github.com/session-foundation/sn-liquidator/cli/args"
	"github.com/session-foundation/sn-liquidator/db"
	"github.com/session-foundation/sn-liquidator/eth"
	"github.com/session-foundation/sn-liquidator/keys"
	"github.com/session-foundation/sn-liquidator/liquidator"
	"github.com/session-foundation/sn-liquidator/logger"
	"github.com/session-foundation/sn-liquidator/metrics"
	"github.com/session-foundation/sn-liquidator/oxend"
)

type config struct {
	L2         eth.Config   `yaml:"eth"`
	Oxen       oxend.Config `yaml:"oxend"`
	Db         db.Config    `yaml:"db"`
	Api        api.Config   `yaml:"api"`
	PrivateKey string       `yaml:"-" env:"ETH_PRIVATE_KEY" env-description:"Private key of the liquidating wallet (0x + 64 hex digits)"`
}

type flags struct {
	stagenet        bool
	devnet          bool
	testnet         bool
	mainnet         bool
	l2              string
	oxen            string
	wallet          string
	sleep           int
	maxLiquidations int
	dryRun          bool
	dbPath          string
	rewardsContract string
	apiAddr         string
}

var cfg config

var globalArgs args.GlobalArgs

var f flags

// Cmd polls oxend for liquidatable service nodes and liquidates them on-chain.
var Cmd = &cobra.Command{
	Use:          "liquidator",
	Long:         `Polls oxend for service nodes eligible for liquidation and submits liquidation transactions to the ServiceNodeRewards contract`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := globalArgs.LoadConfig(&cfg); err != nil {
			log.Fatal("Error reading config: ", err)
		}
		applyFlags()

		logger, err := logger.Create(globalArgs.LogLevel, globalArgs.Verbose)
		if err != nil {
			log.Fatal("Error initializing logger: ", err)
		}
		defer logger.Sync()

		if cfg.L2.RPCUrl == "" {
			logger.Fatal("L2 provider URL is required (--l2 or L2_URL)")
		}
		if cfg.Oxen.RPCUrl == "" {
			logger.Fatal("oxend RPC URL is required (--oxen or OXEN_RPC_URL)")
		}

		networkName, err := selectedNetwork()
		if err != nil {
			logger.Fatal("Invalid network selection", zap.Error(err))
		}
		network, err := eth.LookupNetwork(networkName)
		if err != nil {
			logger.Fatal("Unsupported network", zap.Error(err))
		}

		key, err := keys.ParsePrivateKey(cfg.PrivateKey)
		if err != nil {
			logger.Fatal("Invalid private key", zap.Error(err))
		}
		wallet, err := keys.VerifyWallet(key, f.wallet)
		if err != nil {
			logger.Fatal("Wallet check failed", zap.Error(err))
		}

		rewardsAddress := network.RewardsAddress
		if f.rewardsContract != "" {
			if !common.IsHexAddress(f.rewardsContract) {
				logger.Fatal("Invalid rewards contract address", zap.String("address", f.rewardsContract))
			}
			rewardsAddress = common.HexToAddress(f.rewardsContract)
		}
		if rewardsAddress == (common.Address{}) {
			logger.Fatal("No ServiceNodeRewards contract known for network, use --rewards-contract", zap.String("network", network.Name))
		}

		ctx := cmd.Context()

		oxen := oxend.New(cfg.Oxen.RPCUrl)
		info, err := oxen.GetInfo(ctx)
		if err != nil {
			logger.Fatal("Error connecting to oxend", zap.String("url", cfg.Oxen.RPCUrl), zap.Error(err))
		}
		if info.NetType != network.Name {
			logger.Fatal("oxend is running on a different network",
				zap.String("expected", network.Name),
				zap.String("nettype", info.NetType))
		}
		logger.Info("Connected to oxend", zap.String("nettype", info.NetType), zap.Uint64("height", info.Height))

		client, err := eth.Dial(ctx, &cfg.L2)
		if err != nil {
			logger.Fatal("Error connecting to L2 provider", zap.Error(err))
		}
		defer client.Close()

		chainID, err := eth.EnsureChainID(ctx, client, network.ChainID)
		if err != nil {
			logger.Fatal("L2 provider is on the wrong chain", zap.Error(err))
		}

		rewards, err := eth.NewServiceNodeRewards(rewardsAddress, client)
		if err != nil {
			logger.Fatal("Error loading ServiceNodeRewards contract", zap.Error(err))
		}
		for _, def := range rewards.Errors().Definitions() {
			logger.Debug("Contract error", zap.String("selector", def.Selector.String()), zap.String("definition", def.Friendly()))
		}

		opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
		if err != nil {
			logger.Fatal("Error creating transactor", zap.Error(err))
		}

		if balance, err := client.BalanceAt(ctx, wallet, nil); err != nil {
			logger.Warn("Error fetching wallet balance", zap.Error(err))
		} else {
			logger.Info("Using wallet", zap.String("address", wallet.Hex()), zap.String("balance_wei", balance.String()))
		}
		logger.Info("Using ServiceNodeRewards contract",
			zap.String("network", network.Name),
			zap.String("chain", eth.ChainName(chainID)),
			zap.String("address", rewardsAddress.Hex()))

		m := metrics.NewMetrics()
		m.RecordInfo(cmd.Root().Version, network.Name)

		liquidatorOpts := []liquidator.Option{
			liquidator.WithMetrics(m),
			liquidator.WithTxURL(network.TxURL),
		}

		if cfg.Db.DbPath != "" {
			boltDb, err := db.NewBoltDB(cfg.Db.DbPath, logger)
			if err != nil {
				logger.Fatal("Error connecting to database", zap.Error(err))
			}
			defer boltDb.Close()
			liquidatorOpts = append(liquidatorOpts, liquidator.WithStore(boltDb))

			if cfg.Api.Addr != "" {
				server := api.New(logger, boltDb, m.Registry(), api.Info{
					Version:  cmd.Root().Version,
					Network:  network.Name,
					Wallet:   wallet.Hex(),
					Contract: rewardsAddress.Hex(),
					DryRun:   f.dryRun,
				})
				go func() {
					if err := server.Start(ctx, cfg.Api.Addr); err != nil {
						logger.Error("Error starting server", zap.Error(err))
					}
				}()
			}
		} else if cfg.Api.Addr != "" {
			logger.Fatal("The status API requires a database (--db-path)")
		}

		if f.dryRun {
			logger.Info("Dry run enabled, no transactions will be submitted")
		}

		l := liquidator.New(liquidator.Config{
			PollInterval:    time.Duration(f.sleep) * time.Second,
			MaxLiquidations: f.maxLiquidations,
			DryRun:          f.dryRun,
		}, oxen, rewards, eth.NewLiquidationSubmitter(rewards, opts), logger, liquidatorOpts...)

		err = l.Run(ctx)
		if errors.Is(err, context.Canceled) {
			logger.Info("Interrupted, exiting")
			return
		}
		if err != nil {
			logger.Fatal("Liquidator stopped", zap.Error(err))
		}
	},
}

func init() {
	args.ProcessArgs(&globalArgs, Cmd)

	fs := Cmd.Flags()
	fs.BoolVar(&f.stagenet, "stagenet", false, "Liquidate on stagenet")
	fs.BoolVar(&f.devnet, "devnet", false, "Liquidate on devnet")
	fs.BoolVar(&f.testnet, "testnet", false, "Liquidate on testnet")
	fs.BoolVar(&f.mainnet, "mainnet", false, "Liquidate on mainnet")
	fs.StringVarP(&f.l2, "l2", "l", "", "L2 provider URL")
	fs.StringVarP(&f.oxen, "oxen", "o", "", "oxend RPC URL")
	fs.StringVarP(&f.wallet, "wallet", "w", "", "Expected wallet address of ETH_PRIVATE_KEY")
	fs.IntVarP(&f.sleep, "sleep", "s", int(liquidator.DefaultPollInterval/time.Second), "Seconds between polls")
	fs.IntVarP(&f.maxLiquidations, "max-liquidations", "m", 0, "Exit after this many liquidation attempts (0 for no limit)")
	fs.BoolVarP(&f.dryRun, "dry-run", "n", false, "Print liquidation calls instead of submitting them")
	fs.StringVar(&f.dbPath, "db-path", "", "Liquidation log database file; empty keeps no state across restarts")
	fs.StringVar(&f.rewardsContract, "rewards-contract", "", "ServiceNodeRewards contract address override")
	fs.StringVar(&f.apiAddr, "api-addr", "", "Listen address of the status API (requires --db-path)")
}

func applyFlags() {
	if f.l2 != "" {
		cfg.L2.RPCUrl = f.l2
	}
	if f.oxen != "" {
		cfg.Oxen.RPCUrl = f.oxen
	}
	if f.dbPath != "" {
		cfg.Db.DbPath = f.dbPath
	}
	if f.apiAddr != "" {
		cfg.Api.Addr = f.apiAddr
	}
}

func selectedNetwork() (string, error) {
	var selected []string
	for name, set := range map[string]bool{
		"stagenet": f.stagenet,
		"devnet":   f.devnet,
		"testnet":  f.testnet,
		"mainnet":  f.mainnet,
	} {
		if set {
			selected = append(selected, name)
		}
	}
	switch len(selected) {
	case 0:
		return "", errors.New("one of --stagenet, --devnet, --testnet or --mainnet is required")
	case 1:
		return selected[0], nil
	default:
		return "", errors.New("only one of --stagenet, --devnet, --testnet or --mainnet may be given")
	}
}
