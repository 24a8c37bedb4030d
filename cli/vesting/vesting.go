package vesting

import (
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/session-foundation/sn-liquidator/cli/args"
	"github.com/session-foundation/sn-liquidator/eth"
	"github.com/session-foundation/sn-liquidator/logger"
	"github.com/session-foundation/sn-liquidator/vesting"
)

type config struct {
	L2       eth.Config       `yaml:"eth"`
	Expected vesting.Expected `yaml:"expected"`
}

var cfg config

var globalArgs args.GlobalArgs

var expected vesting.Expected

var l2 string

// Cmd prints the state of TokenVestingStaking contracts.
var Cmd = &cobra.Command{
	Use:          "ls-vesting [flags] CONTRACT...",
	Long:         `Reads deployed TokenVestingStaking contracts and prints their state, optionally validated against expected addresses`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, addresses []string) {
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

		ctx := cmd.Context()
		client, err := eth.Dial(ctx, &cfg.L2)
		if err != nil {
			logger.Fatal("Error connecting to L2 provider", zap.Error(err))
		}
		defer client.Close()

		chainID, err := client.ChainID(ctx)
		if err != nil {
			logger.Fatal("Error fetching chain id", zap.Error(err))
		}

		reader, err := eth.NewVestingReader(client)
		if err != nil {
			logger.Fatal("Error loading vesting contract ABI", zap.Error(err))
		}

		reporter := vesting.NewReporter(reader, cfg.Expected, logger)
		rows := reporter.Rows(ctx, addresses)
		reporter.Render(os.Stdout, chainID, eth.ChainName(chainID), rows)
	},
}

func init() {
	args.ProcessArgs(&globalArgs, Cmd)

	fs := Cmd.Flags()
	fs.StringVarP(&l2, "l2", "l", "", "L2 provider URL")
	fs.StringVarP(&expected.Token, "sesh", "S", "", "Expected SESH token address")
	fs.StringVarP(&expected.Revoker, "revoker", "K", "", "Expected revoker address")
	fs.StringVarP(&expected.Rewards, "rewards", "R", "", "Expected ServiceNodeRewards address")
	fs.StringVarP(&expected.Contrib, "contrib", "C", "", "Expected contribution factory address")
}

func applyFlags() {
	if l2 != "" {
		cfg.L2.RPCUrl = l2
	}
	if expected.Token != "" {
		cfg.Expected.Token = expected.Token
	}
	if expected.Revoker != "" {
		cfg.Expected.Revoker = expected.Revoker
	}
	if expected.Rewards != "" {
		cfg.Expected.Rewards = expected.Rewards
	}
	if expected.Contrib != "" {
		cfg.Expected.Contrib = expected.Contrib
	}
}
