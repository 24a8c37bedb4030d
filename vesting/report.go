package vesting

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

const (
	validMark   = "✅"
	invalidMark = "⛔"
	unavailable = "N/A"
)

var (
	balanceUnit = big.NewInt(1_000_000_000)
	header      = []string{"Vesting Contract Address", "SESH", "Beneficiary", "Rvokd", "Rvokr", "Rewards", "Contrib", "Trnsfr"}
)

// Snapshot is the public state of one TokenVestingStaking contract.
type Snapshot struct {
	Address                 common.Address
	Token                   common.Address
	Balance                 *big.Int
	Beneficiary             common.Address
	Revoked                 bool
	Revoker                 common.Address
	Rewards                 common.Address
	ContribFactory          common.Address
	TransferableBeneficiary bool
}

type Reader interface {
	ReadSnapshot(ctx context.Context, address common.Address) (*Snapshot, error)
}

// Expected holds optional addresses the report validates against. Empty fields are not
// validated.
type Expected struct {
	Token   string `yaml:"sesh" env:"VESTING_SESH"`
	Revoker string `yaml:"revoker" env:"VESTING_REVOKER"`
	Rewards string `yaml:"rewards" env:"VESTING_REWARDS"`
	Contrib string `yaml:"contrib" env:"VESTING_CONTRIB"`
}

func (e Expected) Any() bool {
	return e.Token != "" || e.Revoker != "" || e.Rewards != "" || e.Contrib != ""
}

// FormatBalance renders a 9-decimal token amount.
func FormatBalance(balance *big.Int) string {
	whole, frac := new(big.Int).QuoRem(balance, balanceUnit, new(big.Int))
	return fmt.Sprintf("%s.%09d", whole, frac.Uint64())
}

// Validate returns the check mark when actual matches expected, the flagged actual value on
// mismatch and the bare actual value when nothing is expected.
func Validate(expected, actual string) string {
	if expected == "" {
		return actual
	}
	if strings.EqualFold(expected, actual) {
		return validMark
	}
	return invalidMark + " " + actual
}

type Reporter struct {
	reader   Reader
	expected Expected
	logger   *zap.Logger
}

func NewReporter(reader Reader, expected Expected, logger *zap.Logger) *Reporter {
	return &Reporter{reader: reader, expected: expected, logger: logger}
}

// Rows reads every contract and returns one table row per input address, in order. A
// contract that cannot be read gets a row of placeholders.
func (r *Reporter) Rows(ctx context.Context, addresses []string) [][]string {
	rows := make([][]string, 0, len(addresses))
	for _, addr := range addresses {
		row, err := r.row(ctx, addr)
		if err != nil {
			r.logger.Error("An error occurred reading vesting contract", zap.String("address", addr), zap.Error(err))
			row = unavailableRow(addr)
		}
		rows = append(rows, row)
	}
	return rows
}

func (r *Reporter) row(ctx context.Context, addr string) ([]string, error) {
	if !common.IsHexAddress(addr) {
		return nil, fmt.Errorf("invalid address %q", addr)
	}
	snap, err := r.reader.ReadSnapshot(ctx, common.HexToAddress(addr))
	if err != nil {
		return nil, err
	}
	return []string{
		snap.Address.Hex(),
		FormatBalance(snap.Balance) + " " + Validate(r.expected.Token, snap.Token.Hex()),
		snap.Beneficiary.Hex(),
		formatBool(snap.Revoked),
		Validate(r.expected.Revoker, snap.Revoker.Hex()),
		Validate(r.expected.Rewards, snap.Rewards.Hex()),
		Validate(r.expected.Contrib, snap.ContribFactory.Hex()),
		formatBool(snap.TransferableBeneficiary),
	}, nil
}

// formatBool renders flags as True/False.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func unavailableRow(addr string) []string {
	row := make([]string, len(header))
	row[0] = addr
	for i := 1; i < len(row); i++ {
		row[i] = unavailable
	}
	return row
}

// Render writes the chain banner, the validation legend and the results table.
func (r *Reporter) Render(w io.Writer, chainID *big.Int, chainName string, rows [][]string) {
	fmt.Fprintf(w, "\n\nResults for chain 0x%x (%s):\n\n", chainID, chainName)

	if r.expected.Any() {
		fmt.Fprintf(w, "\nValidations:\n")
		legend := []struct{ value, label string }{
			{r.expected.Token, "SESH token address"},
			{r.expected.Revoker, "Revoker address"},
			{r.expected.Rewards, "Rewards contract address"},
			{r.expected.Contrib, "Multicontrib contract address"},
		}
		for _, l := range legend {
			if l.value != "" {
				fmt.Fprintf(w, "%s = %s %s\n", validMark, l.label, l.value)
			}
		}
		fmt.Fprintln(w)
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.AppendBulk(rows)
	table.Render()
}
