package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *BoltDB {
	db, err := NewBoltDB(filepath.Join(t.TempDir(), "liquidator.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSaveAndGetLiquidation(t *testing.T) {
	db := openTestDB(t)

	rec := &Liquidation{
		Pubkey:      "aa01",
		BLSPubkey:   "ff",
		Status:      StatusSubmitted,
		TxHash:      "0x01",
		Height:      100,
		AttemptedAt: time.Unix(1700000000, 0).UTC(),
	}
	require.NoError(t, db.SaveLiquidation(rec))

	got, err := db.GetLiquidation("aa01")
	require.NoError(t, err)
	assert.True(t, rec.AttemptedAt.Equal(got.AttemptedAt))
	got.AttemptedAt = rec.AttemptedAt
	assert.Equal(t, rec, got)

	_, err = db.GetLiquidation("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLatestAttemptWins(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveLiquidation(&Liquidation{Pubkey: "aa01", Status: StatusContractError, ErrorName: "InvalidBLSSignature"}))
	require.NoError(t, db.SaveLiquidation(&Liquidation{Pubkey: "aa01", Status: StatusSubmitted}))

	got, err := db.GetLiquidation("aa01")
	require.NoError(t, err)
	assert.Equal(t, StatusSubmitted, got.Status)
	assert.Empty(t, got.ErrorName)
}

func TestListAndLiquidatedPubkeys(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.SaveLiquidation(&Liquidation{Pubkey: "cc03", Status: StatusSubmitted}))
	require.NoError(t, db.SaveLiquidation(&Liquidation{Pubkey: "aa01", Status: StatusSubmitted}))
	require.NoError(t, db.SaveLiquidation(&Liquidation{Pubkey: "bb02", Status: StatusDryRun}))
	require.NoError(t, db.SaveLiquidation(&Liquidation{Pubkey: "dd04", Status: StatusSignatureFailed}))

	all, err := db.ListLiquidations("")
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "aa01", all[0].Pubkey)

	pubkeys, err := db.LiquidatedPubkeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"aa01", "cc03"}, pubkeys)

	counts, err := db.CountByStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, counts[StatusSubmitted])
	assert.Equal(t, 1, counts[StatusDryRun])
	assert.Equal(t, 0, counts[StatusFailed])
}

func TestEmptyList(t *testing.T) {
	db := openTestDB(t)

	all, err := db.ListLiquidations("")
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestState(t *testing.T) {
	db := openTestDB(t)

	state, err := db.GetState()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), state.LastHeight)
	assert.True(t, state.LastPolledAt.IsZero())

	require.NoError(t, db.SaveLastHeight(1234))
	state, err = db.GetState()
	require.NoError(t, err)
	assert.Equal(t, uint64(1234), state.LastHeight)
	assert.False(t, state.LastPolledAt.IsZero())
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liquidator.db")
	db, err := NewBoltDB(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.SaveLiquidation(&Liquidation{Pubkey: "aa01", Status: StatusSubmitted}))
	require.NoError(t, db.Close())

	db, err = NewBoltDB(path, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()
	pubkeys, err := db.LiquidatedPubkeys()
	require.NoError(t, err)
	assert.Equal(t, []string{"aa01"}, pubkeys)
}
