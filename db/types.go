package db

import (
	"time"
)

type Status string

const (
	StatusSubmitted       Status = "submitted"
	StatusDryRun          Status = "dry-run"
	StatusSignatureFailed Status = "signature-failed"
	StatusContractError   Status = "contract-error"
	StatusFailed          Status = "failed"
)

// Liquidation is the most recent liquidation attempt for a service node.
type Liquidation struct {
	Pubkey      string    `json:"pubkey"`
	BLSPubkey   string    `json:"bls_pubkey"`
	Status      Status    `json:"status"`
	TxHash      string    `json:"tx_hash,omitempty"`
	TxURL       string    `json:"tx_url,omitempty"`
	ErrorName   string    `json:"error_name,omitempty"`
	Error       string    `json:"error,omitempty"`
	Height      uint64    `json:"height"`
	AttemptedAt time.Time `json:"attempted_at"`
}

type State struct {
	LastHeight   uint64    `json:"last_height"`
	LastPolledAt time.Time `json:"last_polled_at"`
}
