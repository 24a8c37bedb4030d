package oxend

import "strings"

type Info struct {
	NetType string `json:"nettype"`
	Height  uint64 `json:"height"`
	Version string `json:"version"`
}

type heightResult struct {
	Height uint64 `json:"height"`
}

type CandidateInfo struct {
	BLSPublicKey string `json:"bls_public_key"`
}

// LiquidationCandidate is one entry of bls_exit_liquidation_list.
type LiquidationCandidate struct {
	ServiceNodePubkey string        `json:"service_node_pubkey"`
	LiquidationHeight uint64        `json:"liquidation_height"`
	Info              CandidateInfo `json:"info"`
}

// BLSKey returns the candidate's BLS public key as lowercase hex without a 0x prefix.
func (c LiquidationCandidate) BLSKey() string {
	return NormalizeHex(c.Info.BLSPublicKey)
}

// LiquidationSignature is the network authorization returned by bls_exit_liquidation_request.
type LiquidationSignature struct {
	BLSPubkey        string   `json:"bls_pubkey"`
	Signature        string   `json:"signature"`
	Timestamp        uint64   `json:"timestamp"`
	NonSignerIndices []uint64 `json:"non_signer_indices"`
}

type liquidationRequestParams struct {
	Pubkey    string `json:"pubkey"`
	Liquidate bool   `json:"liquidate"`
}

func NormalizeHex(s string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
}
