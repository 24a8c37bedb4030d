package oxend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// SignatureTimeout bounds bls_exit_liquidation_request, which makes the daemon collect
// signatures from the network.
const SignatureTimeout = 20 * time.Second

type request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

// RPCError is an error object returned by the daemon in a JSON-RPC response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("oxend rpc error %d: %s", e.Code, e.Message)
}

type Config struct {
	RPCUrl string `yaml:"oxen" env:"OXEN_RPC_URL" env-description:"oxend RPC URL"`
}

// Client talks to the JSON-RPC endpoint of an oxend node.
type Client struct {
	rpc              *resty.Client
	endpoint         string
	signatureTimeout time.Duration
}

func New(baseURL string) *Client {
	return &Client{
		rpc: resty.New().
			SetTimeout(time.Minute).
			SetHeader("Content-Type", "application/json"),
		endpoint:         strings.TrimRight(baseURL, "/") + "/json_rpc",
		signatureTimeout: SignatureTimeout,
	}
}

func (c *Client) GetInfo(ctx context.Context) (*Info, error) {
	var info Info
	if err := c.call(ctx, "get_info", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetHeight(ctx context.Context) (uint64, error) {
	var res heightResult
	if err := c.call(ctx, "get_height", nil, &res); err != nil {
		return 0, err
	}
	return res.Height, nil
}

func (c *Client) LiquidationList(ctx context.Context) ([]LiquidationCandidate, error) {
	var list []LiquidationCandidate
	if err := c.call(ctx, "bls_exit_liquidation_list", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// LiquidationRequest asks the daemon for an aggregate liquidation signature for pubkey.
// A refusal from the daemon is returned as *RPCError.
func (c *Client) LiquidationRequest(ctx context.Context, pubkey string) (*LiquidationSignature, error) {
	ctx, cancel := context.WithTimeout(ctx, c.signatureTimeout)
	defer cancel()

	var sig LiquidationSignature
	params := liquidationRequestParams{Pubkey: pubkey, Liquidate: true}
	if err := c.call(ctx, "bls_exit_liquidation_request", params, &sig); err != nil {
		return nil, err
	}
	return &sig, nil
}

func (c *Client) call(ctx context.Context, method string, params interface{}, result interface{}) error {
	var res response
	resp, err := c.rpc.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetBody(request{JSONRPC: "2.0", ID: 0, Method: method, Params: params}).
		SetResult(&res).
		Post(c.endpoint)
	if err != nil {
		return errors.Wrapf(err, "%s request failed", method)
	}
	if resp.IsError() {
		return errors.Errorf("%s request failed: HTTP %s", method, resp.Status())
	}
	if res.Error != nil {
		return res.Error
	}
	if len(res.Result) == 0 {
		return errors.Errorf("%s: empty result", method)
	}
	if err := json.Unmarshal(res.Result, result); err != nil {
		return errors.Wrapf(err, "%s: failed to decode result", method)
	}
	return nil
}
