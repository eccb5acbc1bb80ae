package feeder

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/kipt/clients/gateway"
	"github.com/NethermindEth/kipt/core"
	"github.com/NethermindEth/kipt/utils"
)

type Backoff func(wait time.Duration) time.Duration

// Client queries the sequencer feeder gateway.
type Client struct {
	url        string
	client     *http.Client
	backoff    Backoff
	maxRetries int
	maxWait    time.Duration
	minWait    time.Duration
	timeout    time.Duration
	log        utils.SimpleLogger
}

func (c *Client) WithBackoff(b Backoff) *Client {
	c.backoff = b
	return c
}

func (c *Client) WithMaxRetries(num int) *Client {
	c.maxRetries = num
	return c
}

func (c *Client) WithMaxWait(d time.Duration) *Client {
	c.maxWait = d
	return c
}

func (c *Client) WithMinWait(d time.Duration) *Client {
	c.minWait = d
	return c
}

func (c *Client) WithLogger(log utils.SimpleLogger) *Client {
	c.log = log
	return c
}

func ExponentialBackoff(wait time.Duration) time.Duration {
	return wait * 2
}

func NopBackoff(d time.Duration) time.Duration {
	return 0
}

func NewClient(clientURL string) *Client {
	return &Client{
		url:        strings.TrimSuffix(clientURL, "/"),
		client:     http.DefaultClient,
		backoff:    ExponentialBackoff,
		maxRetries: 5,
		maxWait:    4 * time.Second,
		minWait:    time.Second,
		timeout:    30 * time.Second,
		log:        utils.NewNopZapLogger(),
	}
}

// buildQueryString builds the query url with encoded parameters. A block id
// starting with 0x is sent as a block hash, anything else as a block number or tag.
func (c *Client) buildQueryString(endpoint string, args map[string]string, blockID string) string {
	base, err := url.Parse(c.url + "/" + endpoint)
	if err != nil {
		panic("Malformed feeder base URL")
	}

	params := url.Values{}
	for k, v := range args {
		params.Add(k, v)
	}
	switch {
	case blockID == "":
	case strings.HasPrefix(blockID, "0x"):
		params.Add("blockHash", blockID)
	default:
		params.Add("blockNumber", blockID)
	}
	base.RawQuery = params.Encode()

	return base.String()
}

// get performs a "GET" http request with the given URL and returns the response body.
// Transient failures are retried; a response carrying a Starknet error code is not.
func (c *Client) get(ctx context.Context, queryURL string) (io.ReadCloser, error) {
	var res *http.Response
	var err error
	wait := time.Duration(0)
	for range c.maxRetries + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
			var req *http.Request
			req, err = http.NewRequestWithContext(ctx, http.MethodGet, queryURL, http.NoBody)
			if err != nil {
				return nil, err
			}

			res, err = c.client.Do(req)
			if err == nil {
				if res.StatusCode == http.StatusOK {
					return res.Body, nil
				}
				err = gateway.ParseError(res)
				res.Body.Close()

				var starknetErr *gateway.Error
				if errors.As(err, &starknetErr) {
					return nil, err
				}
			}

			if wait < c.minWait {
				wait = c.minWait
			} else {
				wait = min(c.backoff(wait), c.maxWait)
			}
			c.log.Debugw("Failed query to feeder, retrying...", "req", req.URL.String(), "retryAfter", wait.String(), "err", err)
		}
	}
	return nil, err
}

func (c *Client) post(ctx context.Context, queryURL string, data any) ([]byte, error) {
	return gateway.Post(ctx, c.client, c.timeout, queryURL, data)
}

func (c *Client) Nonce(ctx context.Context, address *felt.Felt, blockID string) (*felt.Felt, error) {
	queryURL := c.buildQueryString("get_nonce", map[string]string{
		"contractAddress": address.String(),
	}, blockID)

	body, err := c.get(ctx, queryURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var nonce string
	if err = json.NewDecoder(body).Decode(&nonce); err != nil {
		return nil, err
	}
	return core.DecodeFelt(nonce)
}

// ClassDefinition returns the raw class definition declared under classHash.
func (c *Client) ClassDefinition(ctx context.Context, classHash *felt.Felt, blockID string) (json.RawMessage, error) {
	queryURL := c.buildQueryString("get_class_by_hash", map[string]string{
		"classHash": classHash.String(),
	}, blockID)

	body, err := c.get(ctx, queryURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return io.ReadAll(body)
}

func (c *Client) CallContract(ctx context.Context, call *core.FunctionCall, blockID string) ([]*felt.Felt, error) {
	queryURL := c.buildQueryString("call_contract", map[string]string{}, blockID)

	body, err := c.post(ctx, queryURL, &callContractRequest{
		FunctionCall: call,
		Signature:    []*felt.Felt{},
	})
	if err != nil {
		return nil, err
	}

	resp := new(CallContractResponse)
	if err = json.Unmarshal(body, resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// EstimateFee simulates txn, which must carry a query version.
func (c *Client) EstimateFee(ctx context.Context, txn any, blockID string) (*FeeEstimate, error) {
	queryURL := c.buildQueryString("estimate_fee", map[string]string{
		"skipValidate": "false",
	}, blockID)

	body, err := c.post(ctx, queryURL, txn)
	if err != nil {
		return nil, err
	}

	estimate := new(FeeEstimate)
	if err = json.Unmarshal(body, estimate); err != nil {
		return nil, err
	}
	return estimate, nil
}

func (c *Client) TransactionReceipt(ctx context.Context, transactionHash *felt.Felt) (*TransactionReceipt, error) {
	queryURL := c.buildQueryString("get_transaction_receipt", map[string]string{
		"transactionHash": transactionHash.String(),
	}, "")

	body, err := c.get(ctx, queryURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	receipt := new(TransactionReceipt)
	if err = json.NewDecoder(body).Decode(receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}
