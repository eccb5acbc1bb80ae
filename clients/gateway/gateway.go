package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/NethermindEth/kipt/utils"
)

var (
	InvalidContractClass       ErrorCode = "StarknetErrorCode.INVALID_CONTRACT_CLASS"
	UndeclaredClass            ErrorCode = "StarknetErrorCode.UNDECLARED_CLASS"
	ClassAlreadyDeclared       ErrorCode = "StarknetErrorCode.CLASS_ALREADY_DECLARED"
	InsufficientMaxFee         ErrorCode = "StarknetErrorCode.INSUFFICIENT_MAX_FEE"
	InsufficientAccountBalance ErrorCode = "StarknetErrorCode.INSUFFICIENT_ACCOUNT_BALANCE"
	ValidateFailure            ErrorCode = "StarknetErrorCode.VALIDATE_FAILURE"
	InvalidTransactionNonce    ErrorCode = "StarknetErrorCode.INVALID_TRANSACTION_NONCE"
	InvalidCompiledClassHash   ErrorCode = "StarknetErrorCode.INVALID_COMPILED_CLASS_HASH"
	InvalidTransactionHash     ErrorCode = "StarknetErrorCode.INVALID_TRANSACTION_HASH"
	UninitializedContract      ErrorCode = "StarknetErrorCode.UNINITIALIZED_CONTRACT"
	EntryPointNotFound         ErrorCode = "StarknetErrorCode.ENTRY_POINT_NOT_FOUND_IN_CONTRACT"
)

const userAgent = "kipt"

// Client submits transactions to the sequencer gateway.
type Client struct {
	url     string
	client  *http.Client
	timeout time.Duration
	log     utils.SimpleLogger
}

func NewClient(gatewayURL string, log utils.SimpleLogger) *Client {
	gatewayURL = strings.TrimSuffix(gatewayURL, "/")
	return &Client{
		url:     gatewayURL,
		timeout: 30 * time.Second,
		client:  http.DefaultClient,
		log:     log,
	}
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

func (c *Client) AddInvokeTransaction(ctx context.Context, txn *BroadcastedInvokeTxn) (*AddTransactionResponse, error) {
	return c.addTransaction(ctx, txn)
}

func (c *Client) AddDeclareTransaction(ctx context.Context, txn *BroadcastedDeclareTxn) (*AddTransactionResponse, error) {
	return c.addTransaction(ctx, txn)
}

func (c *Client) addTransaction(ctx context.Context, txn any) (*AddTransactionResponse, error) {
	body, err := Post(ctx, c.client, c.timeout, c.url+"/add_transaction", txn)
	if err != nil {
		return nil, err
	}

	resp := new(AddTransactionResponse)
	if err = json.Unmarshal(body, resp); err != nil {
		return nil, err
	}
	c.log.Debugw("Gateway accepted transaction", "code", resp.Code, "hash", resp.TransactionHash)
	return resp, nil
}

// Post sends data as JSON and returns the response body. A non-200 response
// carrying a Starknet error code is returned as *Error.
func Post(ctx context.Context, client *http.Client, timeout time.Duration, url string, data any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := doPost(ctx, client, url, data)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ParseError(resp)
	}
	return io.ReadAll(resp.Body)
}

// ParseError extracts the gateway error from a failed response.
func ParseError(resp *http.Response) error {
	var gatewayError Error
	body, readErr := io.ReadAll(resp.Body)
	if readErr == nil && len(body) > 0 {
		if err := json.Unmarshal(body, &gatewayError); err == nil {
			if len(gatewayError.Code) != 0 {
				return &gatewayError
			}
		}
		return errors.New(string(body))
	}
	return errors.New(resp.Status)
}

// doPost performs a "POST" http request with the given URL and a JSON payload derived from the provided data
// it returns response without additional error handling
func doPost(ctx context.Context, client *http.Client, url string, data any) (*http.Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	return client.Do(req)
}

type ErrorCode string

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsErrorCode reports whether err is a gateway error with the given code.
func IsErrorCode(err error, code ErrorCode) bool {
	var gatewayErr *Error
	return errors.As(err, &gatewayErr) && gatewayErr.Code == code
}
