package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

// Client queries the ledger's REST mirror service for token-service balances
// and allowances, keyed by native identifiers.
type Client struct {
	endpoints []string
	client    *http.Client
}

// Opts is the set of options for a new Client.
type Opts struct {
	Endpoints  []string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewClient(o Opts) *Client {
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	client := o.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: o.Timeout}
	}

	endpoints := make([]string, 0, len(o.Endpoints))
	seen := make(map[string]struct{}, len(o.Endpoints))
	for _, ep := range o.Endpoints {
		ep = strings.TrimRight(strings.TrimSpace(ep), "/")
		if ep == "" {
			continue
		}
		if _, ok := seen[ep]; ok {
			continue
		}
		seen[ep] = struct{}{}
		endpoints = append(endpoints, ep)
	}

	return &Client{endpoints: endpoints, client: client}
}

type tokenBalancesResponse struct {
	Tokens []struct {
		TokenID string      `json:"token_id"`
		Balance json.Number `json:"balance"`
	} `json:"tokens"`
}

type tokenAllowancesResponse struct {
	Allowances []struct {
		TokenID string      `json:"token_id"`
		Spender string      `json:"spender"`
		Amount  json.Number `json:"amount"`
	} `json:"allowances"`
}

// TokenBalance returns the balance account holds of tokenID. An account that
// is not associated with the token holds zero.
func (c *Client) TokenBalance(ctx context.Context, account, tokenID string) (*big.Int, error) {
	path := fmt.Sprintf("/api/v1/accounts/%s/tokens?token.id=%s", url.PathEscape(account), url.QueryEscape(tokenID))

	var resp tokenBalancesResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	for _, token := range resp.Tokens {
		if token.TokenID != tokenID {
			continue
		}
		return parseAmount(token.Balance)
	}
	return new(big.Int), nil
}

// TokenAllowance returns how much spender may move of owner's tokenID.
func (c *Client) TokenAllowance(ctx context.Context, owner, spender, tokenID string) (*big.Int, error) {
	path := fmt.Sprintf("/api/v1/accounts/%s/allowances/tokens?token.id=%s&spender.id=%s",
		url.PathEscape(owner), url.QueryEscape(tokenID), url.QueryEscape(spender))

	var resp tokenAllowancesResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	for _, allowance := range resp.Allowances {
		if allowance.TokenID == tokenID {
			return parseAmount(allowance.Amount)
		}
	}
	return new(big.Int), nil
}

// getJSON tries each endpoint in order, moving on after transport errors
// and server errors.
func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if len(c.endpoints) == 0 {
		return fmt.Errorf("no mirror endpoints configured")
	}

	var lastErr error
	for _, ep := range c.endpoints {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ep+path, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("mirror %s: server %d", ep, resp.StatusCode)
			drainAndClose(resp.Body)
			continue
		}
		if resp.StatusCode == http.StatusNotFound {
			drainAndClose(resp.Body)
			return fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		if resp.StatusCode >= 300 {
			drainAndClose(resp.Body)
			return fmt.Errorf("mirror %s: http %d", ep, resp.StatusCode)
		}

		decoder := json.NewDecoder(resp.Body)
		decoder.UseNumber()
		err = decoder.Decode(out)
		drainAndClose(resp.Body)
		if err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	return lastErr
}

func parseAmount(n json.Number) (*big.Int, error) {
	if n == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(n.String(), 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", n)
	}
	return v, nil
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
