// Package payout reads withdrawal outcomes from the payout gateway.
package payout

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"restauranthub/internal/apiclient"
	"restauranthub/internal/domain"
)

// Status is the gateway's view of one payout.
type Status struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
}

// Outcome maps the gateway status onto a withdrawal status. ok is false while the
// payout is still in flight.
func (s Status) Outcome() (domain.WithdrawalStatus, bool) {
	switch strings.ToLower(s.Status) {
	case "completed", "success", "paid":
		return domain.WithdrawalStatusCompleted, true
	case "failed", "reversed", "rejected":
		return domain.WithdrawalStatusFailed, true
	default:
		return domain.WithdrawalStatusProcessing, false
	}
}

type Client struct {
	api *apiclient.Client
}

func NewClient(api *apiclient.Client) *Client {
	return &Client{api: api}
}

func (c *Client) PayoutStatus(ctx context.Context, withdrawalID string) (Status, error) {
	var st Status
	if err := c.api.Do(ctx, http.MethodGet, "/api/payouts/"+url.PathEscape(withdrawalID), nil, &st); err != nil {
		return Status{}, err
	}
	return st, nil
}
