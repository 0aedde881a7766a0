package beeper

import (
	"context"
	"net/http"
)

// GetAccounts lists the chat accounts (WhatsApp, Telegram, ...) connected to
// this Beeper Desktop instance.
func (c *Client) GetAccounts(ctx context.Context) (GetAccountsOutput, error) {
	var out GetAccountsOutput
	if err := c.do(ctx, http.MethodGet, "/v1/accounts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
