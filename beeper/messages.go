package beeper

import (
	"context"
	"net/http"
)

// ListMessages returns one page of a chat's messages. The response has no
// cursors; to read further back pass the SortKey of the oldest message seen
// with DirectionBefore.
func (c *Client) ListMessages(ctx context.Context, chatID, cursor string, dir Direction) (*ListMessagesOutput, error) {
	if chatID == "" {
		return nil, missing("chatID")
	}
	out := &ListMessagesOutput{}
	if err := c.do(ctx, http.MethodGet, withPage(chatPath(chatID, "messages"), cursor, dir), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SendMessage sends a text message, optionally as a reply. The returned
// PendingMessageID identifies the message until the network confirms it.
func (c *Client) SendMessage(ctx context.Context, chatID string, in SendMessageInput) (*SendMessageOutput, error) {
	if chatID == "" {
		return nil, missing("chatID")
	}
	if in.Text == "" {
		return nil, missing("text")
	}
	out := &SendMessageOutput{}
	if err := c.do(ctx, http.MethodPost, chatPath(chatID, "messages"), in, out); err != nil {
		return nil, err
	}
	return out, nil
}
