package beeper

import (
	"context"
	"net/http"
)

// SearchMessages runs a full-text search over the message index. The query
// is always sent, even when empty.
func (c *Client) SearchMessages(ctx context.Context, query, cursor string, dir Direction) (*SearchMessagesOutput, error) {
	out := &SearchMessagesOutput{}
	path := withPage("/v1/messages/search?q="+escapeQuery(query), cursor, dir)
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchChats matches chats by title, network or participants.
func (c *Client) SearchChats(ctx context.Context, query, cursor string, dir Direction) (*SearchChatsOutput, error) {
	out := &SearchChatsOutput{}
	path := withPage("/v1/chats/search?q="+escapeQuery(query), cursor, dir)
	if err := c.do(ctx, http.MethodGet, path, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
