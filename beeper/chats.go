package beeper

import (
	"context"
	"net/http"
)

// ListChats returns one page of chats across all accounts, most recently
// active first. Pass an OldestCursor/NewestCursor from a previous page with a
// direction to move through the list; empty values are omitted.
func (c *Client) ListChats(ctx context.Context, cursor string, dir Direction) (*ListChatsOutput, error) {
	out := &ListChatsOutput{}
	if err := c.do(ctx, http.MethodGet, withPage("/v1/chats", cursor, dir), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetChat returns chat metadata, participants and the latest message.
func (c *Client) GetChat(ctx context.Context, chatID string) (*Chat, error) {
	if chatID == "" {
		return nil, missing("chatID")
	}
	out := &Chat{}
	if err := c.do(ctx, http.MethodGet, chatPath(chatID), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateChat creates a single or group chat on an account.
func (c *Client) CreateChat(ctx context.Context, in CreateChatInput) (*CreateChatOutput, error) {
	if in.AccountID == "" {
		return nil, missing("accountID")
	}
	if len(in.ParticipantIDs) == 0 {
		return nil, missing("participantIDs")
	}
	out := &CreateChatOutput{}
	if err := c.do(ctx, http.MethodPost, "/v1/chats", in, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ArchiveChat archives (archived=true) or unarchives a chat and returns the
// updated chat.
func (c *Client) ArchiveChat(ctx context.Context, chatID string, archived bool) (*Chat, error) {
	if chatID == "" {
		return nil, missing("chatID")
	}
	out := &Chat{}
	if err := c.do(ctx, http.MethodPost, chatPath(chatID, "archive"), archiveChatInput{Archived: archived}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetChatReminder sets a reminder on a chat. timestamp is ISO-8601.
func (c *Client) SetChatReminder(ctx context.Context, chatID, timestamp string) (*Chat, error) {
	if chatID == "" {
		return nil, missing("chatID")
	}
	if timestamp == "" {
		return nil, missing("timestamp")
	}
	out := &Chat{}
	if err := c.do(ctx, http.MethodPost, chatPath(chatID, "reminders"), chatReminderInput{Timestamp: timestamp}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ClearChatReminder removes the reminder from a chat.
func (c *Client) ClearChatReminder(ctx context.Context, chatID string) (*Chat, error) {
	if chatID == "" {
		return nil, missing("chatID")
	}
	out := &Chat{}
	if err := c.do(ctx, http.MethodDelete, chatPath(chatID, "reminders"), nil, out); err != nil {
		return nil, err
	}
	return out, nil
}
