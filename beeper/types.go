package beeper

// ChatType is the chat kind reported by the server. It is an open set: values
// other than the constants below are passed through unchanged.
type ChatType string

const (
	ChatTypeSingle ChatType = "single"
	ChatTypeGroup  ChatType = "group"
)

// Direction selects which side of a cursor a page is read from. Like ChatType
// it is not validated locally.
type Direction string

const (
	DirectionBefore Direction = "before"
	DirectionAfter  Direction = "after"
)

// User is a person on some network. ID is the only field always present.
type User struct {
	ID            string  `json:"id"`
	Username      *string `json:"username,omitempty"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"` // E.164
	Email         *string `json:"email,omitempty"`
	FullName      *string `json:"fullName,omitempty"`
	ImgURL        *string `json:"imgURL,omitempty"`
	CannotMessage *bool   `json:"cannotMessage,omitempty"`
	IsSelf        *bool   `json:"isSelf,omitempty"`
}

// Account is one network identity connected to Beeper Desktop.
type Account struct {
	AccountID string `json:"accountID"`
	Network   string `json:"network"`
	User      User   `json:"user"`
}

// GetAccountsOutput is the response of GET /v1/accounts.
type GetAccountsOutput = []Account

// Participants is a possibly truncated participant list. len(Items) <= Total.
type Participants struct {
	Items   []User `json:"items"`
	HasMore bool   `json:"hasMore"`
	Total   uint32 `json:"total"`
}

// Chat is a conversation snapshot.
//
// LastReadMessageSortKey is decoded from either a JSON number or a numeric
// string; see Chat.UnmarshalJSON. Preview never carries a preview of its own.
type Chat struct {
	ID                     string       `json:"id"`
	LocalChatID            *string      `json:"localChatID,omitempty"`
	AccountID              string       `json:"accountID"`
	Network                string       `json:"network"`
	Title                  string       `json:"title"`
	Type                   ChatType     `json:"type"`
	Participants           Participants `json:"participants"`
	LastActivity           *string      `json:"lastActivity,omitempty"`
	UnreadCount            uint32       `json:"unreadCount"`
	LastReadMessageSortKey *uint64      `json:"lastReadMessageSortKey,omitempty"`
	IsArchived             bool         `json:"isArchived"`
	IsMuted                bool         `json:"isMuted"`
	IsPinned               bool         `json:"isPinned"`
	Preview                *Message     `json:"preview,omitempty"`
}

// Attachment is a file or media item on a message.
type Attachment struct {
	Type        string   `json:"type"`
	SrcURL      *string  `json:"srcURL,omitempty"`
	MimeType    *string  `json:"mimeType,omitempty"`
	FileName    *string  `json:"fileName,omitempty"`
	FileSize    *uint64  `json:"fileSize,omitempty"`
	IsGif       *bool    `json:"isGif,omitempty"`
	IsSticker   *bool    `json:"isSticker,omitempty"`
	IsVoiceNote *bool    `json:"isVoiceNote,omitempty"`
	Duration    *float64 `json:"duration,omitempty"` // seconds
	PosterImg   *string  `json:"posterImg,omitempty"`
}

// Reaction is a reaction left on a message by one participant.
type Reaction struct {
	ID            string  `json:"id"`
	ReactionKey   string  `json:"reactionKey"`
	ImgURL        *string `json:"imgURL,omitempty"`
	ParticipantID string  `json:"participantID"`
	Emoji         *bool   `json:"emoji,omitempty"`
}

// Message is a single chat message. SortKey is an opaque ordering token and
// must not be interpreted as a number.
type Message struct {
	ID          string       `json:"id"`
	ChatID      string       `json:"chatID"`
	AccountID   *string      `json:"accountID,omitempty"`
	SenderID    string       `json:"senderID"`
	SenderName  *string      `json:"senderName,omitempty"`
	Text        *string      `json:"text,omitempty"`
	Timestamp   string       `json:"timestamp"`
	SortKey     string       `json:"sortKey"`
	IsEdited    *bool        `json:"isEdited,omitempty"`
	Attachments []Attachment `json:"attachments,omitzero"`
	IsUnread    *bool        `json:"isUnread,omitempty"`
	Reactions   []Reaction   `json:"reactions,omitzero"`
	ReplyToID   *string      `json:"replyToID,omitempty"`
	IsSender    *bool        `json:"isSender,omitempty"`
}

// ListChatsOutput is one page of the global chat list.
type ListChatsOutput struct {
	Items        []Chat  `json:"items"`
	HasMore      bool    `json:"hasMore"`
	OldestCursor *string `json:"oldestCursor,omitempty"`
	NewestCursor *string `json:"newestCursor,omitempty"`
}

// SearchChatsOutput is one page of chat search results.
type SearchChatsOutput struct {
	Items        []Chat          `json:"items"`
	Chats        map[string]Chat `json:"chats,omitzero"`
	HasMore      bool            `json:"hasMore"`
	OldestCursor *string         `json:"oldestCursor,omitempty"`
	NewestCursor *string         `json:"newestCursor,omitempty"`
}

// ListMessagesOutput is one page of a chat's messages. Unlike the global
// lists it carries no cursors; callers page with a message SortKey instead.
type ListMessagesOutput struct {
	Items   []Message `json:"items"`
	HasMore bool      `json:"hasMore"`
}

// SearchMessagesOutput is one page of message search results. Chats holds the
// chats referenced by Items, keyed by chat ID.
type SearchMessagesOutput struct {
	Items        []Message       `json:"items"`
	Chats        map[string]Chat `json:"chats,omitzero"`
	HasMore      bool            `json:"hasMore"`
	OldestCursor *string         `json:"oldestCursor,omitempty"`
	NewestCursor *string         `json:"newestCursor,omitempty"`
}

type CreateChatInput struct {
	AccountID      string   `json:"accountID"`
	ParticipantIDs []string `json:"participantIDs"`
	Title          *string  `json:"title,omitempty"`
}

type CreateChatOutput struct {
	ChatID string `json:"chatID"`
}

type SendMessageInput struct {
	Text      string  `json:"text"`
	ReplyToID *string `json:"replyToID,omitempty"`
}

type SendMessageOutput struct {
	ChatID           string `json:"chatID"`
	PendingMessageID string `json:"pendingMessageID"`
}

// FocusAppInput optionally navigates the focused app to a chat or message and
// pre-fills the composer.
type FocusAppInput struct {
	ChatID    *string `json:"chatID,omitempty"`
	MessageID *string `json:"messageID,omitempty"`
	Draft     *string `json:"draft,omitempty"`
}

type FocusAppOutput struct {
	Success bool `json:"success"`
}

type DownloadAssetInput struct {
	URL string `json:"url"`
}

// DownloadAssetOutput holds the file:// URL of the asset on the machine
// running Beeper Desktop.
type DownloadAssetOutput struct {
	LocalURL string `json:"localURL"`
}

type archiveChatInput struct {
	Archived bool `json:"archived"`
}

type chatReminderInput struct {
	Timestamp string `json:"timestamp"`
}

// String returns a pointer to s, for filling optional fields.
func String(s string) *string { return &s }

// Bool returns a pointer to b, for filling optional fields.
func Bool(b bool) *bool { return &b }
