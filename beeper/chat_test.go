package beeper

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheus3301/bpp/internal/apitest"
)

func chatWithSortKey(sortKeyJSON string) string {
	key := ""
	if sortKeyJSON != "" {
		key = fmt.Sprintf(`"lastReadMessageSortKey": %s,`, sortKeyJSON)
	}
	return fmt.Sprintf(`{
		"items": [{
			"id": "chat-1",
			"accountID": "account-1",
			"network": "WhatsApp",
			"title": "Alice",
			"type": "single",
			"participants": {"items": [], "hasMore": false, "total": 0},
			"unreadCount": 0,
			%s
			"isArchived": false,
			"isMuted": false,
			"isPinned": false
		}],
		"hasMore": false
	}`, key)
}

func TestLastReadMessageSortKey(t *testing.T) {
	want := uint64(453400065536)
	tests := []struct {
		name    string
		raw     string
		want    *uint64
		wantErr bool
	}{
		{"number", "453400065536", &want, false},
		{"numeric string", `"453400065536"`, &want, false},
		{"null", "null", nil, false},
		{"missing", "", nil, false},
		{"max uint64 as string", `"18446744073709551615"`, ptr(uint64(18446744073709551615)), false},
		{"non-numeric string", `"not-a-number"`, nil, true},
		{"negative", "-1", nil, true},
		{"fraction", "1.5", nil, true},
		{"bool", "true", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out ListChatsOutput
			err := json.Unmarshal([]byte(chatWithSortKey(tt.raw)), &out)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, out.Items, 1)
			assert.Equal(t, tt.want, out.Items[0].LastReadMessageSortKey)
		})
	}
}

func TestChatDecodesFixture(t *testing.T) {
	var c Chat
	require.NoError(t, json.Unmarshal([]byte(apitest.ChatJSON), &c))

	assert.Equal(t, "!alice:beeper.local", c.ID)
	assert.Equal(t, "42", *c.LocalChatID)
	assert.Equal(t, ChatTypeSingle, c.Type)
	assert.Equal(t, uint32(2), c.Participants.Total)
	assert.Equal(t, uint32(3), c.UnreadCount)
	assert.True(t, c.IsPinned)
	require.NotNil(t, c.LastReadMessageSortKey)
	assert.Equal(t, uint64(453400065536), *c.LastReadMessageSortKey)

	require.NotNil(t, c.Preview)
	assert.Equal(t, "see you tomorrow", *c.Preview.Text)
	assert.Equal(t, "453400065536", c.Preview.SortKey)

	ts, ok := c.LastActivityTime()
	require.True(t, ok)
	assert.Equal(t, 2026, ts.Year())
}

func TestChatUnknownTypePassesThrough(t *testing.T) {
	data := `{"id":"c","accountID":"a","network":"Signal","title":"Broadcast","type":"channel",
		"participants":{"items":[],"hasMore":false,"total":0},"unreadCount":0,
		"isArchived":false,"isMuted":false,"isPinned":false}`
	var c Chat
	require.NoError(t, json.Unmarshal([]byte(data), &c))
	assert.Equal(t, ChatType("channel"), c.Type)
	assert.Equal(t, "Broadcast", c.DisplayName())

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"channel"`)
}

func TestDisplayName(t *testing.T) {
	self := User{ID: "me", FullName: String("Me"), IsSelf: Bool(true)}
	tests := []struct {
		name string
		chat Chat
		want string
	}{
		{
			name: "group uses title",
			chat: Chat{Type: ChatTypeGroup, Title: "Book club", Participants: Participants{Items: []User{{ID: "a", FullName: String("Alice")}}}},
			want: "Book club",
		},
		{
			name: "single prefers full name",
			chat: Chat{Type: ChatTypeSingle, Title: "t", Participants: Participants{Items: []User{self, {ID: "a", FullName: String("Alice"), Username: String("alice")}}}},
			want: "Alice",
		},
		{
			name: "single falls back to username",
			chat: Chat{Type: ChatTypeSingle, Title: "t", Participants: Participants{Items: []User{self, {ID: "a", Username: String("alice")}}}},
			want: "alice",
		},
		{
			name: "single falls back to title",
			chat: Chat{Type: ChatTypeSingle, Title: "+1 555 0100", Participants: Participants{Items: []User{self, {ID: "a"}}}},
			want: "+1 555 0100",
		},
		{
			name: "only self participant",
			chat: Chat{Type: ChatTypeSingle, Title: "Notes", Participants: Participants{Items: []User{self}}},
			want: "Notes",
		},
		{
			name: "isSelf false counts as other",
			chat: Chat{Type: ChatTypeSingle, Title: "t", Participants: Participants{Items: []User{{ID: "b", FullName: String("Bob"), IsSelf: Bool(false)}}}},
			want: "Bob",
		},
		{
			name: "only first non-self participant is considered",
			chat: Chat{Type: ChatTypeSingle, Title: "t", Participants: Participants{Items: []User{{ID: "a"}, {ID: "b", FullName: String("Bob")}}}},
			want: "t",
		},
		{
			name: "unknown type uses title",
			chat: Chat{Type: "channel", Title: "News", Participants: Participants{Items: []User{{ID: "a", FullName: String("Alice")}}}},
			want: "News",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.chat.DisplayName())
		})
	}
}

func TestOptionalFieldsStayAbsent(t *testing.T) {
	out, err := json.Marshal(SendMessageInput{Text: "hi"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"hi"}`, string(out))

	out, err = json.Marshal(FocusAppInput{ChatID: String("c1")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"chatID":"c1"}`, string(out))

	out, err = json.Marshal(CreateChatInput{AccountID: "a", ParticipantIDs: []string{"u1"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"accountID":"a","participantIDs":["u1"]}`, string(out))
}

func TestMessageRoundTripKeepsPopulatedFields(t *testing.T) {
	in := Message{
		ID:          "m1",
		ChatID:      "c1",
		SenderID:    "u1",
		Text:        String(""),
		Timestamp:   "2026-10-18T09:30:00Z",
		SortKey:     "0001",
		IsEdited:    Bool(false),
		Attachments: []Attachment{},
		Reactions:   []Reaction{{ID: "r", ReactionKey: ":+1:", ParticipantID: "u2"}},
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var back Message
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, in, back)
	assert.Nil(t, back.SenderName)
	assert.Nil(t, back.ReplyToID)
	assert.NotNil(t, back.Attachments, "empty attachments are populated, not absent")
}

func TestChatRoundTripKeepsSortKey(t *testing.T) {
	var c Chat
	require.NoError(t, json.Unmarshal([]byte(apitest.ChatJSON), &c))

	data, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lastReadMessageSortKey":453400065536`)

	var back Chat
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, c, back)
}

func TestSearchOutputChatsMap(t *testing.T) {
	var out SearchMessagesOutput
	require.NoError(t, json.Unmarshal([]byte(apitest.SearchMessagesJSON), &out))
	require.Len(t, out.Items, 1)
	chat, ok := out.Chats[out.Items[0].ChatID]
	require.True(t, ok)
	assert.Equal(t, "Alice Liddell", chat.DisplayName())
	assert.Equal(t, "s-old", *out.OldestCursor)
	assert.Nil(t, out.NewestCursor)

	data, err := json.Marshal(SearchChatsOutput{Items: []Chat{}})
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"chats"`)
}

func ptr[T any](v T) *T { return &v }
