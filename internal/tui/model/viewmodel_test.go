package model

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/apitest"
	"github.com/matheus3301/bpp/internal/bus"
	"github.com/matheus3301/bpp/internal/status"
)

func newTestViewModel(t *testing.T) (*ViewModel, *apitest.Server, *status.Machine, *bus.Bus) {
	t.Helper()
	srv := apitest.New(t)
	b := bus.New()
	m := status.NewMachine(b)
	return NewViewModel(beeper.New("tok", srv.URL), m, b), srv, m, b
}

func TestLoadOverview(t *testing.T) {
	vm, srv, m, b := newTestViewModel(t)
	srv.Reply(http.MethodGet, apitest.RouteAccounts, 200, apitest.AccountsJSON)
	srv.Reply(http.MethodGet, apitest.RouteChats, 200, apitest.ListChatsJSON)
	events, unsub := b.Subscribe("chats.", 4)
	defer unsub()

	require.NoError(t, vm.LoadOverview(context.Background()))

	assert.Len(t, vm.Accounts(), 2)
	require.Len(t, vm.Chats(), 2)
	assert.True(t, vm.HasMoreChats())
	assert.Equal(t, 3, vm.UnreadTotal())
	assert.Equal(t, status.Ready, m.Current())

	select {
	case evt := <-events:
		assert.Equal(t, bus.KindChatsLoaded, evt.Kind)
		assert.Equal(t, 2, evt.Payload)
	case <-time.After(time.Second):
		t.Fatal("no chats.loaded event")
	}
}

func TestLoadOverviewUnauthorized(t *testing.T) {
	vm, srv, m, _ := newTestViewModel(t)
	srv.RequireToken("other")

	err := vm.LoadOverview(context.Background())
	require.ErrorIs(t, err, beeper.ErrUnauthorized)
	assert.Equal(t, status.AuthRequired, m.Current())
	assert.Empty(t, vm.Chats())
}

func TestLoadMoreChatsUsesOldestCursor(t *testing.T) {
	vm, srv, _, _ := newTestViewModel(t)
	srv.Reply(http.MethodGet, apitest.RouteChats, 200, apitest.ListChatsJSON)
	require.NoError(t, vm.LoadChats(context.Background()))

	srv.Reply(http.MethodGet, apitest.RouteChats, 200, `{
		"items": [
			{"id": "!group:beeper.local", "accountID": "telegram", "network": "Telegram", "title": "Book club",
			 "type": "group", "participants": {"items": [], "hasMore": false, "total": 0},
			 "unreadCount": 0, "isArchived": false, "isMuted": false, "isPinned": false},
			{"id": "!old:beeper.local", "accountID": "telegram", "network": "Telegram", "title": "Old",
			 "type": "group", "participants": {"items": [], "hasMore": false, "total": 0},
			 "unreadCount": 1, "isArchived": false, "isMuted": false, "isPinned": false}
		],
		"hasMore": false
	}`)

	added, err := vm.LoadMoreChats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, "/v1/chats?cursor=c-old&direction=before", srv.Last(t).RequestURI)
	assert.Len(t, vm.Chats(), 3)
	assert.False(t, vm.HasMoreChats())

	added, err = vm.LoadMoreChats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Len(t, srv.Requests(), 2)
}

func TestOpenChatAndLoadOlder(t *testing.T) {
	vm, srv, _, _ := newTestViewModel(t)
	srv.Reply(http.MethodGet, apitest.RouteChat, 200, apitest.ChatJSON)
	srv.Reply(http.MethodGet, apitest.RouteChatMessages, 200, apitest.ListMessagesJSON)

	require.NoError(t, vm.OpenChat(context.Background(), "!alice:beeper.local"))
	assert.Equal(t, "!alice:beeper.local", vm.ActiveChatID())
	require.Len(t, vm.Messages(), 2)
	assert.True(t, vm.HasOlderMessages())

	srv.Reply(http.MethodGet, apitest.RouteChatMessages, 200, `{
		"items": [{"id": "m-0", "chatID": "!alice:beeper.local", "senderID": "alice",
		           "text": "hi", "timestamp": "2026-10-18T09:00:00Z", "sortKey": "1000"}],
		"hasMore": false
	}`)
	added, err := vm.LoadOlderMessages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, "/v1/chats/%21alice:beeper.local/messages?cursor=1001&direction=before", srv.Last(t).RequestURI)

	msgs := vm.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "m-0", msgs[2].ID)
	assert.False(t, vm.HasOlderMessages())
}

func TestRefreshMessagesKeepsOlderPages(t *testing.T) {
	vm, srv, _, _ := newTestViewModel(t)
	srv.Reply(http.MethodGet, apitest.RouteChat, 200, apitest.ChatJSON)
	srv.Reply(http.MethodGet, apitest.RouteChatMessages, 200, apitest.ListMessagesJSON)
	require.NoError(t, vm.OpenChat(context.Background(), "!alice:beeper.local"))

	srv.Reply(http.MethodGet, apitest.RouteChatMessages, 200, `{
		"items": [{"id": "m-3", "chatID": "!alice:beeper.local", "senderID": "alice",
		           "text": "new", "timestamp": "2026-10-18T09:35:00Z", "sortKey": "1003"},
		          {"id": "m-2", "chatID": "!alice:beeper.local", "senderID": "@me:beeper.local",
		           "text": "hello!", "timestamp": "2026-10-18T09:31:00Z", "sortKey": "1002"}],
		"hasMore": true
	}`)
	require.NoError(t, vm.RefreshMessages(context.Background()))

	var ids []string
	for _, m := range vm.Messages() {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []string{"m-3", "m-2", "m-1"}, ids)
}

func TestSendReplyClearsReplyTarget(t *testing.T) {
	vm, srv, _, b := newTestViewModel(t)
	srv.Reply(http.MethodGet, apitest.RouteChat, 200, apitest.ChatJSON)
	srv.Reply(http.MethodGet, apitest.RouteChatMessages, 200, apitest.ListMessagesJSON)
	srv.Reply(http.MethodPost, apitest.RouteChatMessages, 200, `{"chatID":"!alice:beeper.local","pendingMessageID":"p-1"}`)
	require.NoError(t, vm.OpenChat(context.Background(), "!alice:beeper.local"))
	events, unsub := b.Subscribe("messages.", 1)
	defer unsub()

	vm.SetReplyTo("m-1")
	out, err := vm.Send(context.Background(), "sure")
	require.NoError(t, err)
	assert.Equal(t, "p-1", out.PendingMessageID)
	assert.JSONEq(t, `{"text":"sure","replyToID":"m-1"}`, string(srv.Last(t).Body))
	assert.Empty(t, vm.ReplyTo())

	evt := <-events
	assert.Equal(t, bus.KindMessageSent, evt.Kind)
}

func TestSendWithoutChatLeavesStatus(t *testing.T) {
	vm, srv, m, _ := newTestViewModel(t)

	_, err := vm.Send(context.Background(), "hello")
	var mf *beeper.MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, status.Connecting, m.Current())
	assert.Empty(t, srv.Requests())
}

func TestArchiveAndReminderUpdateChat(t *testing.T) {
	vm, srv, _, _ := newTestViewModel(t)
	srv.Reply(http.MethodGet, apitest.RouteChats, 200, apitest.ListChatsJSON)
	srv.Reply(http.MethodGet, apitest.RouteChat, 200, apitest.ChatJSON)
	srv.Reply(http.MethodGet, apitest.RouteChatMessages, 200, apitest.ListMessagesJSON)
	require.NoError(t, vm.LoadChats(context.Background()))
	require.NoError(t, vm.OpenChat(context.Background(), "!alice:beeper.local"))

	archived := `{"id":"!alice:beeper.local","accountID":"whatsapp","network":"WhatsApp","title":"Alice",
		"type":"single","participants":{"items":[],"hasMore":false,"total":0},"unreadCount":0,
		"isArchived":true,"isMuted":false,"isPinned":false}`
	srv.Reply(http.MethodPost, apitest.RouteChatArchive, 200, archived)
	require.NoError(t, vm.Archive(context.Background(), true))
	assert.True(t, vm.ActiveChat().IsArchived)
	assert.True(t, vm.Chats()[0].IsArchived)

	srv.Reply(http.MethodPost, apitest.RouteChatReminders, 200, apitest.ChatJSON)
	at := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	require.NoError(t, vm.Remind(context.Background(), at))
	assert.JSONEq(t, `{"timestamp":"2026-10-19T08:00:00.000Z"}`, string(srv.Last(t).Body))

	srv.Reply(http.MethodDelete, apitest.RouteChatReminders, 200, apitest.ChatJSON)
	require.NoError(t, vm.ClearReminder(context.Background()))
	assert.Equal(t, http.MethodDelete, srv.Last(t).Method)
}

func TestFocus(t *testing.T) {
	vm, srv, _, _ := newTestViewModel(t)
	srv.Reply(http.MethodPost, apitest.RouteFocus, 200, `{"success":true}`)

	require.NoError(t, vm.Focus(context.Background(), ""))
	assert.JSONEq(t, `{}`, string(srv.Last(t).Body))

	require.NoError(t, vm.Focus(context.Background(), "see you"))
	assert.JSONEq(t, `{"draft":"see you"}`, string(srv.Last(t).Body))
}

func TestSearchKeepsResults(t *testing.T) {
	vm, srv, _, _ := newTestViewModel(t)
	srv.Reply(http.MethodGet, apitest.RouteMessageSearch, 200, apitest.SearchMessagesJSON)

	out, err := vm.Search(context.Background(), "lunch")
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Same(t, out, vm.SearchResults())
}

func TestSetTokenRecoversFromAuthRequired(t *testing.T) {
	vm, srv, m, _ := newTestViewModel(t)
	srv.RequireToken("fresh")
	srv.Reply(http.MethodGet, apitest.RouteChats, 200, apitest.ListChatsJSON)

	require.Error(t, vm.LoadChats(context.Background()))
	require.Equal(t, status.AuthRequired, m.Current())

	vm.SetToken("fresh")
	assert.Equal(t, status.Connecting, m.Current())
	require.NoError(t, vm.LoadChats(context.Background()))
	assert.Equal(t, status.Ready, m.Current())
}
