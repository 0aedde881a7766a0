package tui

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/apitest"
	"github.com/matheus3301/bpp/internal/bus"
	"github.com/matheus3301/bpp/internal/status"
	"github.com/matheus3301/bpp/internal/tui/model"
)

func newTestApp(t *testing.T) (*App, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	srv.Reply(http.MethodGet, apitest.RouteAccounts, 200, apitest.AccountsJSON)
	srv.Reply(http.MethodGet, apitest.RouteChats, 200, apitest.ListChatsJSON)
	srv.Reply(http.MethodGet, apitest.RouteChat, 200, apitest.ChatJSON)
	srv.Reply(http.MethodGet, apitest.RouteChatMessages, 200, apitest.ListMessagesJSON)

	b := bus.New()
	m := status.NewMachine(b)
	vm := model.NewViewModel(beeper.New("tok", srv.URL), m, b)
	a := NewApp(vm, m, b, zap.NewNop(), Options{Profile: "main", BaseURL: srv.URL})
	a.spawn = func(f func()) { f() }
	a.queue = func(f func()) { f() }
	t.Cleanup(a.cancel)

	a.reload()
	return a, srv
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want Command
	}{
		{"quit", Command{Name: "quit"}},
		{"q", Command{Name: "quit"}},
		{"  Search  lunch plans ", Command{Name: "search", Args: "lunch plans"}},
		{"c alice", Command{Name: "chat", Args: "alice"}},
		{"remind 2h", Command{Name: "remind", Args: "2h"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCommand(tt.in))
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	a, _ := newTestApp(t)
	assert.EqualError(t, a.execute("frobnicate now"), `unknown command "frobnicate"`)
	assert.NoError(t, a.execute("   "))
}

func TestReloadFillsChatList(t *testing.T) {
	a, _ := newTestApp(t)
	assert.Equal(t, "!alice:beeper.local", a.chatList.ChatByIndex(1))
	assert.Equal(t, status.Ready, a.machine.Current())
}

func TestChatCommandOpensThread(t *testing.T) {
	a, _ := newTestApp(t)

	require.NoError(t, a.execute("chat alice"))
	assert.Equal(t, pageThread, a.pages.Current())
	assert.Equal(t, "!alice:beeper.local", a.thread.ChatID())
	assert.Len(t, a.vm.Messages(), 2)

	assert.EqualError(t, a.execute("chat"), "usage: chat <name>")
	assert.EqualError(t, a.execute("chat zzzzqqq"), `no chat matches "zzzzqqq"`)

	a.back()
	assert.Equal(t, pageConversations, a.pages.Current())
	assert.Empty(t, a.vm.ActiveChatID())
}

func TestChatCommandsNeedOpenChat(t *testing.T) {
	a, srv := newTestApp(t)
	before := len(srv.Requests())

	for _, cmd := range []string{"archive", "unarchive", "remind 2h", "unremind", "reply"} {
		assert.ErrorIs(t, a.execute(cmd), errNoChat, cmd)
	}
	assert.Len(t, srv.Requests(), before)
}

func TestArchiveCommand(t *testing.T) {
	a, srv := newTestApp(t)
	srv.Reply(http.MethodPost, apitest.RouteChatArchive, 200, apitest.ChatJSON)
	require.NoError(t, a.execute("chat alice"))

	require.NoError(t, a.execute("archive"))
	req := srv.Last(t)
	assert.Equal(t, "!alice:beeper.local", req.ChatID)
	assert.Equal(t, map[string]any{"archived": true}, req.JSON(t))
	assert.Equal(t, "Archived Alice Liddell", a.flash.Text())

	require.NoError(t, a.execute("unarchive"))
	assert.Equal(t, map[string]any{"archived": false}, srv.Last(t).JSON(t))
}

func TestRemindCommand(t *testing.T) {
	a, srv := newTestApp(t)
	srv.Reply(http.MethodPost, apitest.RouteChatReminders, 200, apitest.ChatJSON)
	srv.Reply(http.MethodDelete, apitest.RouteChatReminders, 200, apitest.ChatJSON)
	require.NoError(t, a.execute("chat alice"))

	require.NoError(t, a.execute("remind 2h"))
	req := srv.Last(t)
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Contains(t, req.JSON(t), "timestamp")

	require.Error(t, a.execute("remind someday"))

	require.NoError(t, a.execute("unremind"))
	assert.Equal(t, http.MethodDelete, srv.Last(t).Method)
}

func TestReplyCommand(t *testing.T) {
	a, _ := newTestApp(t)
	require.NoError(t, a.execute("chat alice"))

	require.NoError(t, a.execute("reply 2"))
	assert.Equal(t, "m-1", a.vm.ReplyTo())
	assert.Same(t, a.thread.Composer(), a.app.GetFocus())

	assert.Error(t, a.execute("reply 0"))
	assert.Error(t, a.execute("reply 9"))
}

func TestSendFromThread(t *testing.T) {
	a, srv := newTestApp(t)
	srv.Reply(http.MethodPost, apitest.RouteChatMessages, 200, `{"chatID":"!alice:beeper.local","pendingMessageID":"p-1"}`)
	require.NoError(t, a.execute("chat alice"))
	require.NoError(t, a.execute("reply"))

	a.send("on my way")

	var sent *apitest.Request
	for _, r := range srv.Requests() {
		if r.Method == http.MethodPost && r.Route == apitest.RouteChatMessages {
			sent = &r
		}
	}
	require.NotNil(t, sent)
	assert.JSONEq(t, `{"text":"on my way","replyToID":"m-2"}`, string(sent.Body))
	assert.Empty(t, a.vm.ReplyTo())
}

func TestSearchCommand(t *testing.T) {
	a, srv := newTestApp(t)
	srv.Reply(http.MethodGet, apitest.RouteMessageSearch, 200, apitest.SearchMessagesJSON)

	require.NoError(t, a.execute("search lunch"))
	assert.Equal(t, pageSearch, a.pages.Current())
	assert.Equal(t, "/v1/messages/search?q=lunch", srv.Last(t).RequestURI)
	require.NotNil(t, a.vm.SearchResults())

	chatID, msgID := a.searchV.SelectedResult()
	assert.Equal(t, "!alice:beeper.local", chatID)
	assert.Equal(t, "m-1", msgID)
}

func TestTokenCommand(t *testing.T) {
	a, srv := newTestApp(t)
	srv.RequireToken("fresh")
	a.refresh(context.Background())
	require.Equal(t, status.AuthRequired, a.machine.Current())

	assert.Error(t, a.execute("token"))
	require.NoError(t, a.execute("token fresh"))
	assert.Equal(t, "Bearer fresh", srv.Last(t).Header.Get("Authorization"))
	assert.Equal(t, status.Ready, a.machine.Current())
}

func TestStatusChangesDriveConnectionPage(t *testing.T) {
	a, _ := newTestApp(t)

	a.handleStatus(status.StatusChange{From: status.Ready, To: status.Unreachable, Err: errors.New("refused")})
	assert.Equal(t, pageConnection, a.pages.Current())

	a.handleStatus(status.StatusChange{From: status.Unreachable, To: status.AuthRequired, Err: beeper.ErrUnauthorized})
	assert.Equal(t, 2, a.pages.Depth(), "connection page is pushed once")

	a.handleStatus(status.StatusChange{From: status.Connecting, To: status.Ready})
	assert.Equal(t, pageConversations, a.pages.Current())

	a.handleStatus(status.StatusChange{From: status.Ready, To: status.Degraded, Err: errors.New("500")})
	assert.Equal(t, pageConversations, a.pages.Current())
	assert.Equal(t, "500", a.flash.Text())
}

func TestRefreshSkipsWhileAuthRequired(t *testing.T) {
	a, srv := newTestApp(t)
	require.NoError(t, a.machine.Transition(status.AuthRequired))
	before := len(srv.Requests())

	a.refresh(context.Background())
	assert.Len(t, srv.Requests(), before)
}

func TestEventsUpdateChrome(t *testing.T) {
	a, _ := newTestApp(t)
	loadedAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	a.handleEvent(bus.Event{Kind: bus.KindChatsLoaded, Timestamp: loadedAt, Payload: 2})
	assert.Equal(t, loadedAt, a.lastRefresh)

	a.handleEvent(bus.Event{Kind: bus.KindMessageSent, Payload: beeper.SendMessageOutput{ChatID: "!alice:beeper.local", PendingMessageID: "p-1"}})
	assert.Equal(t, "Message sent", a.flash.Text())

	a.handleEvent(bus.Event{Kind: bus.KindAPIStatusChanged, Payload: status.StatusChange{From: status.Ready, To: status.Unreachable}})
	assert.Equal(t, pageConnection, a.pages.Current())
}

func TestViewModelEventsReachApp(t *testing.T) {
	a, srv := newTestApp(t)
	srv.Reply(http.MethodPost, apitest.RouteChatMessages, 200, `{"chatID":"!alice:beeper.local","pendingMessageID":"p-1"}`)
	events, unsubscribe := a.bus.Subscribe("", 16)
	defer unsubscribe()

	require.NoError(t, a.execute("chat alice"))
	a.send("hi")

	kinds := map[string]bool{}
	for len(events) > 0 {
		evt := <-events
		kinds[evt.Kind] = true
		a.handleEvent(evt)
	}
	assert.True(t, kinds[bus.KindMessageSent])
	assert.Equal(t, "Message sent", a.flash.Text())
}

func TestConnectionViewShowsLatestError(t *testing.T) {
	a, _ := newTestApp(t)

	first := &beeper.NotReachableError{URL: "http://first.invalid"}
	a.machine.Observe(first)
	a.handleStatus(status.StatusChange{From: status.Ready, To: status.Unreachable, Err: first})
	require.Equal(t, pageConnection, a.pages.Current())
	assert.Contains(t, a.connection.GetText(true), "first.invalid")

	// Same state again: no status event, but the page follows the machine.
	a.machine.Observe(&beeper.NotReachableError{URL: "http://second.invalid"})
	a.refreshChrome()
	assert.Contains(t, a.connection.GetText(true), "second.invalid")
}
