package beeper

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheus3301/bpp/internal/apitest"
)

func newTestClient(t *testing.T) (*Client, *apitest.Server) {
	t.Helper()
	srv := apitest.New(t)
	return New("test-token", srv.URL), srv
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name: "400 structured", status: 400, body: `{"code":"INVALID_CURSOR","message":"cursor expired"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "INVALID_CURSOR", apiErr.Code)
				assert.Equal(t, "cursor expired", apiErr.Message)
			},
		},
		{
			name: "403 structured", status: 403, body: `{"code":"FORBIDDEN","message":"scope missing"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "FORBIDDEN", apiErr.Code)
			},
		},
		{
			name: "400 malformed body", status: 400, body: `oops`,
			check: func(t *testing.T, err error) {
				var serErr *SerializationError
				require.ErrorAs(t, err, &serErr)
			},
		},
		{
			name: "401 ignores body", status: 401, body: `<html>not json`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrUnauthorized)
				var cfgErr *ConfigError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, "unauthorized", cfgErr.Reason)
			},
		},
		{
			name: "404", status: 404, body: `{"code":"x","message":"y"}`,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrNotFound)
				var cfgErr *ConfigError
				require.ErrorAs(t, err, &cfgErr)
				assert.Equal(t, "resource not found", cfgErr.Reason)
			},
		},
		{
			name: "429", status: 429, body: ``,
			check: func(t *testing.T, err error) {
				require.ErrorIs(t, err, ErrRateLimited)
			},
		},
		{
			name: "unknown status keeps raw text", status: 418, body: `teapot`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, &APIError{Code: "418", Message: "teapot"}, apiErr)
			},
		},
		{
			name: "5xx from reachable server", status: 503, body: `starting up`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, "503", apiErr.Code)
				var nr *NotReachableError
				assert.False(t, errors.As(err, &nr))
			},
		},
		{
			name: "200 with wrong shape", status: 200, body: `{"items": "nope"}`,
			check: func(t *testing.T, err error) {
				var serErr *SerializationError
				require.ErrorAs(t, err, &serErr)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, srv := newTestClient(t)
			srv.Reply(http.MethodGet, apitest.RouteChats, tt.status, tt.body)

			out, err := c.ListChats(context.Background(), "", "")
			require.Error(t, err)
			assert.Nil(t, out)
			tt.check(t, err)
		})
	}
}

func TestCreatedStatusDecodes(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply(http.MethodPost, apitest.RouteChats, http.StatusCreated, `{"chatID":"!new:beeper.local"}`)

	out, err := c.CreateChat(context.Background(), CreateChatInput{AccountID: "whatsapp", ParticipantIDs: []string{"u1"}})
	require.NoError(t, err)
	assert.Equal(t, "!new:beeper.local", out.ChatID)
}

func TestConnectionRefusedIsNotReachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	baseURL := "http://" + ln.Addr().String()
	require.NoError(t, ln.Close())

	c := New("tok", baseURL)
	_, err = c.GetAccounts(context.Background())

	var nr *NotReachableError
	require.ErrorAs(t, err, &nr)
	assert.Equal(t, baseURL, nr.URL)
	assert.Contains(t, err.Error(), "Beeper Desktop is running")

	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr))
}

func TestCancelledContextIsRequestError(t *testing.T) {
	c, srv := newTestClient(t)
	srv.Reply(http.MethodGet, apitest.RouteAccounts, 200, `[]`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetAccounts(ctx)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithPage(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		cursor string
		dir    Direction
		want   string
	}{
		{"neither", "/v1/chats", "", "", "/v1/chats"},
		{"cursor only", "/v1/chats", "abc", "", "/v1/chats?cursor=abc"},
		{"both", "/v1/chats", "abc", DirectionAfter, "/v1/chats?cursor=abc&direction=after"},
		{"direction only", "/v1/chats", "", DirectionAfter, "/v1/chats?direction=after"},
		{"cursor escaped", "/v1/chats", "a b&c=d/+", DirectionBefore, "/v1/chats?cursor=a%20b%26c%3Dd%2F%2B&direction=before"},
		{"existing query", "/v1/messages/search?q=hi", "abc", DirectionBefore, "/v1/messages/search?q=hi&cursor=abc&direction=before"},
		{"existing query direction only", "/v1/chats/search?q=hi", "", DirectionAfter, "/v1/chats/search?q=hi&direction=after"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, withPage(tt.path, tt.cursor, tt.dir))
		})
	}
}

func TestChatPathEscapesID(t *testing.T) {
	assert.Equal(t, "/v1/chats/a%2Fb%20c/messages", chatPath("a/b c", "messages"))
	assert.Equal(t, "/v1/chats/%21alice:beeper.local", chatPath("!alice:beeper.local"))
}

type failingBody struct{ err error }

func (b failingBody) Read([]byte) (int, error) { return 0, b.err }
func (b failingBody) Close() error             { return nil }

func TestBodyReadFailureIsRequestError(t *testing.T) {
	readErr := errors.New("connection reset")
	for _, code := range []int{200, 400, 500, 502} {
		resp := &http.Response{StatusCode: code, Body: failingBody{err: readErr}}
		err := handleResponse(resp, &struct{}{})

		var reqErr *RequestError
		require.ErrorAs(t, err, &reqErr, "status %d", code)
		assert.ErrorIs(t, err, readErr)
	}
}
