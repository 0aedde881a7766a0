// Package apitest serves a fake Beeper Desktop API for tests. Every request is
// recorded; responses are canned per route.
package apitest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// Route patterns served by the fake, matching the Desktop API.
const (
	RouteAccounts       = "/v1/accounts"
	RouteChats          = "/v1/chats"
	RouteChatSearch     = "/v1/chats/search"
	RouteChat           = "/v1/chats/{chatID}"
	RouteChatArchive    = "/v1/chats/{chatID}/archive"
	RouteChatReminders  = "/v1/chats/{chatID}/reminders"
	RouteChatMessages   = "/v1/chats/{chatID}/messages"
	RouteMessageSearch  = "/v1/messages/search"
	RouteFocus          = "/v1/focus"
	RouteAssetsDownload = "/v1/assets/download"
)

// Request is what the fake saw.
type Request struct {
	Method     string
	Route      string
	RequestURI string
	ChatID     string
	Header     http.Header
	Body       []byte
}

// JSON decodes the recorded body into a generic map.
func (r Request) JSON(t testing.TB) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(r.Body, &m); err != nil {
		t.Fatalf("request body %q is not a JSON object: %v", r.Body, err)
	}
	return m
}

type reply struct {
	status int
	body   string
	fn     func(r *http.Request) (int, string)
}

// Server is a running fake API.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	token    string
	replies  map[string]reply
	requests []Request
}

// New starts a fake and closes it when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{replies: make(map[string]reply)}

	r := chi.NewRouter()
	for _, route := range []string{
		RouteAccounts, RouteChats, RouteChatSearch, RouteChat, RouteChatArchive,
		RouteChatReminders, RouteChatMessages, RouteMessageSearch, RouteFocus,
		RouteAssetsDownload,
	} {
		r.HandleFunc(route, s.handle(route))
	}
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// RequireToken makes the fake answer 401 unless the bearer token matches.
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

// Reply sets the raw response for method+route.
func (s *Server) Reply(method, route string, status int, body string) {
	s.mu.Lock()
	s.replies[method+" "+route] = reply{status: status, body: body}
	s.mu.Unlock()
}

// ReplyFunc answers method+route with whatever fn returns for the request,
// for replies that depend on the cursor or body.
func (s *Server) ReplyFunc(method, route string, fn func(r *http.Request) (status int, body string)) {
	s.mu.Lock()
	s.replies[method+" "+route] = reply{fn: fn}
	s.mu.Unlock()
}

// ReplyJSON encodes v as the response for method+route.
func (s *Server) ReplyJSON(t testing.TB, method, route string, status int, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode reply: %v", err)
	}
	s.Reply(method, route, status, string(data))
}

// Requests returns every recorded request in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Last returns the most recent request, failing the test if there was none.
func (s *Server) Last(t testing.TB) Request {
	t.Helper()
	reqs := s.Requests()
	if len(reqs) == 0 {
		t.Fatal("no request recorded")
	}
	return reqs[len(reqs)-1]
}

func (s *Server) handle(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:     r.Method,
			Route:      route,
			RequestURI: r.RequestURI,
			ChatID:     chi.URLParam(r, "chatID"),
			Header:     r.Header.Clone(),
			Body:       body,
		})
		token := s.token
		rep, ok := s.replies[r.Method+" "+route]
		s.mu.Unlock()

		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, "not json at all")
			return
		}
		if !ok {
			http.Error(w, "no reply configured for "+r.Method+" "+route, http.StatusNotImplemented)
			return
		}
		status, out := rep.status, rep.body
		if rep.fn != nil {
			status, out = rep.fn(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, out)
	}
}
