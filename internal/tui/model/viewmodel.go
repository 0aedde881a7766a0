package model

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/bus"
	"github.com/matheus3301/bpp/internal/present"
	"github.com/matheus3301/bpp/internal/status"
)

// API is the part of beeper.Client the TUI uses.
type API interface {
	GetAccounts(ctx context.Context) (beeper.GetAccountsOutput, error)
	ListChats(ctx context.Context, cursor string, dir beeper.Direction) (*beeper.ListChatsOutput, error)
	GetChat(ctx context.Context, chatID string) (*beeper.Chat, error)
	ArchiveChat(ctx context.Context, chatID string, archived bool) (*beeper.Chat, error)
	SetChatReminder(ctx context.Context, chatID, timestamp string) (*beeper.Chat, error)
	ClearChatReminder(ctx context.Context, chatID string) (*beeper.Chat, error)
	ListMessages(ctx context.Context, chatID, cursor string, dir beeper.Direction) (*beeper.ListMessagesOutput, error)
	SendMessage(ctx context.Context, chatID string, in beeper.SendMessageInput) (*beeper.SendMessageOutput, error)
	SearchMessages(ctx context.Context, query, cursor string, dir beeper.Direction) (*beeper.SearchMessagesOutput, error)
	FocusApp(ctx context.Context, in *beeper.FocusAppInput) (*beeper.FocusAppOutput, error)
	SetToken(token string)
}

// ViewModel holds the snapshot the TUI renders. Every load replaces part of
// the snapshot; nothing is kept beyond what is on screen.
type ViewModel struct {
	mu sync.RWMutex

	api     API
	machine *status.Machine
	bus     *bus.Bus

	accounts     []beeper.Account
	chats        []beeper.Chat
	chatsCursor  string
	chatsHasMore bool

	active      *beeper.Chat
	messages    []beeper.Message
	msgsHasMore bool
	replyTo     string

	search *beeper.SearchMessagesOutput
}

// NewViewModel creates a view model that reports every call outcome to m.
func NewViewModel(api API, m *status.Machine, b *bus.Bus) *ViewModel {
	return &ViewModel{
		api:     api,
		machine: m,
		bus:     b,
	}
}

func (vm *ViewModel) observe(err error) error {
	if vm.machine != nil {
		vm.machine.Observe(err)
	}
	return err
}

func (vm *ViewModel) publish(kind string, payload any) {
	if vm.bus != nil {
		vm.bus.Publish(bus.Event{Kind: kind, Timestamp: time.Now(), Payload: payload})
	}
}

// LoadOverview fetches accounts and the first page of chats concurrently.
func (vm *ViewModel) LoadOverview(ctx context.Context) error {
	var (
		accounts beeper.GetAccountsOutput
		chats    *beeper.ListChatsOutput
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = vm.api.GetAccounts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		chats, err = vm.api.ListChats(gctx, "", "")
		return err
	})
	if err := vm.observe(g.Wait()); err != nil {
		return err
	}

	vm.mu.Lock()
	vm.accounts = accounts
	vm.setChatsLocked(chats)
	vm.mu.Unlock()
	vm.publish(bus.KindChatsLoaded, len(chats.Items))
	return nil
}

// LoadChats refreshes the first page of chats.
func (vm *ViewModel) LoadChats(ctx context.Context) error {
	out, err := vm.api.ListChats(ctx, "", "")
	if err := vm.observe(err); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.setChatsLocked(out)
	vm.mu.Unlock()
	vm.publish(bus.KindChatsLoaded, len(out.Items))
	return nil
}

func (vm *ViewModel) setChatsLocked(out *beeper.ListChatsOutput) {
	vm.chats = out.Items
	vm.chatsHasMore = out.HasMore
	vm.chatsCursor = ""
	if out.OldestCursor != nil {
		vm.chatsCursor = *out.OldestCursor
	}
}

// LoadMoreChats appends the next older page of chats. It returns the number
// of chats added; zero when there is nothing more to load.
func (vm *ViewModel) LoadMoreChats(ctx context.Context) (int, error) {
	vm.mu.RLock()
	cursor, more := vm.chatsCursor, vm.chatsHasMore
	vm.mu.RUnlock()
	if !more || cursor == "" {
		return 0, nil
	}

	out, err := vm.api.ListChats(ctx, cursor, beeper.DirectionBefore)
	if err := vm.observe(err); err != nil {
		return 0, err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	added := 0
	for _, c := range out.Items {
		if !slices.ContainsFunc(vm.chats, func(x beeper.Chat) bool { return x.ID == c.ID }) {
			vm.chats = append(vm.chats, c)
			added++
		}
	}
	vm.chatsHasMore = out.HasMore
	vm.chatsCursor = ""
	if out.OldestCursor != nil {
		vm.chatsCursor = *out.OldestCursor
	}
	return added, nil
}

// OpenChat loads a chat and its latest messages and makes it active.
func (vm *ViewModel) OpenChat(ctx context.Context, chatID string) error {
	var (
		chat *beeper.Chat
		msgs *beeper.ListMessagesOutput
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		chat, err = vm.api.GetChat(gctx, chatID)
		return err
	})
	g.Go(func() error {
		var err error
		msgs, err = vm.api.ListMessages(gctx, chatID, "", "")
		return err
	})
	if err := vm.observe(g.Wait()); err != nil {
		return err
	}

	vm.mu.Lock()
	vm.active = chat
	vm.messages = msgs.Items
	vm.msgsHasMore = msgs.HasMore
	vm.replyTo = ""
	vm.replaceChatLocked(*chat)
	vm.mu.Unlock()
	return nil
}

// RefreshMessages reloads the latest page of the active chat, keeping older
// pages that were already loaded.
func (vm *ViewModel) RefreshMessages(ctx context.Context) error {
	chatID := vm.ActiveChatID()
	if chatID == "" {
		return nil
	}
	out, err := vm.api.ListMessages(ctx, chatID, "", "")
	if err := vm.observe(err); err != nil {
		return err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.active == nil || vm.active.ID != chatID {
		return nil
	}
	merged := slices.Clone(out.Items)
	for _, m := range vm.messages {
		if !slices.ContainsFunc(merged, func(x beeper.Message) bool { return x.ID == m.ID }) {
			merged = append(merged, m)
		}
	}
	vm.messages = merged
	if len(vm.messages) == len(out.Items) {
		vm.msgsHasMore = out.HasMore
	}
	return nil
}

// LoadOlderMessages fetches the page before the oldest loaded message, using
// its sort key as the cursor. It returns how many messages were added.
func (vm *ViewModel) LoadOlderMessages(ctx context.Context) (int, error) {
	vm.mu.RLock()
	if vm.active == nil || !vm.msgsHasMore || len(vm.messages) == 0 {
		vm.mu.RUnlock()
		return 0, nil
	}
	chatID := vm.active.ID
	cursor := vm.messages[len(vm.messages)-1].SortKey
	vm.mu.RUnlock()

	out, err := vm.api.ListMessages(ctx, chatID, cursor, beeper.DirectionBefore)
	if err := vm.observe(err); err != nil {
		return 0, err
	}

	vm.mu.Lock()
	defer vm.mu.Unlock()
	added := 0
	for _, m := range out.Items {
		if !slices.ContainsFunc(vm.messages, func(x beeper.Message) bool { return x.ID == m.ID }) {
			vm.messages = append(vm.messages, m)
			added++
		}
	}
	vm.msgsHasMore = out.HasMore && added > 0
	return added, nil
}

// SetReplyTo marks the message the next Send replies to; empty clears it.
func (vm *ViewModel) SetReplyTo(messageID string) {
	vm.mu.Lock()
	vm.replyTo = messageID
	vm.mu.Unlock()
}

// ReplyTo returns the message the next Send replies to.
func (vm *ViewModel) ReplyTo() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.replyTo
}

// Send sends text to the active chat, as a reply if one is pending.
func (vm *ViewModel) Send(ctx context.Context, text string) (*beeper.SendMessageOutput, error) {
	vm.mu.RLock()
	var chatID string
	if vm.active != nil {
		chatID = vm.active.ID
	}
	in := beeper.SendMessageInput{Text: text}
	if vm.replyTo != "" {
		in.ReplyToID = beeper.String(vm.replyTo)
	}
	vm.mu.RUnlock()

	out, err := vm.api.SendMessage(ctx, chatID, in)
	if err := vm.observe(err); err != nil {
		return nil, err
	}
	vm.SetReplyTo("")
	vm.publish(bus.KindMessageSent, *out)
	return out, nil
}

// Search runs a message search and keeps the result for the search view.
func (vm *ViewModel) Search(ctx context.Context, query string) (*beeper.SearchMessagesOutput, error) {
	out, err := vm.api.SearchMessages(ctx, query, "", "")
	if err := vm.observe(err); err != nil {
		return nil, err
	}
	vm.mu.Lock()
	vm.search = out
	vm.mu.Unlock()
	return out, nil
}

// SearchResults returns the last search result.
func (vm *ViewModel) SearchResults() *beeper.SearchMessagesOutput {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.search
}

// Archive archives or unarchives the active chat.
func (vm *ViewModel) Archive(ctx context.Context, archived bool) error {
	return vm.updateActive(ctx, func(id string) (*beeper.Chat, error) {
		return vm.api.ArchiveChat(ctx, id, archived)
	})
}

// Remind sets a reminder on the active chat.
func (vm *ViewModel) Remind(ctx context.Context, at time.Time) error {
	return vm.updateActive(ctx, func(id string) (*beeper.Chat, error) {
		return vm.api.SetChatReminder(ctx, id, present.ISO(at))
	})
}

// ClearReminder removes the reminder from the active chat.
func (vm *ViewModel) ClearReminder(ctx context.Context) error {
	return vm.updateActive(ctx, func(id string) (*beeper.Chat, error) {
		return vm.api.ClearChatReminder(ctx, id)
	})
}

func (vm *ViewModel) updateActive(_ context.Context, call func(chatID string) (*beeper.Chat, error)) error {
	chat, err := call(vm.ActiveChatID())
	if err := vm.observe(err); err != nil {
		return err
	}
	vm.mu.Lock()
	vm.active = chat
	vm.replaceChatLocked(*chat)
	vm.mu.Unlock()
	return nil
}

func (vm *ViewModel) replaceChatLocked(chat beeper.Chat) {
	if i := slices.IndexFunc(vm.chats, func(c beeper.Chat) bool { return c.ID == chat.ID }); i >= 0 {
		vm.chats[i] = chat
	}
}

// Focus brings Beeper Desktop forward on the active chat, or just focuses it
// when no chat is open. A non-empty draft pre-fills the composer there.
func (vm *ViewModel) Focus(ctx context.Context, draft string) error {
	var in *beeper.FocusAppInput
	if id := vm.ActiveChatID(); id != "" {
		in = &beeper.FocusAppInput{ChatID: beeper.String(id)}
	}
	if draft != "" {
		if in == nil {
			in = &beeper.FocusAppInput{}
		}
		in.Draft = beeper.String(draft)
	}
	_, err := vm.api.FocusApp(ctx, in)
	return vm.observe(err)
}

// SetToken swaps the API token and moves the state machine back to
// Connecting so the next call can clear AuthRequired.
func (vm *ViewModel) SetToken(token string) {
	vm.api.SetToken(token)
	if vm.machine != nil && vm.machine.Current() != status.Connecting {
		_ = vm.machine.Transition(status.Connecting)
	}
}

// CloseChat clears the active chat.
func (vm *ViewModel) CloseChat() {
	vm.mu.Lock()
	vm.active = nil
	vm.messages = nil
	vm.msgsHasMore = false
	vm.replyTo = ""
	vm.mu.Unlock()
}

// Accounts returns the loaded accounts.
func (vm *ViewModel) Accounts() []beeper.Account {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.accounts
}

// Chats returns a snapshot of the current chat list.
func (vm *ViewModel) Chats() []beeper.Chat {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.chats)
}

// HasMoreChats reports whether older chats can be loaded.
func (vm *ViewModel) HasMoreChats() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.chatsHasMore
}

// ActiveChat returns the open chat, or nil.
func (vm *ViewModel) ActiveChat() *beeper.Chat {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.active == nil {
		return nil
	}
	c := *vm.active
	return &c
}

// ActiveChatID returns the ID of the open chat, or "".
func (vm *ViewModel) ActiveChatID() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.active == nil {
		return ""
	}
	return vm.active.ID
}

// Messages returns the loaded messages of the active chat, newest first.
func (vm *ViewModel) Messages() []beeper.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.messages)
}

// HasOlderMessages reports whether the active chat has more history.
func (vm *ViewModel) HasOlderMessages() bool {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.msgsHasMore
}

// UnreadTotal sums unread counts over the loaded chats.
func (vm *ViewModel) UnreadTotal() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	total := 0
	for _, c := range vm.chats {
		total += int(c.UnreadCount)
	}
	return total
}
