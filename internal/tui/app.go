package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/bus"
	"github.com/matheus3301/bpp/internal/status"
	"github.com/matheus3301/bpp/internal/tui/keys"
	"github.com/matheus3301/bpp/internal/tui/model"
	"github.com/matheus3301/bpp/internal/tui/ui"
	"github.com/matheus3301/bpp/internal/tui/views"
)

// Page names.
const (
	pageConversations = "conversations"
	pageThread        = "thread"
	pageSearch        = "search"
	pageDetails       = "details"
	pageConnection    = "connection"
	pageHelp          = "help"
)

const headerRows = 7

// DefaultRefreshInterval is how often the chat list is reloaded when
// Options.RefreshInterval is unset.
const DefaultRefreshInterval = 30 * time.Second

// Options configures the TUI.
type Options struct {
	Profile         string
	BaseURL         string
	RefreshInterval time.Duration
}

// App is the main TUI application shell.
type App struct {
	app     *tview.Application
	root    *tview.Flex
	pages   *ui.Pages
	theme   *ui.Theme
	vm      *model.ViewModel
	machine *status.Machine
	bus     *bus.Bus
	logger  *zap.Logger
	opts    Options

	registry    *keys.Registry
	profileInfo *ui.ProfileInfo
	menu        *ui.Menu
	logo        *ui.Logo
	crumbs      *ui.Crumbs
	prompt      *ui.Prompt
	flash       *ui.FlashModel
	flashBar    *ui.FlashBar

	chatList   *views.ConversationList
	thread     *views.MessageThread
	searchV    *views.SearchView
	details    *views.ConversationInfo
	connection *views.ConnectionView
	help       *views.HelpView
	components map[string]ui.Component

	lastRefresh time.Time

	// spawn runs blocking work off the UI goroutine; queue hands results
	// back to it. Tests replace both with direct calls.
	spawn func(func())
	queue func(func())

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(vm *model.ViewModel, m *status.Machine, b *bus.Bus, logger *zap.Logger, opts Options) *App {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	theme := ui.DefaultTheme()

	a := &App{
		app:         tview.NewApplication(),
		pages:       ui.NewPages(),
		theme:       theme,
		vm:          vm,
		machine:     m,
		bus:         b,
		logger:      logger.Named("tui"),
		opts:        opts,
		registry:    keys.NewRegistry(),
		profileInfo: ui.NewProfileInfo(theme),
		menu:        ui.NewMenu(theme, headerRows-1),
		logo:        ui.NewLogo(theme),
		crumbs:      ui.NewCrumbs(theme),
		prompt:      ui.NewPrompt(theme),
		flash:       ui.NewFlashModel(),
		flashBar:    ui.NewFlashBar(theme),
		chatList:    views.NewConversationList(theme),
		thread:      views.NewMessageThread(theme),
		searchV:     views.NewSearchView(theme),
		details:     views.NewConversationInfo(theme),
		connection:  views.NewConnectionView(theme),
		help:        views.NewHelpView(theme),
		ctx:         ctx,
		cancel:      cancel,
	}
	a.spawn = func(f func()) { go f() }
	a.queue = func(f func()) { a.app.QueueUpdateDraw(f) }

	a.components = map[string]ui.Component{
		pageConversations: a.chatList,
		pageThread:        a.thread,
		pageSearch:        a.searchV,
		pageDetails:       a.details,
		pageConnection:    a.connection,
		pageHelp:          a.help,
	}

	a.setupLayout()
	a.setupBindings()
	a.setupCallbacks()
	a.pages.Reset(pageConversations)
	a.refreshChrome()

	return a
}

func (a *App) setupLayout() {
	a.pages.AddPage(pageConversations, a.chatList, true, false)
	a.pages.AddPage(pageThread, a.thread, true, false)
	a.pages.AddPage(pageSearch, a.searchV, true, false)
	a.pages.AddPage(pageDetails, a.details, true, false)
	a.pages.AddPage(pageConnection, a.connection, true, false)
	a.pages.AddPage(pageHelp, a.help, true, false)

	header := tview.NewFlex().
		AddItem(a.profileInfo, 0, 2, false).
		AddItem(a.menu, 0, 3, false).
		AddItem(a.logo, 24, 0, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, headerRows, 0, false).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.flashBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(a.handleKey)
}

func (a *App) setupBindings() {
	a.registry.AddGlobal(keys.Rune('q', func() {
		if a.pages.Depth() > 1 {
			a.back()
			return
		}
		a.Stop()
	}))
	a.registry.AddGlobal(keys.Rune('?', func() { a.show(pageHelp) }))
	a.registry.AddGlobal(keys.Rune(':', func() { a.activatePrompt(ui.PromptCommand, "") }))
	a.registry.AddGlobal(keys.Rune('/', func() {
		a.pages.PopTo(pageConversations)
		a.activatePrompt(ui.PromptFilter, "")
	}))
	a.registry.AddGlobal(&keys.Action{Key: tcell.KeyCtrlR, Handler: a.reload})

	a.registry.AddView(pageConversations, keys.Rune('s', func() {
		a.flash.Info("Sorted by " + a.chatList.CycleSort().String())
	}))
	a.registry.AddView(pageConversations, keys.Rune('m', a.loadMoreChats))
	a.registry.AddView(pageConversations, keys.Rune('f', func() { a.focusDesktop("") }))
	a.registry.AddView(pageConversations, keys.Rune('0', a.chatList.ClearFilter))
	for n := 1; n <= 9; n++ {
		a.registry.AddView(pageConversations, keys.Rune(rune('0'+n), func() {
			if id := a.chatList.ChatByIndex(n); id != "" {
				a.openChat(id)
			}
		}))
	}

	a.registry.AddView(pageThread, keys.Rune('i', func() { a.app.SetFocus(a.thread.Composer()) }))
	a.registry.AddView(pageThread, keys.Rune('j', func() { a.thread.Select(1) }))
	a.registry.AddView(pageThread, keys.Rune('k', func() { a.thread.Select(-1) }))
	a.registry.AddView(pageThread, keys.Rune('r', a.replyToSelected))
	a.registry.AddView(pageThread, keys.Rune('o', a.loadOlderMessages))
	a.registry.AddView(pageThread, keys.Rune('f', func() { a.focusDesktop("") }))
	a.registry.AddView(pageThread, keys.Rune('d', func() {
		a.details.Update(a.vm.ActiveChat())
		a.show(pageDetails)
	}))
}

func (a *App) setupCallbacks() {
	a.pages.SetOnChange(func([]string) { a.refreshChrome() })

	a.chatList.SetSelectedFunc(func(int, int) {
		if id := a.chatList.SelectedChat(); id != "" {
			a.openChat(id)
		}
	})

	a.thread.SetOnSend(a.send)

	a.searchV.SetOnQuery(a.search)
	a.searchV.Results().SetSelectedFunc(func(int, int) {
		if chatID, _ := a.searchV.SelectedResult(); chatID != "" {
			a.openChat(chatID)
		}
	})

	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptFilter {
			a.chatList.SetFilter(text)
		}
	})
	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand {
			if err := a.execute(text); err != nil {
				a.flash.Err(err)
			}
		}
	})
	a.prompt.SetOnCancel(func() {
		if a.prompt.Mode() == ui.PromptFilter {
			a.chatList.ClearFilter()
		}
		a.hidePrompt()
	})
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	focused := a.app.GetFocus()

	switch {
	case focused == a.prompt:
		return event
	case focused == a.thread.Composer():
		if event.Key() == tcell.KeyEscape {
			a.vm.SetReplyTo("")
			a.thread.SetReplyTo("")
			a.app.SetFocus(a.thread.Messages())
			return nil
		}
		return event
	case focused == a.searchV.Input():
		switch event.Key() {
		case tcell.KeyEscape:
			a.back()
			return nil
		case tcell.KeyTab:
			a.app.SetFocus(a.searchV.Results())
			return nil
		}
		return event
	}
	if _, ok := focused.(*tview.InputField); ok {
		return event
	}

	if event.Key() == tcell.KeyEscape {
		switch {
		case a.pages.Depth() > 1:
			a.back()
		case a.chatList.Filter() != "":
			a.chatList.ClearFilter()
		case a.thread.SelectedMessage() != nil:
			a.thread.ClearSelection()
		}
		return nil
	}

	if a.registry.HandleEvent(a.pages.Current(), event) {
		return nil
	}
	return event
}

// background runs work off the UI goroutine and applies done on it when work
// succeeds. Failures are flashed.
func (a *App) background(label string, work func(ctx context.Context) error, done func()) {
	a.spawn(func() {
		err := work(a.ctx)
		a.queue(func() {
			if err != nil {
				a.logger.Debug("action failed", zap.String("action", label), zap.Error(err))
				a.flash.Err(fmt.Errorf("%s: %w", label, err))
			} else if done != nil {
				done()
			}
			a.refreshChrome()
		})
	})
}

func (a *App) reload() {
	a.background("reload", a.vm.LoadOverview, a.renderChats)
}

func (a *App) loadMoreChats() {
	var added int
	a.background("load more", func(ctx context.Context) error {
		var err error
		added, err = a.vm.LoadMoreChats(ctx)
		return err
	}, func() {
		a.renderChats()
		if added == 0 {
			a.flash.Info("No more conversations")
		}
	})
}

func (a *App) openChat(chatID string) {
	a.background("open chat", func(ctx context.Context) error {
		return a.vm.OpenChat(ctx, chatID)
	}, func() {
		a.renderThread()
		a.renderChats()
		a.pages.Open(pageThread)
		a.focusCurrent()
	})
}

func (a *App) loadOlderMessages() {
	var added int
	a.background("load older", func(ctx context.Context) error {
		var err error
		added, err = a.vm.LoadOlderMessages(ctx)
		return err
	}, func() {
		a.renderThread()
		if added == 0 {
			a.flash.Info("No older messages")
		}
	})
}

func (a *App) send(text string) {
	a.background("send", func(ctx context.Context) error {
		if _, err := a.vm.Send(ctx, text); err != nil {
			return err
		}
		return a.vm.RefreshMessages(ctx)
	}, func() {
		a.thread.SetReplyTo("")
		a.renderThread()
	})
}

func (a *App) search(query string) {
	a.background("search", func(ctx context.Context) error {
		_, err := a.vm.Search(ctx, query)
		return err
	}, func() {
		a.searchV.SetQuery(query)
		a.searchV.Update(a.vm.SearchResults())
		a.searchV.Results().Select(1, 0)
		if a.pages.Current() == pageSearch {
			a.app.SetFocus(a.searchV.Results())
		}
	})
}

func (a *App) focusDesktop(draft string) {
	a.background("focus", func(ctx context.Context) error {
		return a.vm.Focus(ctx, draft)
	}, func() { a.flash.Info("Beeper Desktop focused") })
}

func (a *App) replyToSelected() {
	m := a.thread.SelectedMessage()
	if m == nil {
		a.flash.Warn("Select a message with j/k first")
		return
	}
	a.startReply(m.ID)
}

func (a *App) startReply(messageID string) {
	a.vm.SetReplyTo(messageID)
	a.thread.SetReplyTo(messageID)
	a.app.SetFocus(a.thread.Composer())
}

// refresh reloads the chat list and the open thread. It runs on the refresh
// goroutine.
func (a *App) refresh(ctx context.Context) {
	if a.machine.Current() == status.AuthRequired {
		return
	}
	err := a.vm.LoadChats(ctx)
	if err == nil && a.vm.ActiveChatID() != "" {
		err = a.vm.RefreshMessages(ctx)
	}
	if err != nil {
		a.logger.Debug("refresh failed", zap.Error(err))
	}
	a.queue(func() {
		a.renderChats()
		if a.vm.ActiveChatID() != "" {
			a.renderThread()
		}
		a.flashBar.Update(a.flash.Current())
		a.refreshChrome()
	})
}

func (a *App) handleEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindAPIStatusChanged:
		if change, ok := evt.Payload.(status.StatusChange); ok {
			a.handleStatus(change)
		}
	case bus.KindChatsLoaded:
		a.lastRefresh = evt.Timestamp
		a.refreshChrome()
	case bus.KindMessageSent:
		if out, ok := evt.Payload.(beeper.SendMessageOutput); ok {
			a.logger.Debug("message sent", zap.String("chat_id", out.ChatID), zap.String("pending_id", out.PendingMessageID))
		}
		a.flash.Info("Message sent")
	}
}

func (a *App) handleStatus(change status.StatusChange) {
	a.logger.Info("api status changed",
		zap.String("from", string(change.From)),
		zap.String("to", string(change.To)),
		zap.Error(change.Err),
	)
	switch change.To {
	case status.Unreachable, status.AuthRequired:
		a.connection.Update(change.To, a.opts.BaseURL, change.Err)
		a.pages.Open(pageConnection)
		a.focusCurrent()
	case status.Connecting:
		a.connection.Update(change.To, a.opts.BaseURL, nil)
	case status.Ready:
		if a.pages.Current() == pageConnection {
			a.pages.Pop()
			a.focusCurrent()
			a.reload()
		}
	case status.Degraded:
		if change.Err != nil {
			a.flash.Err(change.Err)
		}
	}
	a.refreshChrome()
}

func (a *App) renderChats() {
	a.chatList.Update(a.vm.Chats(), a.vm.HasMoreChats())
}

func (a *App) renderThread() {
	chat := a.vm.ActiveChat()
	if chat == nil {
		return
	}
	a.thread.SetChat(chat.ID, chat.DisplayName())
	a.thread.Update(a.vm.Messages(), a.vm.HasOlderMessages())
	a.thread.SetReplyTo(a.vm.ReplyTo())
	if a.pages.Current() == pageDetails {
		a.details.Update(chat)
	}
}

func (a *App) refreshChrome() {
	a.profileInfo.Update(&ui.ProfileData{
		Profile:     a.opts.Profile,
		BaseURL:     a.opts.BaseURL,
		Status:      a.machine.Current(),
		Accounts:    len(a.vm.Accounts()),
		Chats:       len(a.vm.Chats()),
		Unread:      a.vm.UnreadTotal(),
		LastRefresh: a.lastRefresh,
	}, time.Now())
	a.logo.SetState(a.machine.Current())
	if a.pages.Current() == pageConnection && a.machine.Current() != status.Ready {
		// Repeated failures in the same state publish nothing; show the latest.
		a.connection.Update(a.machine.Current(), a.opts.BaseURL, a.machine.LastError())
	}
	if c, ok := a.components[a.pages.Current()]; ok {
		a.menu.Update(c.Hints())
	}
	a.crumbs.Update(a.pages.Stack(), a.pageLabel)
}

func (a *App) show(page string) {
	a.pages.Open(page)
	a.focusCurrent()
}

func (a *App) back() {
	if a.pages.Current() == pageThread {
		a.vm.CloseChat()
	}
	a.pages.Pop()
	a.focusCurrent()
}

func (a *App) focusCurrent() {
	if c, ok := a.components[a.pages.Current()]; ok {
		a.app.SetFocus(c.FocusTarget())
		return
	}
	a.app.SetFocus(a.chatList)
}

func (a *App) pageLabel(page string) string {
	if c, ok := a.components[page]; ok {
		return c.Name()
	}
	return page
}

func (a *App) activatePrompt(mode ui.PromptMode, title string) {
	a.prompt.Activate(mode, title)
	a.root.ResizeItem(a.prompt, 3, 0)
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.focusCurrent()
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	events, unsubscribe := a.bus.Subscribe("", 32)
	defer unsubscribe()
	defer func() {
		if n := a.bus.Dropped(); n > 0 {
			a.logger.Warn("ui missed events", zap.Uint64("dropped", n))
		}
	}()

	go func() {
		for {
			select {
			case evt := <-events:
				a.queue(func() { a.handleEvent(evt) })
			case msg := <-a.flash.Watch():
				a.queue(func() { a.flashBar.Update(&msg) })
			case <-a.ctx.Done():
				return
			}
		}
	}()

	a.reload()
	a.startRefreshLoop()

	return a.app.Run()
}

func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(a.opts.RefreshInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.refresh(a.ctx)
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.app.Stop()
}
