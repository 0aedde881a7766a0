package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/matheus3301/bpp/internal/present"
)

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	if target, ok := commandAliases[cmd.Name]; ok {
		cmd.Name = target
	}
	return cmd
}

var errNoChat = errors.New("no chat open")

var commandAliases = map[string]string{
	"q":  "quit",
	"q!": "quit",
	"h":  "help",
	"c":  "chat",
	"r":  "reply",
}

type commandFunc func(a *App, args string) error

var commands = map[string]commandFunc{
	"search":    (*App).cmdSearch,
	"chat":      (*App).cmdChat,
	"reply":     (*App).cmdReply,
	"archive":   func(a *App, _ string) error { return a.cmdArchive(true) },
	"unarchive": func(a *App, _ string) error { return a.cmdArchive(false) },
	"remind":    (*App).cmdRemind,
	"unremind":  func(a *App, _ string) error { return a.cmdUnremind() },
	"focus":     func(a *App, args string) error { a.focusDesktop(args); return nil },
	"token":     (*App).cmdToken,
	"reload":    func(a *App, _ string) error { a.reload(); return nil },
	"help":      func(a *App, _ string) error { a.show(pageHelp); return nil },
	"quit":      func(a *App, _ string) error { a.Stop(); return nil },
}

// execute runs a command line typed after ':'. Errors are about the input;
// failures of the API call itself are flashed when it completes.
func (a *App) execute(input string) error {
	cmd := ParseCommand(input)
	if cmd.Name == "" {
		return nil
	}
	fn, ok := commands[cmd.Name]
	if !ok {
		return fmt.Errorf("unknown command %q", cmd.Name)
	}
	return fn(a, cmd.Args)
}

func (a *App) cmdSearch(query string) error {
	a.pages.Open(pageSearch)
	if query == "" {
		a.app.SetFocus(a.searchV.Input())
		return nil
	}
	a.search(query)
	return nil
}

func (a *App) cmdChat(name string) error {
	if name == "" {
		return errors.New("usage: chat <name>")
	}
	chat, ok := present.FindChat(a.vm.Chats(), name)
	if !ok {
		return fmt.Errorf("no chat matches %q", name)
	}
	a.openChat(chat.ID)
	return nil
}

func (a *App) cmdReply(args string) error {
	if a.vm.ActiveChatID() == "" {
		return errNoChat
	}
	n := 1
	if args != "" {
		var err error
		if n, err = strconv.Atoi(args); err != nil || n < 1 {
			return fmt.Errorf("usage: reply <n>, where 1 is the newest message")
		}
	}
	m := a.thread.MessageByIndex(n)
	if m == nil {
		return fmt.Errorf("no message #%d loaded", n)
	}
	a.startReply(m.ID)
	return nil
}

func (a *App) cmdArchive(archived bool) error {
	chat := a.vm.ActiveChat()
	if chat == nil {
		return errNoChat
	}
	verb := "Archived"
	if !archived {
		verb = "Unarchived"
	}
	a.background(strings.ToLower(verb[:len(verb)-1]), func(ctx context.Context) error {
		return a.vm.Archive(ctx, archived)
	}, func() {
		a.renderThread()
		a.renderChats()
		a.flash.Info(verb + " " + chat.DisplayName())
	})
	return nil
}

func (a *App) cmdRemind(args string) error {
	chat := a.vm.ActiveChat()
	if chat == nil {
		return errNoChat
	}
	at, err := present.ParseWhen(args, time.Now())
	if err != nil {
		return err
	}
	a.background("remind", func(ctx context.Context) error {
		return a.vm.Remind(ctx, at)
	}, func() {
		a.flash.Info(fmt.Sprintf("Reminder for %s set at %s", chat.DisplayName(), at.Local().Format("Mon 15:04")))
	})
	return nil
}

func (a *App) cmdUnremind() error {
	chat := a.vm.ActiveChat()
	if chat == nil {
		return errNoChat
	}
	a.background("unremind", a.vm.ClearReminder, func() {
		a.flash.Info("Reminder cleared for " + chat.DisplayName())
	})
	return nil
}

func (a *App) cmdToken(token string) error {
	if token == "" {
		return errors.New("usage: token <value>")
	}
	a.vm.SetToken(token)
	a.reload()
	return nil
}
