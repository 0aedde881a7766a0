package main

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/present"
)

func newMessagesCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages",
		Aliases: []string{"msg"},
		Short:   "Read, send and search messages",
	}
	cmd.AddCommand(newMessagesListCmd(o), newMessagesSendCmd(o), newMessagesSearchCmd(o))
	return cmd
}

func newMessagesListCmd(o *rootOptions) *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:   "list <chat-id>",
		Short: "List a chat's messages, newest first",
		Long: "List a chat's messages, newest first. To page back, pass the sort key " +
			"of the oldest message shown as --cursor with --direction before.",
		Args: cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, e *env, args []string) error {
			dir, err := page.dir()
			if err != nil {
				return err
			}
			out, err := e.client.ListMessages(ctx, args[0], page.cursor, dir)
			if err != nil {
				return err
			}
			return e.out.emit(out, func() error {
				if err := printMessages(e.out, out.Items, nil); err != nil {
					return err
				}
				if out.HasMore && len(out.Items) > 0 {
					return e.out.note("more: --cursor %s --direction before", out.Items[len(out.Items)-1].SortKey)
				}
				return nil
			})
		}),
	}
	page.register(cmd)
	return cmd
}

// printMessages renders messages as a table. When chats is set a CHAT column
// names each message's chat.
func printMessages(p *printer, msgs []beeper.Message, chats map[string]beeper.Chat) error {
	now := time.Now()
	headers := []string{"ID", "TIME", "FROM", "MESSAGE"}
	if chats != nil {
		headers = []string{"ID", "CHAT", "TIME", "FROM", "MESSAGE"}
	}
	rows := make([][]string, 0, len(msgs))
	for i := range msgs {
		m := &msgs[i]
		body := strings.ReplaceAll(present.Body(m), "\n", " ")
		if m.IsEdited != nil && *m.IsEdited {
			body += " (edited)"
		}
		if len(m.Reactions) > 0 {
			body += "  " + present.Reactions(m.Reactions)
		}
		row := []string{m.ID, present.MessageTime(m, now), present.Sender(m), body}
		if chats != nil {
			name := m.ChatID
			if c, ok := chats[m.ChatID]; ok {
				name = c.DisplayName()
			}
			row = slices.Insert(row, 1, name)
		}
		rows = append(rows, row)
	}
	return p.table(headers, rows)
}

func newMessagesSendCmd(o *rootOptions) *cobra.Command {
	var replyTo string
	cmd := &cobra.Command{
		Use:   "send <chat-id> <text>...",
		Short: "Send a text message",
		Args:  cobra.MinimumNArgs(2),
		RunE: o.run(func(ctx context.Context, e *env, args []string) error {
			in := beeper.SendMessageInput{Text: strings.Join(args[1:], " ")}
			if replyTo != "" {
				in.ReplyToID = beeper.String(replyTo)
			}
			out, err := e.client.SendMessage(ctx, args[0], in)
			if err != nil {
				return err
			}
			return e.out.emit(out, func() error { return e.out.line("Sent (pending %s)", out.PendingMessageID) })
		}),
	}
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "ID of the message to reply to")
	return cmd
}

func newMessagesSearchCmd(o *rootOptions) *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search messages across all chats",
		Args:  cobra.MinimumNArgs(1),
		RunE: o.run(func(ctx context.Context, e *env, args []string) error {
			dir, err := page.dir()
			if err != nil {
				return err
			}
			out, err := e.client.SearchMessages(ctx, strings.Join(args, " "), page.cursor, dir)
			if err != nil {
				return err
			}
			return e.out.emit(out, func() error {
				chats := out.Chats
				if chats == nil {
					chats = map[string]beeper.Chat{}
				}
				if err := printMessages(e.out, out.Items, chats); err != nil {
					return err
				}
				if out.HasMore && out.OldestCursor != nil {
					return e.out.note("more: --cursor %s --direction before", *out.OldestCursor)
				}
				return nil
			})
		}),
	}
	page.register(cmd)
	return cmd
}
