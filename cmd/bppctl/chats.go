package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/present"
)

// pageFlags are the cursor flags shared by paginated list commands.
type pageFlags struct {
	cursor    string
	direction string
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.cursor, "cursor", "", "page cursor from a previous result")
	cmd.Flags().StringVar(&p.direction, "direction", "", "read before or after the cursor")
}

func (p *pageFlags) dir() (beeper.Direction, error) {
	switch d := beeper.Direction(p.direction); d {
	case "", beeper.DirectionBefore, beeper.DirectionAfter:
		return d, nil
	default:
		return "", fmt.Errorf("invalid --direction %q: want before or after", p.direction)
	}
}

func newChatsCmd(o *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chats",
		Aliases: []string{"chat"},
		Short:   "List, inspect and manage chats",
	}
	cmd.AddCommand(
		newChatsListCmd(o),
		newChatsGetCmd(o),
		newChatsCreateCmd(o),
		newChatsArchiveCmd(o, true),
		newChatsArchiveCmd(o, false),
		newChatsRemindCmd(o),
		newChatsUnremindCmd(o),
		newChatsSearchCmd(o),
	)
	return cmd
}

func newChatsListCmd(o *rootOptions) *cobra.Command {
	var (
		page   pageFlags
		filter string
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chats, most recent first",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, e *env, _ []string) error {
			dir, err := page.dir()
			if err != nil {
				return err
			}
			var out *beeper.ListChatsOutput
			if all {
				out, err = listAllChats(ctx, e, page.cursor)
			} else {
				out, err = e.client.ListChats(ctx, page.cursor, dir)
			}
			if err != nil {
				return err
			}
			out.Items = present.FilterChats(out.Items, filter)
			return e.out.emit(out, func() error {
				if err := printChats(e.out, out.Items); err != nil {
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
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "fuzzy filter on chat name and network")
	cmd.Flags().BoolVar(&all, "all", false, "follow older pages until the end of the list")
	return cmd
}

// listAllChats walks older pages from cursor until the server reports no
// more. Pages are fetched one at a time and a failure aborts the walk.
func listAllChats(ctx context.Context, e *env, cursor string) (*beeper.ListChatsOutput, error) {
	dir := beeper.Direction("")
	if cursor != "" {
		dir = beeper.DirectionBefore
	}
	all := &beeper.ListChatsOutput{}
	seen := make(map[string]bool)
	for pages := 1; ; pages++ {
		page, err := e.client.ListChats(ctx, cursor, dir)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pages, err)
		}
		for _, c := range page.Items {
			if !seen[c.ID] {
				seen[c.ID] = true
				all.Items = append(all.Items, c)
			}
		}
		if all.NewestCursor == nil {
			all.NewestCursor = page.NewestCursor
		}
		all.OldestCursor = page.OldestCursor
		if !page.HasMore || page.OldestCursor == nil || *page.OldestCursor == cursor {
			e.logger.Debug("listed all chats", zap.Int("pages", pages), zap.Int("chats", len(all.Items)))
			return all, nil
		}
		cursor, dir = *page.OldestCursor, beeper.DirectionBefore
	}
}

func printChats(p *printer, chats []beeper.Chat) error {
	now := time.Now()
	rows := make([][]string, 0, len(chats))
	for i := range chats {
		c := &chats[i]
		unread := ""
		if c.UnreadCount > 0 {
			unread = strconv.FormatUint(uint64(c.UnreadCount), 10)
		}
		rows = append(rows, []string{
			c.ID, c.DisplayName(), c.Network, unread, present.Flags(c), present.ChatTime(c, now),
		})
	}
	return p.table([]string{"ID", "NAME", "NETWORK", "UNREAD", "FLAGS", "LAST"}, rows)
}

func printChat(p *printer, c *beeper.Chat) error {
	names := make([]string, 0, len(c.Participants.Items))
	for i := range c.Participants.Items {
		names = append(names, userName(&c.Participants.Items[i]))
	}
	participants := strings.Join(names, ", ")
	if c.Participants.HasMore {
		participants += fmt.Sprintf(" (+%d more)", int(c.Participants.Total)-len(names))
	}
	var last string
	if t, ok := c.LastActivityTime(); ok {
		last = t.Local().Format(time.DateTime)
	}
	return p.fields(
		[2]string{"ID", c.ID},
		[2]string{"Name", c.DisplayName()},
		[2]string{"Type", string(c.Type)},
		[2]string{"Network", c.Network},
		[2]string{"Account", c.AccountID},
		[2]string{"Participants", participants},
		[2]string{"Unread", strconv.FormatUint(uint64(c.UnreadCount), 10)},
		[2]string{"Flags", present.Flags(c)},
		[2]string{"Last activity", last},
		[2]string{"Preview", present.Preview(c)},
	)
}

func newChatsGetCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <chat-id>",
		Short: "Show one chat",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, e *env, args []string) error {
			chat, err := e.client.GetChat(ctx, args[0])
			if err != nil {
				return err
			}
			return e.out.emit(chat, func() error { return printChat(e.out, chat) })
		}),
	}
}

func newChatsCreateCmd(o *rootOptions) *cobra.Command {
	var (
		in    beeper.CreateChatInput
		title string
	)
	cmd := &cobra.Command{
		Use:   "create --account <id> --participant <id>...",
		Short: "Start a new chat",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, e *env, _ []string) error {
			if title != "" {
				in.Title = beeper.String(title)
			}
			out, err := e.client.CreateChat(ctx, in)
			if err != nil {
				return err
			}
			return e.out.emit(out, func() error { return e.out.line("Created chat %s", out.ChatID) })
		}),
	}
	cmd.Flags().StringVar(&in.AccountID, "account", "", "account to create the chat on")
	cmd.Flags().StringSliceVar(&in.ParticipantIDs, "participant", nil, "participant user ID (repeatable)")
	cmd.Flags().StringVar(&title, "title", "", "group title")
	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("participant")
	return cmd
}

func newChatsArchiveCmd(o *rootOptions, archived bool) *cobra.Command {
	use, short, verb := "archive", "Archive a chat", "Archived"
	if !archived {
		use, short, verb = "unarchive", "Move a chat back to the inbox", "Unarchived"
	}
	return &cobra.Command{
		Use:   use + " <chat-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, e *env, args []string) error {
			chat, err := e.client.ArchiveChat(ctx, args[0], archived)
			if err != nil {
				return err
			}
			return e.out.emit(chat, func() error { return e.out.line("%s %s", verb, chat.DisplayName()) })
		}),
	}
}

func newChatsRemindCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remind <chat-id> <when>",
		Short: "Set a reminder on a chat",
		Long: "Set a reminder on a chat. <when> is an RFC 3339 timestamp, " +
			"a duration such as 90m or 2h30m, or a number of days such as 3d.",
		Args: cobra.ExactArgs(2),
		RunE: o.run(func(ctx context.Context, e *env, args []string) error {
			at, err := present.ParseWhen(args[1], time.Now())
			if err != nil {
				return err
			}
			chat, err := e.client.SetChatReminder(ctx, args[0], present.ISO(at))
			if err != nil {
				return err
			}
			return e.out.emit(chat, func() error {
				return e.out.line("Reminder for %s set at %s", chat.DisplayName(), at.Local().Format(time.DateTime))
			})
		}),
	}
}

func newChatsUnremindCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unremind <chat-id>",
		Short: "Clear a chat's reminder",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, e *env, args []string) error {
			chat, err := e.client.ClearChatReminder(ctx, args[0])
			if err != nil {
				return err
			}
			return e.out.emit(chat, func() error { return e.out.line("Reminder cleared for %s", chat.DisplayName()) })
		}),
	}
}

func newChatsSearchCmd(o *rootOptions) *cobra.Command {
	var page pageFlags
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search chats by name and participants",
		Args:  cobra.MinimumNArgs(1),
		RunE: o.run(func(ctx context.Context, e *env, args []string) error {
			dir, err := page.dir()
			if err != nil {
				return err
			}
			out, err := e.client.SearchChats(ctx, strings.Join(args, " "), page.cursor, dir)
			if err != nil {
				return err
			}
			return e.out.emit(out, func() error {
				if err := printChats(e.out, out.Items); err != nil {
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
