package main

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/present"
)

func newFocusCmd(o *rootOptions) *cobra.Command {
	var chatID, messageID, draft string
	cmd := &cobra.Command{
		Use:   "focus",
		Short: "Bring Beeper Desktop to the front, optionally on a chat",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, e *env, _ []string) error {
			if messageID != "" && chatID == "" {
				return errors.New("--message needs --chat")
			}
			in := &beeper.FocusAppInput{}
			if chatID != "" {
				in.ChatID = beeper.String(chatID)
			}
			if messageID != "" {
				in.MessageID = beeper.String(messageID)
			}
			if draft != "" {
				in.Draft = beeper.String(draft)
			}
			out, err := e.client.FocusApp(ctx, in)
			if err != nil {
				return err
			}
			return e.out.emit(out, func() error {
				if !out.Success {
					return e.out.line("Beeper Desktop did not take focus")
				}
				return e.out.line("Focused Beeper Desktop")
			})
		}),
	}
	cmd.Flags().StringVar(&chatID, "chat", "", "chat to open")
	cmd.Flags().StringVar(&messageID, "message", "", "message to jump to (needs --chat)")
	cmd.Flags().StringVar(&draft, "draft", "", "text to put in the composer")
	return cmd
}

// download is the result of the download command.
type download struct {
	LocalURL string `json:"localURL"`
	Path     string `json:"path,omitempty"`
	MIMEType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

func newDownloadCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "download <asset-url>",
		Short: "Have Beeper Desktop fetch an attachment to local disk",
		Args:  cobra.ExactArgs(1),
		RunE: o.run(func(ctx context.Context, e *env, args []string) error {
			out, err := e.client.DownloadAsset(ctx, args[0])
			if err != nil {
				return err
			}
			d := inspectDownload(e.logger, out.LocalURL)
			return e.out.emit(d, func() error {
				size := ""
				if d.Size > 0 {
					size = present.Size(uint64(d.Size))
				}
				return e.out.fields(
					[2]string{"URL", d.LocalURL},
					[2]string{"Path", d.Path},
					[2]string{"Type", d.MIMEType},
					[2]string{"Size", size},
				)
			})
		}),
	}
}

// inspectDownload sniffs the file behind a file:// URL. The file only exists
// when Beeper Desktop runs on this machine, so failures just leave the
// details empty.
func inspectDownload(logger *zap.Logger, localURL string) download {
	d := download{LocalURL: localURL}
	u, err := url.Parse(localURL)
	if err != nil || u.Scheme != "file" {
		return d
	}
	d.Path = u.Path
	mt, err := mimetype.DetectFile(d.Path)
	if err != nil {
		logger.Debug("cannot inspect downloaded file", zap.String("path", d.Path), zap.Error(err))
		return d
	}
	d.MIMEType = mt.String()
	if info, err := os.Stat(d.Path); err == nil {
		d.Size = info.Size()
	}
	return d
}

// overview summarizes the session in one call of each list endpoint.
type overview struct {
	Profile  string   `json:"profile"`
	BaseURL  string   `json:"baseURL"`
	Accounts int      `json:"accounts"`
	Networks []string `json:"networks"`
	Chats    int      `json:"chats"`
	Unread   int      `json:"unreadChats"`
	Messages uint64   `json:"unreadMessages"`
	HasMore  bool     `json:"hasMoreChats"`
}

func newOverviewCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Summarize accounts and the first page of chats",
		Args:  cobra.NoArgs,
		RunE: o.run(func(ctx context.Context, e *env, _ []string) error {
			var (
				accounts beeper.GetAccountsOutput
				chats    *beeper.ListChatsOutput
			)
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				accounts, err = e.client.GetAccounts(gctx)
				return err
			})
			g.Go(func() (err error) {
				chats, err = e.client.ListChats(gctx, "", "")
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			ov := overview{
				Profile:  e.session.Name,
				BaseURL:  e.client.BaseURL(),
				Accounts: len(accounts),
				Networks: []string{},
				Chats:    len(chats.Items),
				HasMore:  chats.HasMore,
			}
			for _, a := range accounts {
				ov.Networks = append(ov.Networks, a.Network)
			}
			for _, c := range chats.Items {
				if c.UnreadCount > 0 {
					ov.Unread++
					ov.Messages += uint64(c.UnreadCount)
				}
			}
			return e.out.emit(ov, func() error {
				chatCount := strconv.Itoa(ov.Chats)
				if ov.HasMore {
					chatCount += "+"
				}
				return e.out.fields(
					[2]string{"Profile", ov.Profile},
					[2]string{"API", ov.BaseURL},
					[2]string{"Accounts", strconv.Itoa(ov.Accounts)},
					[2]string{"Networks", strings.Join(ov.Networks, ", ")},
					[2]string{"Chats", chatCount},
					[2]string{"Unread", strconv.Itoa(ov.Unread) + " chats, " + strconv.FormatUint(ov.Messages, 10) + " messages"},
				)
			})
		}),
	}
}
