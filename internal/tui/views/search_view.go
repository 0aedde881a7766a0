package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/matheus3301/bpp/beeper"
	"github.com/matheus3301/bpp/internal/present"
	"github.com/matheus3301/bpp/internal/tui/ui"
)

// SearchView provides message search functionality.
type SearchView struct {
	*tview.Flex
	theme   *ui.Theme
	input   *tview.InputField
	results *tview.Table
	onQuery func(query string)
	data    []beeper.Message
	now     func() time.Time
}

// NewSearchView creates a new search view.
func NewSearchView(theme *ui.Theme) *SearchView {
	input := tview.NewInputField().
		SetLabel(" Search: ").
		SetFieldWidth(0)
	input.SetBorderColor(theme.BorderColor)
	input.SetBackgroundColor(theme.BgColor)
	input.SetFieldBackgroundColor(theme.BgColor)
	input.SetFieldTextColor(theme.FgColor)
	input.SetLabelColor(theme.MenuKeyColor)

	results := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	results.SetBorder(true)
	results.SetBorderColor(theme.BorderColor)
	results.SetBackgroundColor(theme.BgColor)
	results.SetTitle(" Results ")
	results.SetTitleColor(theme.TitleColor)
	results.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(input, 1, 0, true).
		AddItem(results, 0, 1, false)

	sv := &SearchView{
		Flex:    flex,
		theme:   theme,
		input:   input,
		results: results,
		now:     time.Now,
	}
	input.SetDoneFunc(func(key tcell.Key) {
		q := strings.TrimSpace(input.GetText())
		if key == tcell.KeyEnter && q != "" && sv.onQuery != nil {
			sv.onQuery(q)
		}
	})

	return sv
}

// Name implements Component.
func (sv *SearchView) Name() string { return "Search" }

// FocusTarget implements Component. The results table takes focus once a
// search has produced rows, the query input before that.
func (sv *SearchView) FocusTarget() tview.Primitive {
	if sv.results.GetRowCount() > 1 {
		return sv.results
	}
	return sv.input
}

// Hints implements Component.
func (sv *SearchView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "enter", Description: "Search/Open"},
		{Key: "tab", Description: "Results"},
		{Key: "esc", Description: "Back"},
		{Key: ":", Description: "Command"},
	}
}

// SetOnQuery sets the callback when a search query is submitted.
func (sv *SearchView) SetOnQuery(fn func(query string)) {
	sv.onQuery = fn
}

// SetQuery fills the search input.
func (sv *SearchView) SetQuery(q string) {
	sv.input.SetText(q)
}

// Update refreshes search results. Chat names come from the chats map the
// search response carries along.
func (sv *SearchView) Update(out *beeper.SearchMessagesOutput) {
	sv.results.Clear()
	sv.data = nil
	if out == nil {
		return
	}
	sv.data = out.Items

	headers := []string{" CHAT", " FROM", " MESSAGE", " TIME"}
	for col, h := range headers {
		sv.results.SetCell(0, col, tview.NewTableCell(h).
			SetSelectable(false).
			SetTextColor(sv.theme.TableHeaderFg).
			SetBackgroundColor(sv.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold))
	}

	now := sv.now()
	for i := range out.Items {
		m := &out.Items[i]
		row := i + 1
		chatName := m.ChatID
		if c, ok := out.Chats[m.ChatID]; ok {
			chatName = c.DisplayName()
		}
		body := strings.ReplaceAll(present.Body(m), "\n", " ")

		sv.results.SetCell(row, 0, tview.NewTableCell(" "+escapeLine(chatName)).SetMaxWidth(25).SetTextColor(sv.theme.FgColor))
		sv.results.SetCell(row, 1, tview.NewTableCell(" "+escapeLine(present.Sender(m))).SetMaxWidth(20).SetTextColor(sv.theme.PeerColor))
		sv.results.SetCell(row, 2, tview.NewTableCell(" "+escapeLine(body)).SetExpansion(1).SetTextColor(sv.theme.FgColor))
		sv.results.SetCell(row, 3, tview.NewTableCell(" "+present.MessageTime(m, now)).SetMaxWidth(12).SetTextColor(sv.theme.FgColor))
	}

	more := ""
	if out.HasMore {
		more = "+"
	}
	sv.results.SetTitle(fmt.Sprintf(" Results (%d%s) ", len(out.Items), more))
}

// SelectedResult returns the chat ID and message ID of the selected result.
func (sv *SearchView) SelectedResult() (string, string) {
	row, _ := sv.results.GetSelection()
	idx := row - 1
	if idx >= 0 && idx < len(sv.data) {
		m := sv.data[idx]
		return m.ChatID, m.ID
	}
	return "", ""
}

// Input returns the search input field.
func (sv *SearchView) Input() *tview.InputField {
	return sv.input
}

// Results returns the results table.
func (sv *SearchView) Results() *tview.Table {
	return sv.results
}
