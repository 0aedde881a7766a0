package ui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/matheus3301/bpp/internal/status"
)

// Theme holds color constants for the TUI.
type Theme struct {
	BgColor           tcell.Color
	FgColor           tcell.Color
	BorderColor       tcell.Color
	BorderFocusColor  tcell.Color
	TableHeaderFg     tcell.Color
	TableHeaderBg     tcell.Color
	TableCursorFg     tcell.Color
	TableCursorBg     tcell.Color
	CrumbActiveFg     tcell.Color
	CrumbActiveBg     tcell.Color
	CrumbInactiveFg   tcell.Color
	CrumbInactiveBg   tcell.Color
	MenuKeyColor      tcell.Color
	NumericKeyColor   tcell.Color
	TitleColor        tcell.Color
	CounterColor      tcell.Color
	FlashInfoColor    tcell.Color
	FlashWarnColor    tcell.Color
	FlashErrColor     tcell.Color
	PromptBorderColor tcell.Color
	UnreadColor       tcell.Color
	SelfColor         tcell.Color
	PeerColor         tcell.Color
	MutedColor        tcell.Color
	StatusReadyColor  tcell.Color
	StatusWaitColor   tcell.Color
	StatusErrColor    tcell.Color
}

// DefaultTheme returns a k9s-inspired dark theme.
func DefaultTheme() *Theme {
	return &Theme{
		BgColor:           tcell.ColorBlack,
		FgColor:           tcell.ColorCadetBlue,
		BorderColor:       tcell.ColorDodgerBlue,
		BorderFocusColor:  tcell.ColorLightSkyBlue,
		TableHeaderFg:     tcell.ColorWhite,
		TableHeaderBg:     tcell.ColorBlack,
		TableCursorFg:     tcell.ColorBlack,
		TableCursorBg:     tcell.ColorAqua,
		CrumbActiveFg:     tcell.ColorBlack,
		CrumbActiveBg:     tcell.ColorOrange,
		CrumbInactiveFg:   tcell.ColorBlack,
		CrumbInactiveBg:   tcell.ColorAqua,
		MenuKeyColor:      tcell.ColorDodgerBlue,
		NumericKeyColor:   tcell.ColorFuchsia,
		TitleColor:        tcell.ColorMediumPurple,
		CounterColor:      tcell.ColorPapayaWhip,
		FlashInfoColor:    tcell.ColorNavajoWhite,
		FlashWarnColor:    tcell.ColorOrange,
		FlashErrColor:     tcell.ColorOrangeRed,
		PromptBorderColor: tcell.ColorDodgerBlue,
		UnreadColor:       tcell.ColorGold,
		SelfColor:         tcell.ColorMediumSpringGreen,
		PeerColor:         tcell.ColorLightSkyBlue,
		MutedColor:        tcell.ColorGray,
		StatusReadyColor:  tcell.ColorLimeGreen,
		StatusWaitColor:   tcell.ColorYellow,
		StatusErrColor:    tcell.ColorOrangeRed,
	}
}

// StatusColor picks the color used to render an API state.
func (t *Theme) StatusColor(s status.State) tcell.Color {
	switch s {
	case status.Ready:
		return t.StatusReadyColor
	case status.Connecting, status.Degraded:
		return t.StatusWaitColor
	default:
		return t.StatusErrColor
	}
}

// colorName formats c as a tview color tag value. Hex keeps the tag stable
// where several names share one color.
func colorName(c tcell.Color) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
