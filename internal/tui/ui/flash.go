package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel represents the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// FlashMessage is one notification. The zero value means "nothing to show".
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

const (
	infoTTL = 5 * time.Second
	warnTTL = 8 * time.Second
	errTTL  = 10 * time.Second
)

// FlashModel holds the current notification. Every change, including the
// clear when a message expires, is published on Watch. A message replaced
// before its expiry never clears its successor.
type FlashModel struct {
	mu      sync.Mutex
	current FlashMessage
	seq     uint64
	now     func() time.Time
	after   func(d time.Duration, fn func())
	watchCh chan FlashMessage
}

// NewFlashModel creates an empty flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{
		now:     time.Now,
		after:   func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
		watchCh: make(chan FlashMessage, 8),
	}
}

// Info shows msg for a few seconds.
func (f *FlashModel) Info(msg string) { f.set(msg, FlashInfo, infoTTL) }

// Warn shows msg a little longer than Info.
func (f *FlashModel) Warn(msg string) { f.set(msg, FlashWarn, warnTTL) }

// Err shows err until it expires or something else is flashed.
func (f *FlashModel) Err(err error) { f.set(err.Error(), FlashErr, errTTL) }

// Clear drops the current message.
func (f *FlashModel) Clear() {
	f.mu.Lock()
	f.seq++
	f.current = FlashMessage{}
	f.mu.Unlock()
	f.publish(FlashMessage{})
}

func (f *FlashModel) set(msg string, level FlashLevel, ttl time.Duration) {
	f.mu.Lock()
	f.seq++
	seq := f.seq
	f.current = FlashMessage{Text: msg, Level: level, Expires: f.now().Add(ttl)}
	fm := f.current
	f.mu.Unlock()

	f.publish(fm)
	f.after(ttl, func() { f.expire(seq) })
}

func (f *FlashModel) expire(seq uint64) {
	f.mu.Lock()
	if f.seq != seq {
		f.mu.Unlock()
		return
	}
	f.current = FlashMessage{}
	f.mu.Unlock()
	f.publish(FlashMessage{})
}

func (f *FlashModel) publish(fm FlashMessage) {
	select {
	case f.watchCh <- fm:
	default:
	}
}

// Current returns the message on display, or nil.
func (f *FlashModel) Current() *FlashMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current.Text == "" || f.now().After(f.current.Expires) {
		return nil
	}
	m := f.current
	return &m
}

// Text returns the text on display, or "".
func (f *FlashModel) Text() string {
	if m := f.Current(); m != nil {
		return m.Text
	}
	return ""
}

// Watch returns the channel of message changes.
func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar is the UI component that displays flash notifications.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash notification bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders a flash message on the bar.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil || msg.Text == "" {
		return
	}

	var color, icon string
	switch msg.Level {
	case FlashInfo:
		color, icon = colorName(fb.theme.FlashInfoColor), "•"
	case FlashWarn:
		color, icon = colorName(fb.theme.FlashWarnColor), "!"
	case FlashErr:
		color, icon = colorName(fb.theme.FlashErrColor), "✗"
	}
	_, _ = fmt.Fprintf(fb, " [%s]%s %s[-]", color, icon, tview.Escape(msg.Text))
}
