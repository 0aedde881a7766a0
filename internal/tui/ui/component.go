package ui

import "github.com/rivo/tview"

// MenuHint is one key shown in the header menu.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // 1-9 chat shortcuts, drawn in their own color
}

// Component is a page of the TUI.
type Component interface {
	// Name labels the page in the breadcrumb bar.
	Name() string
	// Hints lists the page's own keys for the menu.
	Hints() []MenuHint
	// FocusTarget is the primitive that receives keys when the page is shown.
	FocusTarget() tview.Primitive
}
