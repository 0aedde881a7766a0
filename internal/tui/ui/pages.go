package ui

import (
	"slices"

	"github.com/rivo/tview"
)

// Pages keeps a navigation stack over tview.Pages. Only the top page is
// visible; onChange sees every new stack.
type Pages struct {
	*tview.Pages
	stack    []string
	onChange func(stack []string)
}

// NewPages creates an empty stack.
func NewPages() *Pages {
	return &Pages{
		Pages: tview.NewPages(),
	}
}

// SetOnChange sets a callback that fires when the stack changes.
func (p *Pages) SetOnChange(fn func(stack []string)) {
	p.onChange = fn
}

// Push shows name on top of the current page.
func (p *Pages) Push(name string) {
	if top := p.Current(); top != "" {
		p.HidePage(top)
	}
	p.stack = append(p.stack, name)
	p.raise(name)
	p.notify()
}

// Pop removes the top page and returns its name, or "" on an empty stack.
func (p *Pages) Pop() string {
	top := p.Current()
	if top == "" {
		return ""
	}
	p.HidePage(top)
	p.stack = p.stack[:len(p.stack)-1]
	if next := p.Current(); next != "" {
		p.raise(next)
	}
	p.notify()
	return top
}

// Open brings name to the top: pages above an existing entry are popped,
// otherwise name is pushed. Opening the current page does nothing.
func (p *Pages) Open(name string) {
	switch {
	case p.Current() == name:
	case slices.Contains(p.stack, name):
		p.PopTo(name)
	default:
		p.Push(name)
	}
}

// PopTo pops pages until name is on top. It does nothing if name is not on
// the stack.
func (p *Pages) PopTo(name string) {
	if !slices.Contains(p.stack, name) {
		return
	}
	for p.Current() != name {
		p.Pop()
	}
}

// Current returns the top page, or "".
func (p *Pages) Current() string {
	if len(p.stack) == 0 {
		return ""
	}
	return p.stack[len(p.stack)-1]
}

// Stack returns a copy of the stack, bottom first.
func (p *Pages) Stack() []string {
	return slices.Clone(p.stack)
}

// Depth returns the current stack depth.
func (p *Pages) Depth() int {
	return len(p.stack)
}

// Reset clears the stack and shows only the given page.
func (p *Pages) Reset(name string) {
	for _, n := range p.stack {
		p.HidePage(n)
	}
	p.stack = []string{name}
	p.raise(name)
	p.notify()
}

func (p *Pages) raise(name string) {
	p.ShowPage(name)
	p.SendToFront(name)
}

func (p *Pages) notify() {
	if p.onChange != nil {
		p.onChange(p.Stack())
	}
}
