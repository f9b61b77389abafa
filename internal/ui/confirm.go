package ui

import (
	"sync"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
)

const (
	dialogWidth  = 60
	dialogHeight = 5
)

// NewConfirmDialog creates and returns modal yes/no dialog.
func NewConfirmDialog() *ConfirmDialog {
	d := &ConfirmDialog{Paragraph: widgets.NewParagraph()}
	d.Title = "Confirm"
	d.BorderStyle = ui.NewStyle(ui.ColorRed)
	d.PaddingLeft = 1
	return d
}

// ConfirmDialog is a blocking confirmation gate answered from the event loop.
type ConfirmDialog struct {
	*widgets.Paragraph

	mu     sync.Mutex
	answer chan bool
}

// Confirm shows prompt and blocks until Answer is called. A second prompt
// while one is pending is refused.
func (d *ConfirmDialog) Confirm(prompt string) bool {
	d.mu.Lock()
	if d.answer != nil {
		d.mu.Unlock()
		return false
	}

	// Text is in place before Pending reports true.
	d.Lock()
	d.Text = prompt + "\n\n[y] yes  [n] no"
	d.Unlock()

	answer := make(chan bool, 1)
	d.answer = answer
	d.mu.Unlock()

	return <-answer
}

// Pending reports whether the dialog waits for an answer.
func (d *ConfirmDialog) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.answer != nil
}

// Answer resolves the pending prompt. It is a no-op without one.
func (d *ConfirmDialog) Answer(yes bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.answer == nil {
		return
	}
	d.answer <- yes
	d.answer = nil
}

// Resize centres the dialog in the terminal.
func (d *ConfirmDialog) Resize() {
	w, h := ui.TerminalDimensions()
	x := (w - dialogWidth) / 2
	y := (h - dialogHeight) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	d.SetRect(x, y, x+dialogWidth, y+dialogHeight)
}
