package ui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"wifimon-termui/internal/dashboard"
)

const keysHelp = "[r] refresh  [a] auto-refresh  [j/k] select  [enter] run wifite  [q] quit"

// NewStatusController creates and returns refresh status UI controller.
func NewStatusController(streamNetworks StreamNetworksRead) *statusController {
	return &statusController{
		Grid:           ui.NewGrid(),
		headText:       widgets.NewParagraph(),
		streamNetworks: streamNetworks,
		snapshot: dashboard.Snapshot{
			Status: dashboard.OK("Ready"),
		},
		autoRefresh: true,
	}
}

type statusController struct {
	*ui.Grid

	headText *widgets.Paragraph

	snapshot    dashboard.Snapshot
	autoRefresh bool
	report      *dashboard.Report

	streamNetworks StreamNetworksRead
	once           sync.Once
}

func (c *statusController) Resize() {
	w, h := ui.TerminalDimensions()
	c.Grid.SetRect(0, 0, w, h)
}

func (c *statusController) Init(ctx context.Context) {
	c.initUI()
	go c.subscribe(ctx)
}

func (c *statusController) initUI() {
	c.headText.Title = "Wi-Fi scanner"
	c.headText.PaddingLeft = 1
	c.headText.Text = c.text()

	c.Grid.Set(ui.NewRow(1.0, c.headText))
}

func (c *statusController) SetAutoRefresh(enabled bool) {
	c.Lock()
	defer c.Unlock()
	c.autoRefresh = enabled
	c.headText.Text = c.text()
}

func (c *statusController) SetReport(report dashboard.Report) {
	c.Lock()
	defer c.Unlock()
	c.report = &report
	c.headText.Text = c.text()
}

func (c *statusController) update(s dashboard.Snapshot) {
	c.Lock()
	defer c.Unlock()
	c.snapshot = s
	c.headText.Text = c.text()
}

func (c *statusController) text() string {
	var b strings.Builder

	s := c.snapshot
	fmt.Fprintf(&b, "%s %s", s.Status.Dot(), dashboard.Escape(s.Status.Message))
	if !s.LastUpdated.IsZero() {
		fmt.Fprintf(&b, " | Last updated: %s", s.LastUpdated.Format("15:04:05"))
	}

	auto := "⏸️ Pause Auto-Refresh"
	if !c.autoRefresh {
		auto = "▶️ Resume Auto-Refresh"
	}
	fmt.Fprintf(&b, " | %s | %s\n", s.TriggerLabel(), auto)

	if c.report != nil && c.report.Outcome != dashboard.OutcomeCancelled && c.report.Message != "" {
		color := "green"
		if c.report.Outcome != dashboard.OutcomeStarted {
			color = "red"
		}
		fmt.Fprintf(&b, "[%s](fg:%s)\n", dashboard.Escape(c.report.Message), color)
	}

	b.WriteString(keysHelp)

	return b.String()
}

func (c *statusController) subscribe(ctx context.Context) {
	c.once.Do(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-c.streamNetworks:
				c.update(s)
			}
		}
	})
}
