package ui

import (
	"context"
	"sync"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"wifimon-termui/internal/dashboard"
)

const barWidth = 20

// NewNetworksController creates and returns networks list UI controller.
func NewNetworksController(streamNetworks StreamNetworksRead) *networksController {
	return &networksController{
		Grid:           ui.NewGrid(),
		bodyList:       widgets.NewList(),
		streamNetworks: streamNetworks,
	}
}

type networksController struct {
	*ui.Grid

	bodyList *widgets.List
	view     dashboard.View

	streamNetworks StreamNetworksRead
	once           sync.Once
}

func (c *networksController) Resize() {
	w, h := ui.TerminalDimensions()
	c.Grid.SetRect(0, 0, w, h)
}

func (c *networksController) Init(ctx context.Context) {
	c.initUI()
	go c.subscribe(ctx)
}

func (c *networksController) initUI() {
	c.bodyList.Title = "Nearby networks"
	c.bodyList.Rows = []string{"Scanning..."}
	c.bodyList.SelectedRowStyle = ui.NewStyle(ui.ColorBlack, ui.ColorWhite)
	c.bodyList.WrapText = false

	c.Grid.Set(ui.NewRow(1.0, c.bodyList))
}

func (c *networksController) update(s dashboard.Snapshot) {
	c.Lock()
	defer c.Unlock()

	c.view = s.View

	if s.View.Empty() {
		c.bodyList.Rows = []string{s.View.Placeholder}
		c.bodyList.SelectedRow = 0
		return
	}

	rows := make([]string, len(s.View.Cards))
	for i, card := range s.View.Cards {
		rows[i] = card.Line(barWidth)
	}
	c.bodyList.Rows = rows

	if c.bodyList.SelectedRow >= len(rows) {
		c.bodyList.SelectedRow = len(rows) - 1
	}
}

func (c *networksController) ScrollUp() {
	c.Lock()
	defer c.Unlock()
	c.bodyList.ScrollUp()
}

func (c *networksController) ScrollDown() {
	c.Lock()
	defer c.Unlock()
	c.bodyList.ScrollDown()
}

func (c *networksController) Selected() (dashboard.Card, bool) {
	c.Lock()
	defer c.Unlock()

	i := c.bodyList.SelectedRow
	if i < 0 || i >= len(c.view.Cards) {
		return dashboard.Card{}, false
	}
	return c.view.Cards[i], true
}

func (c *networksController) subscribe(ctx context.Context) {
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
