package ui

import (
	"context"
	"sync"

	ui "github.com/gizak/termui/v3"

	"wifimon-termui/internal/dashboard"
	"wifimon-termui/internal/stream"
)

func NewDashboard(streamNetworks StreamNetworksRead, streamPackets StreamPacketsRead) *dashboardController {
	ctl := newScannerController(streamNetworks)
	ctl.streamPackets = streamPackets

	packetsStreamsPackets := make(chan stream.Stats, 1)
	ctl.packets = NewPacketsController(packetsStreamsPackets)
	ctl.streamsPackets = append(ctl.streamsPackets, packetsStreamsPackets)

	return ctl
}

// NewNetworksView creates and returns status bar and networks list without
// the packet panel.
func NewNetworksView(streamNetworks StreamNetworksRead) *dashboardController {
	return newScannerController(streamNetworks)
}

func newScannerController(streamNetworks StreamNetworksRead) *dashboardController {
	ctl := &dashboardController{
		Grid:           ui.NewGrid(),
		streamNetworks: streamNetworks,
	}

	statusStreamsNetworks := make(chan dashboard.Snapshot, 1)
	ctl.status = NewStatusController(statusStreamsNetworks)
	ctl.streamsNetworks = append(ctl.streamsNetworks, statusStreamsNetworks)

	netStreamsNetworks := make(chan dashboard.Snapshot, 1)
	ctl.networks = NewNetworksController(netStreamsNetworks)
	ctl.streamsNetworks = append(ctl.streamsNetworks, netStreamsNetworks)

	return ctl
}

type dashboardController struct {
	*ui.Grid

	status   *statusController
	networks *networksController
	packets  *packetsController

	streamNetworks StreamNetworksRead
	streamPackets  StreamPacketsRead

	streamsNetworks []StreamNetworksWrite
	streamsPackets  []StreamPacketsWrite

	once sync.Once
}

func (c *dashboardController) controllers() []Controller {
	if c.packets == nil {
		return []Controller{c.status, c.networks}
	}
	return []Controller{c.status, c.networks, c.packets}
}

func (c *dashboardController) Resize() {
	for _, ctl := range c.controllers() {
		ctl.Resize()
	}
	w, h := ui.TerminalDimensions()
	c.Grid.SetRect(0, 0, w, h)
}

func (c *dashboardController) Init(ctx context.Context) {
	for _, ctl := range c.controllers() {
		ctl.Init(ctx)
	}
	c.initUI()
	go c.subscribe(ctx)
}

func (c *dashboardController) initUI() {
	if c.packets == nil {
		c.Grid.Set(
			ui.NewRow(.2, c.status),
			ui.NewRow(.8, c.networks),
		)
		return
	}
	c.Grid.Set(
		ui.NewRow(.15, c.status),
		ui.NewRow(.5, c.networks),
		ui.NewRow(.35, c.packets),
	)
}

func (c *dashboardController) ScrollUp()   { c.networks.ScrollUp() }
func (c *dashboardController) ScrollDown() { c.networks.ScrollDown() }

func (c *dashboardController) Selected() (dashboard.Card, bool) {
	return c.networks.Selected()
}

func (c *dashboardController) SetAutoRefresh(enabled bool) {
	c.status.SetAutoRefresh(enabled)
}

func (c *dashboardController) SetReport(report dashboard.Report) {
	c.status.SetReport(report)
}

func (c *dashboardController) SetError(message string) {
	if c.packets != nil {
		c.packets.SetError(message)
	}
}

func (c *dashboardController) subscribe(ctx context.Context) {
	c.once.Do(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-c.streamNetworks:
				for _, out := range c.streamsNetworks {
					publish(ctx, out, s)
				}
			case p := <-c.streamPackets:
				for _, out := range c.streamsPackets {
					publish(ctx, out, p)
				}
			}
		}
	})
}

func publish[T any](ctx context.Context, stream chan<- T, v T) {
	select {
	case <-ctx.Done():
	case stream <- v:
	}
}
