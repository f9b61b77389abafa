package ui

import (
	"context"

	ui "github.com/gizak/termui/v3"

	"wifimon-termui/internal/dashboard"
	"wifimon-termui/internal/stream"
)

// Read streams to update UI controllers.
type StreamNetworksRead <-chan dashboard.Snapshot
type StreamPacketsRead <-chan stream.Stats

// Write streams to update UI controllers.
type StreamNetworksWrite chan<- dashboard.Snapshot
type StreamPacketsWrite chan<- stream.Stats

// Controller is a drawable and resizable UI interface.
type Controller interface {
	ui.Drawable
	// Resize updates controller size.
	Resize()
	// Init initialises controller.
	Init(ctx context.Context)
}

// Selector is a controller with a selectable network list.
type Selector interface {
	ScrollUp()
	ScrollDown()
	// Selected returns the highlighted network card.
	Selected() (dashboard.Card, bool)
}

// Reporter is a controller showing refresh and dispatch state.
type Reporter interface {
	SetAutoRefresh(enabled bool)
	SetReport(report dashboard.Report)
}
