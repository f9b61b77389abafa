package ui

import (
	"context"
	"fmt"
	"math"
	"sync"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"wifimon-termui/internal/stream"
)

// signalFloor is the plot baseline in dBm.
const signalFloor = -100

// NewPacketsController creates and returns packet telemetry UI controller.
func NewPacketsController(streamPackets StreamPacketsRead) *packetsController {
	return &packetsController{
		Grid:          ui.NewGrid(),
		headText:      widgets.NewParagraph(),
		bodyPlot:      widgets.NewPlot(),
		streamPackets: streamPackets,
	}
}

type packetsController struct {
	*ui.Grid

	headText *widgets.Paragraph
	bodyPlot *widgets.Plot

	streamPackets StreamPacketsRead
	once          sync.Once
}

func (c *packetsController) Resize() {
	w, h := ui.TerminalDimensions()
	c.Grid.SetRect(0, 0, w, h)
}

func (c *packetsController) Init(ctx context.Context) {
	c.initUI()
	go c.subscribe(ctx)
}

func (c *packetsController) initUI() {
	c.headText.Title = "Packet monitor"
	c.headText.PaddingTop = 1
	c.headText.PaddingLeft = 1
	c.headText.Text = "Connecting to push channel..."

	c.bodyPlot.Title = fmt.Sprintf("Signal strength (dBm above %d)", signalFloor)
	c.bodyPlot.Data = [][]float64{make([]float64, 2)}
	c.bodyPlot.AxesColor = ui.ColorWhite
	c.bodyPlot.LineColors[0] = ui.ColorMagenta
	c.bodyPlot.MaxVal = -signalFloor

	c.Grid.Set(
		ui.NewRow(1.0,
			ui.NewCol(.3, c.headText),
			ui.NewCol(.7, c.bodyPlot),
		),
	)
}

// SetError shows a push channel failure.
func (c *packetsController) SetError(message string) {
	c.Lock()
	defer c.Unlock()
	c.headText.Text = fmt.Sprintf("[%s](fg:red)", message)
}

func (c *packetsController) update(s stream.Stats) {
	c.Lock()
	defer c.Unlock()

	c.headText.Text = fmt.Sprintf(
		"Total packets: %d\nUnique devices: %d\nAvg signal strength: %d dBm",
		s.TotalPackets,
		s.UniqueDevices,
		int(math.Round(s.Average())),
	)
	if s.Closed {
		c.headText.Text += "\n[push channel closed - restart to resume](fg:red)"
	}

	data := make([]float64, 0, len(s.History))
	for _, ev := range s.History {
		if ev.SignalStrength == nil {
			continue
		}
		v := float64(*ev.SignalStrength - signalFloor)
		if v < 0 {
			v = 0
		}
		data = append(data, v)
	}
	// Plot needs at least two points.
	for len(data) < 2 {
		data = append([]float64{0}, data...)
	}
	c.bodyPlot.Data[0] = data
}

func (c *packetsController) subscribe(ctx context.Context) {
	c.once.Do(func() {
		for {
			select {
			case <-ctx.Done():
				return
			case s := <-c.streamPackets:
				c.update(s)
			}
		}
	})
}
