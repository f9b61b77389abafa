package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wifimon-termui/internal/client"
	"wifimon-termui/internal/config"
	"wifimon-termui/internal/dashboard"
	"wifimon-termui/internal/ui"
)

func newTestLogger() *log.Logger {
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	return logger
}

func newTestApp(t *testing.T, host string) *Application {
	cfg := config.Default()
	cfg.Host = host
	cfg.RetryMax = 0

	app, err := New(cfg, newTestLogger())
	require.NoError(t, err)
	return app
}

func newBackend() *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/run-wifite":
			w.Write([]byte(`{"success": true, "message": "Wifite started on aa:bb:cc:dd:ee:01"}`))
		default:
			w.Write([]byte(`{"success": true, "wifi_networks": [], "count": 0}`))
		}
	}))
}

// reportingController records reports on their way to the wrapped view.
type reportingController struct {
	ui.Controller
	ui.Selector

	reporter ui.Reporter
	reports  chan dashboard.Report
}

func (c *reportingController) SetAutoRefresh(enabled bool) {
	c.reporter.SetAutoRefresh(enabled)
}

func (c *reportingController) SetReport(report dashboard.Report) {
	c.reporter.SetReport(report)
	c.reports <- report
}

func TestOffer_LatestWins(t *testing.T) {
	stream := make(chan int, 1)

	offer(stream, 1)
	offer(stream, 2)
	offer(stream, 3)

	assert.Equal(t, 3, <-stream)
	assert.Len(t, stream, 0)
}

func TestNew(t *testing.T) {
	cfg := config.Default()
	app, err := New(cfg, newTestLogger())
	require.NoError(t, err)
	assert.Nil(t, app.metrics)
	assert.False(t, app.autoRefresh.Enabled())

	cfg.MetricsAddr = "127.0.0.1:0"
	app, err = New(cfg, newTestLogger())
	require.NoError(t, err)
	assert.NotNil(t, app.metrics)
}

func TestNewController(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	for _, name := range []string{"dash", "networks", "packets"} {
		controller, err := app.newController(name)
		require.NoError(t, err, name)

		// Any view that can select a network also shows the dispatch report.
		if _, ok := controller.(ui.Selector); ok {
			_, ok := controller.(ui.Reporter)
			assert.True(t, ok, name)
		}
	}

	_, err := app.newController("cpu")
	assert.Error(t, err)
}

func TestDispatch_ReportReachesView(t *testing.T) {
	ts := newBackend()
	defer ts.Close()

	for _, name := range []string{"dash", "networks"} {
		t.Run(name, func(t *testing.T) {
			app := newTestApp(t, ts.URL)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			view, err := app.newController(name)
			require.NoError(t, err)
			view.Init(ctx)

			networks := []client.Network{{SSID: "Net1", BSSID: "aa:bb:cc:dd:ee:01", Signal: 80}}
			app.networks <- dashboard.Snapshot{Networks: networks, View: dashboard.Render(networks)}

			selector := view.(ui.Selector)
			assert.Eventually(t, func() bool {
				_, ok := selector.Selected()
				return ok
			}, time.Second, 5*time.Millisecond)

			controller := &reportingController{
				Controller: view,
				Selector:   selector,
				reporter:   view.(ui.Reporter),
				reports:    make(chan dashboard.Report, 1),
			}
			require.True(t, app.dispatch(ctx, controller))

			assert.Eventually(t, app.dialog.Pending, time.Second, time.Millisecond)
			app.dialog.Answer(true)

			select {
			case report := <-controller.reports:
				assert.Equal(t, dashboard.OutcomeStarted, report.Outcome)
				assert.Equal(t, "Wifite started on aa:bb:cc:dd:ee:01", report.Message)
			case <-time.After(time.Second):
				t.Fatal("report not delivered")
			}
		})
	}
}

func TestDispatch_PacketsView(t *testing.T) {
	app := newTestApp(t, "http://127.0.0.1:1")

	controller, err := app.newController("packets")
	require.NoError(t, err)

	assert.False(t, app.dispatch(context.Background(), controller))
	assert.False(t, app.dialog.Pending())
}

func TestStartPolling(t *testing.T) {
	ts := newBackend()
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app := newTestApp(t, ts.URL)
	packets, err := app.newController("packets")
	require.NoError(t, err)

	assert.False(t, app.startPolling(ctx, packets))
	assert.False(t, app.autoRefresh.Enabled())

	app = newTestApp(t, ts.URL)
	networks, err := app.newController("networks")
	require.NoError(t, err)

	assert.True(t, app.startPolling(ctx, networks))
	assert.True(t, app.autoRefresh.Enabled())
	app.autoRefresh.Close()

	assert.Eventually(t, func() bool {
		return app.refresher.Snapshot().Status.Message == "Found 0 networks"
	}, time.Second, 5*time.Millisecond)
}
