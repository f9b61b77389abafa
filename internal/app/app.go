package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gizak/termui/v3"
	log "github.com/sirupsen/logrus"

	"wifimon-termui/internal/client"
	"wifimon-termui/internal/config"
	"wifimon-termui/internal/dashboard"
	"wifimon-termui/internal/metrics"
	"wifimon-termui/internal/stream"
	"wifimon-termui/internal/ui"
)

const healthTimeout = 5 * time.Second

// New creates and returns new application
func New(cfg config.Config, logger *log.Logger) (*Application, error) {
	var app Application

	app.logger = logger
	app.streamURL = cfg.Stream
	app.metricsAddr = cfg.MetricsAddr

	app.client = client.New(cfg.Host, client.NewPollingHTTPClient(cfg.RetryMax, logger))
	commands := client.New(cfg.Host, client.NewCommandHTTPClient(logger))

	app.networks = make(chan dashboard.Snapshot, 1)
	app.packets = make(chan stream.Stats, 1)

	app.refresher = dashboard.NewRefresher(app.client, func(s dashboard.Snapshot) {
		offer(app.networks, s)
	}, logger)

	app.dialog = ui.NewConfirmDialog()
	app.dispatcher = dashboard.NewDispatcher(commands, app.dialog, logger)
	app.aggregator = stream.NewAggregator()

	// Tick context is replaced in Run.
	app.tickCtx = context.Background()
	app.autoRefresh = dashboard.NewAutoRefresh(cfg.Interval, func() {
		app.refresher.Refresh(app.tickCtx)
	})

	if cfg.MetricsAddr != "" {
		m, err := metrics.New()
		if err != nil {
			return nil, fmt.Errorf("can't register metrics: %w", err)
		}
		app.metrics = m
		app.refresher.SetRecorder(m)
		app.dispatcher.SetRecorder(m)
	}

	return &app, nil
}

type Application struct {
	client     *client.Client
	logger     *log.Logger
	refresher  *dashboard.Refresher
	dispatcher *dashboard.Dispatcher
	aggregator *stream.Aggregator
	metrics    *metrics.Metrics
	dialog     *ui.ConfirmDialog

	autoRefresh *dashboard.AutoRefresh
	tickCtx     context.Context

	networks chan dashboard.Snapshot
	packets  chan stream.Stats

	streamURL   string
	metricsAddr string
}

func (app *Application) Run(ctlName string) (code int) {

	defer func() {
		if err := recover(); err != nil {
			app.logger.Error(fmt.Sprintf("panic recover: %s", err))
			code = 1
		}
	}()

	app.logger.Debug("Running application")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	app.tickCtx = ctx

	fmt.Println("Connection...")
	app.checkHealth(ctx)

	controller, err := app.newController(ctlName)
	if err != nil {
		app.logger.Error(err)
		return 1
	}

	if err := termui.Init(); err != nil {
		app.logger.Error(fmt.Sprintf("failed to initialize termui: %v", err))
		return 1
	}

	app.logger.Debug("Init UI controller: " + ctlName)

	controller.Init(ctx)
	controller.Resize()
	app.dialog.Resize()

	stopMetrics := app.serveMetrics()
	defer stopMetrics()

	if ctlName != "networks" {
		app.startStreaming(ctx, controller)
	}

	polling := app.startPolling(ctx, controller)

	app.render(controller)

	ev := termui.PollEvents()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

Loop:
	for {
		select {
		case e := <-ev:
			if e.Type == termui.ResizeEvent {
				controller.Resize()
				app.dialog.Resize()
				continue
			}
			if e.Type != termui.KeyboardEvent {
				continue
			}
			if app.dialog.Pending() {
				switch e.ID {
				case "y", "Y":
					app.dialog.Answer(true)
				case "n", "N", "<Escape>":
					app.dialog.Answer(false)
				case "q", "<C-c>":
					app.dialog.Answer(false)
					break Loop
				}
				app.render(controller)
				continue
			}
			switch e.ID {
			case "q", "<C-c>":
				break Loop
			case "r":
				if polling {
					go app.refresher.Refresh(ctx)
				}
			case "a":
				if !polling {
					break
				}
				enabled := app.autoRefresh.Toggle()
				app.logger.WithField("enabled", enabled).Debug("Auto-refresh toggled")
				if r, ok := controller.(ui.Reporter); ok {
					r.SetAutoRefresh(enabled)
				}
			case "j", "<Down>":
				if s, ok := controller.(ui.Selector); ok {
					s.ScrollDown()
				}
			case "k", "<Up>":
				if s, ok := controller.(ui.Selector); ok {
					s.ScrollUp()
				}
			case "<Enter>":
				app.dispatch(ctx, controller)
			}
			app.render(controller)
		case <-tick.C:
			app.render(controller)
		}
	}

	app.logger.Debug("Stopping application")

	app.autoRefresh.Close()
	cancel()
	termui.Close()

	return 0
}

func (app *Application) newController(ctlName string) (ui.Controller, error) {
	switch ctlName {
	case "dash":
		return ui.NewDashboard(app.networks, app.packets), nil
	case "networks":
		return ui.NewNetworksView(app.networks), nil
	case "packets":
		return ui.NewPacketsController(app.packets), nil
	default:
		return nil, fmt.Errorf("invalid ui controller name: %s", ctlName)
	}
}

// startPolling runs the refresher only for controllers that show its state.
func (app *Application) startPolling(ctx context.Context, controller ui.Controller) bool {
	if _, ok := controller.(ui.Reporter); !ok {
		return false
	}

	// First paint is not delayed by the refresh interval.
	go app.refresher.Refresh(ctx)
	app.autoRefresh.Start()
	return true
}

func (app *Application) render(controller ui.Controller) {
	if app.dialog.Pending() {
		termui.Render(controller, app.dialog)
		return
	}
	termui.Render(controller)
}

// dispatch runs wifite on the selected network. Controllers that can't show
// the report never dispatch.
func (app *Application) dispatch(ctx context.Context, controller ui.Controller) bool {
	s, ok := controller.(ui.Selector)
	if !ok {
		return false
	}
	r, ok := controller.(ui.Reporter)
	if !ok {
		app.logger.Debug("Dispatch skipped, controller has no report view")
		return false
	}
	card, ok := s.Selected()
	if !ok {
		return false
	}

	go func() {
		defer func() {
			if err := recover(); err != nil {
				app.logger.Error(fmt.Sprintf("panic recover: %s", err))
			}
		}()

		r.SetReport(app.dispatcher.Run(ctx, card.Target))
	}()
	return true
}

func (app *Application) checkHealth(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	health, err := app.client.Health(ctx)
	if err != nil {
		fmt.Println("Connection error")
		app.logger.WithError(err).Warn("Backend health check failed")
		return
	}
	app.logger.WithField("status", health.Status).Debug("Backend health check")
}

func (app *Application) startStreaming(ctx context.Context, controller ui.Controller) {
	go func() {

		defer func() {
			if err := recover(); err != nil {
				app.logger.Error(fmt.Sprintf("panic recover: %s", err))
			}
		}()

		app.logger.Debug("Connecting to push channel " + app.streamURL)
		conn, err := stream.Dial(ctx, app.streamURL)
		if err != nil {
			app.logger.Error(err)
			if e, ok := controller.(interface{ SetError(string) }); ok {
				e.SetError("Push channel unavailable")
			}
			return
		}

		sub := stream.NewSubscriber(conn, app.aggregator, func(s stream.Stats) {
			offer(app.packets, s)
		}, app.logger)
		if app.metrics != nil {
			sub.SetRecorder(app.metrics)
		}

		if err := sub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			app.logger.Error(err)
		}
	}()
}

func (app *Application) serveMetrics() func() {
	if app.metrics == nil {
		return func() {}
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{Addr: app.metricsAddr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.WithError(err).Error("Metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

// offer replaces any unread value so the freshest snapshot wins.
func offer[T any](stream chan T, v T) {
	for {
		select {
		case stream <- v:
			return
		default:
		}
		select {
		case <-stream:
		default:
		}
	}
}
