package dashboard

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"wifimon-termui/internal/client"
)

const (
	defaultServerError = "Unknown error occurred"
	connectionError    = "Failed to connect to server. Please check if the server is running."
)

// Poll outcomes passed to Recorder.
const (
	PollOK             = "ok"
	PollServerError    = "server_error"
	PollTransportError = "transport_error"
	PollSkipped        = "skipped"
)

// Fetcher fetches the network scan.
type Fetcher interface {
	Networks(ctx context.Context) (client.Scan, error)
}

// Recorder counts poll outcomes.
type Recorder interface {
	PollCompleted(result string)
}

type nopRecorder struct{}

func (nopRecorder) PollCompleted(string) {}

// Snapshot is the refresher state published after every change.
type Snapshot struct {
	Networks    []client.Network
	View        View
	Status      Status
	LastUpdated time.Time
	Busy        bool
}

// TriggerLabel returns the manual refresh trigger label.
func (s Snapshot) TriggerLabel() string {
	if s.Busy {
		return "⏳ Scanning..."
	}
	return "🔄 Refresh Now"
}

// NewRefresher creates and returns network list refresher. notify receives
// every state change; it must not block.
func NewRefresher(fetcher Fetcher, notify func(Snapshot), logger *log.Logger) *Refresher {
	if notify == nil {
		notify = func(Snapshot) {}
	}
	return &Refresher{
		fetcher:  fetcher,
		notify:   notify,
		logger:   logger,
		recorder: nopRecorder{},
		now:      time.Now,
		state: Snapshot{
			View:   Render(nil),
			Status: OK("Ready"),
		},
	}
}

// Refresher polls the network list with at most one fetch in flight.
type Refresher struct {
	fetcher  Fetcher
	notify   func(Snapshot)
	logger   *log.Logger
	recorder Recorder
	now      func() time.Time

	busy atomic.Bool

	mu    sync.Mutex
	state Snapshot
}

// SetRecorder sets poll outcome recorder.
func (r *Refresher) SetRecorder(recorder Recorder) {
	r.recorder = recorder
}

// Snapshot returns current state.
func (r *Refresher) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Refresh fetches the network list. It returns false without doing anything
// when a fetch is already in flight.
func (r *Refresher) Refresh(ctx context.Context) (started bool) {
	if !r.busy.CompareAndSwap(false, true) {
		r.logger.Debug("Refresh skipped, fetch in flight")
		r.recorder.PollCompleted(PollSkipped)
		return false
	}

	started = true
	r.update(func(s *Snapshot) { s.Busy = true })

	defer func() {
		if err := recover(); err != nil {
			r.logger.Error(fmt.Sprintf("panic recover: %s", err))
			r.recorder.PollCompleted(PollTransportError)
			r.update(func(s *Snapshot) { s.Status = Failed(connectionError) })
		}
		r.busy.Store(false)
		r.update(func(s *Snapshot) { s.Busy = false })
	}()

	r.logger.Debug("Fetching networks")

	scan, err := r.fetcher.Networks(ctx)
	switch {
	case err != nil:
		r.logger.WithError(err).Error("Network scan request failed")
		r.recorder.PollCompleted(PollTransportError)
		r.update(func(s *Snapshot) { s.Status = Failed(connectionError) })

	case !scan.Success:
		message := scan.Error
		if message == "" {
			message = defaultServerError
		}
		r.logger.WithField("error", message).Warn("Network scan failed")
		r.recorder.PollCompleted(PollServerError)
		r.update(func(s *Snapshot) { s.Status = Failed(message) })

	default:
		r.logger.WithField("count", scan.Count).Debug("Network scan completed")
		r.recorder.PollCompleted(PollOK)
		now := r.now()
		r.update(func(s *Snapshot) {
			s.Networks = scan.Networks
			s.View = Render(scan.Networks)
			s.Status = OK(fmt.Sprintf("Found %d networks", scan.Count))
			s.LastUpdated = now
		})
	}

	return true
}

func (r *Refresher) update(fn func(s *Snapshot)) {
	r.mu.Lock()
	fn(&r.state)
	snapshot := r.state
	r.mu.Unlock()

	r.notify(snapshot)
}
