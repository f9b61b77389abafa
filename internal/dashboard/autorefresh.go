package dashboard

import (
	"sync"
	"time"
)

// DefaultInterval is the auto-refresh period.
const DefaultInterval = 10 * time.Second

// Ticker is the subset of time.Ticker used by AutoRefresh.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct {
	*time.Ticker
}

func (t timeTicker) C() <-chan time.Time {
	return t.Ticker.C
}

// NewTimeTicker wraps time.NewTicker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

// NewAutoRefresh creates and returns disabled auto-refresh controller calling
// tick every interval once started.
func NewAutoRefresh(interval time.Duration, tick func()) *AutoRefresh {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &AutoRefresh{
		interval:  interval,
		tick:      tick,
		newTicker: NewTimeTicker,
	}
}

// AutoRefresh owns the refresh ticker. Enabled means a ticker is running.
type AutoRefresh struct {
	interval  time.Duration
	tick      func()
	newTicker func(time.Duration) Ticker

	mu     sync.Mutex
	ticker Ticker
	done   chan struct{}
}

// Enabled reports whether auto-refresh is on.
func (a *AutoRefresh) Enabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ticker != nil
}

// Interval returns the refresh period.
func (a *AutoRefresh) Interval() time.Duration {
	return a.interval
}

// Start enables auto-refresh. A running ticker is replaced, never doubled.
// The first tick fires after one interval.
func (a *AutoRefresh) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.start()
}

// Stop disables auto-refresh.
func (a *AutoRefresh) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stop()
}

// Toggle flips auto-refresh and returns the new state.
func (a *AutoRefresh) Toggle() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ticker != nil {
		a.stop()
		return false
	}
	a.start()
	return true
}

// Close stops the ticker on teardown.
func (a *AutoRefresh) Close() {
	a.Stop()
}

func (a *AutoRefresh) start() {
	a.stop()

	ticker := a.newTicker(a.interval)
	done := make(chan struct{})
	a.ticker = ticker
	a.done = done

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C():
				select {
				case <-done:
					return
				default:
				}
				// Ticks never queue behind a slow refresh.
				go a.tick()
			}
		}
	}()
}

func (a *AutoRefresh) stop() {
	if a.ticker == nil {
		return
	}
	a.ticker.Stop()
	close(a.done)
	a.ticker = nil
	a.done = nil
}
