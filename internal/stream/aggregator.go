package stream

import "sync"

// WindowSize is the number of trailing signal values and raw events kept.
const WindowSize = 100

// Stats is an aggregator snapshot.
type Stats struct {
	TotalPackets  int
	UniqueDevices int
	Signals       []int
	History       []PacketEvent
	Closed        bool
}

// Average returns the mean of the signal window, 0 when it is empty.
func (s Stats) Average() float64 {
	return average(s.Signals)
}

// NewAggregator creates and returns packet statistics aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		devices: make(map[string]struct{}),
		signals: newWindow[int](WindowSize),
		history: newWindow[PacketEvent](WindowSize),
	}
}

// Aggregator keeps rolling packet statistics. The device set is never
// pruned; only its size is reported.
type Aggregator struct {
	mu      sync.RWMutex
	total   int
	devices map[string]struct{}
	signals *window[int]
	history *window[PacketEvent]
	closed  bool
}

// Add consumes one event.
func (a *Aggregator) Add(ev PacketEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.total++
	if ev.Src != "" {
		a.devices[ev.Src] = struct{}{}
	}
	if ev.SignalStrength != nil {
		a.signals.push(*ev.SignalStrength)
	}
	a.history.push(ev)
}

// MarkClosed records that the push channel is gone.
func (a *Aggregator) MarkClosed() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
}

// Average returns the mean of the signal window, 0 when it is empty.
func (a *Aggregator) Average() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return average(a.signals.values())
}

// Stats returns a copy of current statistics.
func (a *Aggregator) Stats() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return Stats{
		TotalPackets:  a.total,
		UniqueDevices: len(a.devices),
		Signals:       a.signals.values(),
		History:       a.history.values(),
		Closed:        a.closed,
	}
}

func average(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum int
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}
