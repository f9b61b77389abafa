package stream

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signal(v int) *int {
	return &v
}

func TestWindow(t *testing.T) {
	w := newWindow[int](3)
	assert.Empty(t, w.values())

	w.push(1)
	w.push(2)
	assert.Equal(t, []int{1, 2}, w.values())

	w.push(3)
	w.push(4)
	w.push(5)
	assert.Equal(t, 3, w.len())
	assert.Equal(t, []int{3, 4, 5}, w.values())
}

func TestAggregator_Empty(t *testing.T) {
	a := NewAggregator()

	stats := a.Stats()
	assert.Equal(t, 0, stats.TotalPackets)
	assert.Equal(t, 0, stats.UniqueDevices)
	assert.Empty(t, stats.Signals)
	assert.Equal(t, 0.0, stats.Average())
	assert.Equal(t, 0.0, a.Average())
}

func TestAggregator_TrailingWindow(t *testing.T) {
	a := NewAggregator()

	var all []int
	for i := 0; i < 150; i++ {
		v := 10 + i%91 // cycles 10..100
		all = append(all, v)
		a.Add(PacketEvent{Timestamp: float64(i), Src: "aa:bb:cc:dd:ee:ff", SignalStrength: signal(v)})
	}

	stats := a.Stats()
	assert.Equal(t, 150, stats.TotalPackets)
	require.Len(t, stats.Signals, WindowSize)
	assert.Equal(t, all[50:], stats.Signals)

	var sum int
	for _, v := range all[50:] {
		sum += v
	}
	assert.InDelta(t, float64(sum)/100, stats.Average(), 1e-9)
	assert.InDelta(t, float64(sum)/100, a.Average(), 1e-9)

	require.Len(t, stats.History, WindowSize)
	assert.Equal(t, 50.0, stats.History[0].Timestamp)
	assert.Equal(t, 149.0, stats.History[99].Timestamp)
}

func TestAggregator_UniqueDevices(t *testing.T) {
	a := NewAggregator()

	sources := []string{"a", "b", "a", "a", "c", "b", "", "c"}
	for i, src := range sources {
		a.Add(PacketEvent{Src: src, SignalStrength: signal(-40)})
		stats := a.Stats()
		assert.LessOrEqual(t, stats.UniqueDevices, stats.TotalPackets)
		assert.Equal(t, i+1, stats.TotalPackets)
	}

	assert.Equal(t, 3, a.Stats().UniqueDevices)
}

func TestAggregator_DevicesNeverPruned(t *testing.T) {
	a := NewAggregator()

	for i := 0; i < 3*WindowSize; i++ {
		a.Add(PacketEvent{Src: fmt.Sprintf("dev-%d", i)})
	}

	stats := a.Stats()
	assert.Equal(t, 3*WindowSize, stats.UniqueDevices)
	assert.Len(t, stats.History, WindowSize)
}

func TestAggregator_MissingSignal(t *testing.T) {
	a := NewAggregator()

	a.Add(PacketEvent{Src: "a", SignalStrength: signal(-50)})
	a.Add(PacketEvent{Src: "a"})
	a.Add(PacketEvent{Src: "b", SignalStrength: signal(-70)})

	stats := a.Stats()
	assert.Equal(t, 3, stats.TotalPackets)
	assert.Equal(t, []int{-50, -70}, stats.Signals)
	assert.Equal(t, -60.0, stats.Average())
	assert.Len(t, stats.History, 3)
}

func TestAggregator_StatsIsCopy(t *testing.T) {
	a := NewAggregator()
	a.Add(PacketEvent{SignalStrength: signal(-30)})

	stats := a.Stats()
	stats.Signals[0] = 0

	assert.Equal(t, []int{-30}, a.Stats().Signals)
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"timestamp": 1700000000.5, "type": 0, "subtype": 8, "signal_strength": -42, "src": "aa:bb:cc:dd:ee:ff", "dst": "ff:ff:ff:ff:ff:ff", "channel": 6}`))
	require.NoError(t, err)

	assert.Equal(t, 8, ev.Subtype)
	assert.Equal(t, -42, *ev.SignalStrength)
	assert.Equal(t, 6, *ev.Channel)
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", ev.Src)
	assert.Equal(t, time.Unix(1700000000, 500000000), ev.Time())

	ev, err = DecodeEvent([]byte(`{"timestamp": 1, "signal_strength": null, "src": null}`))
	require.NoError(t, err)
	assert.Nil(t, ev.SignalStrength)
	assert.Empty(t, ev.Src)

	_, err = DecodeEvent([]byte(`not json`))
	assert.Error(t, err)
}
