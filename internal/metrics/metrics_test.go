package metrics

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	m.PollCompleted("ok")
	m.PollCompleted("ok")
	m.PollCompleted("skipped")
	m.ActionCompleted("cancelled")
	m.PacketReceived()
	m.PacketDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.polls.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.polls.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.packets))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.packetsDropped))
}

func TestMetrics_Handler(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	m.PacketReceived()

	ts := httptest.NewServer(m.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "wifimon_packets_total 1")
}

func TestMetrics_Isolated(t *testing.T) {
	_, err := New()
	require.NoError(t, err)
	_, err = New()
	assert.NoError(t, err)
}
