package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/rcposc/rcp"
)

func TestNilMetricsAreSafe(t *testing.T) {
	m, err := New(nil)
	require.NoError(t, err)
	assert.Nil(t, m)

	assert.NotPanics(t, func() {
		m.RCPLineReceived()
		m.OSCMessageSent()
		m.OSCPacketReceived()
		m.RCPCommandWritten()
		m.SideChannelCommand()
		m.OSCBundleDropped()
		m.ControlMessage()
		m.TranslateError(DirectionRCPToOSC, rcp.Errorf(rcp.UnsupportedVerb, "", "x"))
	})
}

func TestCounters(t *testing.T) {
	assert := assert.New(t)
	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.RCPLineReceived()
	m.RCPLineReceived()
	m.SideChannelCommand()
	m.TranslateError(DirectionRCPToOSC, rcp.Errorf(rcp.UnsupportedVerb, "FOO", "x"))
	m.TranslateError(DirectionOSCToRCP, rcp.Errorf(rcp.InvalidAddress, "", "x"))
	m.TranslateError(DirectionOSCToRCP, rcp.Errorf(rcp.InvalidAddress, "", "y"))

	assert.Equal(2.0, testutil.ToFloat64(m.rcpLinesReceived))
	assert.Equal(1.0, testutil.ToFloat64(m.sideChannelCommands))
	assert.Equal(1.0, testutil.ToFloat64(m.translateErrors.WithLabelValues(DirectionRCPToOSC, "unsupported_verb")))
	assert.Equal(2.0, testutil.ToFloat64(m.translateErrors.WithLabelValues(DirectionOSCToRCP, "invalid_address")))
	assert.Equal(0.0, testutil.ToFloat64(m.oscMessagesSent))
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}
