// Package metrics exposes Prometheus counters for the bridge's two pumps.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jdginn/rcposc/rcp"
)

const namespace = "rcposc"

// Directions label translate errors.
const (
	DirectionRCPToOSC = "rcp_to_osc"
	DirectionOSCToRCP = "osc_to_rcp"
)

// Metrics is nil-safe: a nil *Metrics records nothing.
type Metrics struct {
	rcpLinesReceived    prometheus.Counter
	oscMessagesSent     prometheus.Counter
	oscPacketsReceived  prometheus.Counter
	rcpCommandsWritten  prometheus.Counter
	sideChannelCommands prometheus.Counter
	oscBundlesDropped   prometheus.Counter
	controlMessages     prometheus.Counter
	translateErrors     *prometheus.CounterVec
}

// New creates the bridge metrics and registers them with reg. A nil reg
// returns nil metrics.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, nil
	}
	m := &Metrics{
		rcpLinesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rcp",
			Name:      "lines_received_total",
			Help:      "Complete RCP lines read from the console.",
		}),
		oscMessagesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "osc",
			Name:      "messages_sent_total",
			Help:      "OSC messages sent to the configured destination.",
		}),
		oscPacketsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "osc",
			Name:      "packets_received_total",
			Help:      "UDP datagrams received on the OSC listen socket.",
		}),
		rcpCommandsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rcp",
			Name:      "commands_written_total",
			Help:      "Command lines written to the console, side channel included.",
		}),
		sideChannelCommands: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rcp",
			Name:      "side_channel_commands_total",
			Help:      "Synthetic follow-up commands injected after console notifications.",
		}),
		oscBundlesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "osc",
			Name:      "bundles_dropped_total",
			Help:      "OSC bundles received and dropped.",
		}),
		controlMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "osc",
			Name:      "control_messages_total",
			Help:      "OSC messages consumed by the bridge instead of forwarded.",
		}),
		translateErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translate_errors_total",
			Help:      "Messages discarded because they could not be translated, by direction and kind.",
		}, []string{"direction", "kind"}),
	}

	for _, c := range []prometheus.Collector{
		m.rcpLinesReceived,
		m.oscMessagesSent,
		m.oscPacketsReceived,
		m.rcpCommandsWritten,
		m.sideChannelCommands,
		m.oscBundlesDropped,
		m.controlMessages,
		m.translateErrors,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) RCPLineReceived() {
	if m != nil {
		m.rcpLinesReceived.Inc()
	}
}

func (m *Metrics) OSCMessageSent() {
	if m != nil {
		m.oscMessagesSent.Inc()
	}
}

func (m *Metrics) OSCPacketReceived() {
	if m != nil {
		m.oscPacketsReceived.Inc()
	}
}

func (m *Metrics) RCPCommandWritten() {
	if m != nil {
		m.rcpCommandsWritten.Inc()
	}
}

func (m *Metrics) SideChannelCommand() {
	if m != nil {
		m.sideChannelCommands.Inc()
	}
}

func (m *Metrics) OSCBundleDropped() {
	if m != nil {
		m.oscBundlesDropped.Inc()
	}
}

func (m *Metrics) ControlMessage() {
	if m != nil {
		m.controlMessages.Inc()
	}
}

// TranslateError counts a discarded message under the kind carried by err.
func (m *Metrics) TranslateError(direction string, err error) {
	if m != nil {
		m.translateErrors.WithLabelValues(direction, rcp.KindOf(err).String()).Inc()
	}
}
