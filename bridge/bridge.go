// Package bridge pumps messages between a console's RCP connection and a pair of
// OSC sockets.
//
// Two pumps run concurrently. The RCP->OSC pump frames the TCP stream into lines,
// translates each into an OSC message and sends it to the OSC destination. The
// OSC->RCP pump decodes datagrams from the listen socket and turns each message
// into a console command. Both pumps write to the console through a single
// writer goroutine. Whichever pump stops first tears the other down.
package bridge

import (
	"context"
	"errors"
	"net"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jdginn/rcposc/devices"
	"github.com/jdginn/rcposc/devices/yamaha"
	"github.com/jdginn/rcposc/logging"
	"github.com/jdginn/rcposc/metrics"
	"github.com/jdginn/rcposc/rcp"
	"github.com/jdginn/rcposc/translate"
)

const (
	maxDatagramSize = 65535
	metaPrefix      = "/meta/"
)

// Deps holds everything a Bridge runs over. The bridge takes ownership of the
// three connections and closes them when Run returns.
type Deps struct {
	Console net.Conn
	OSCOut  net.PacketConn
	OSCIn   net.PacketConn
	OSCDest net.Addr

	// MetaControl consumes OSC messages under /meta/ locally.
	MetaControl bool
	Metrics     *metrics.Metrics // optional
}

type Bridge struct {
	console net.Conn
	oscOut  net.PacketConn
	oscIn   net.PacketConn
	dest    net.Addr

	metaControl bool
	control     *devices.Dispatcher
	metrics     *metrics.Metrics

	closeOnce sync.Once
}

func New(deps Deps) *Bridge {
	control := devices.NewDispatcher()
	control.AddMsgHandler(logging.LevelRoute, logging.HandleOSCSetCategoryLevel)

	return &Bridge{
		console:     deps.Console,
		oscOut:      deps.OSCOut,
		oscIn:       deps.OSCIn,
		dest:        deps.OSCDest,
		metaControl: deps.MetaControl,
		control:     control,
		metrics:     deps.Metrics,
	}
}

// FromConns builds a Bridge over sockets returned by Dial.
func FromConns(c *Conns, metaControl bool, m *metrics.Metrics) *Bridge {
	return New(Deps{
		Console:     c.Console,
		OSCOut:      c.OSCOut,
		OSCIn:       c.OSCIn,
		OSCDest:     c.OSCDest,
		MetaControl: metaControl,
		Metrics:     m,
	})
}

// Control exposes the dispatcher for /meta/ messages so callers can add routes.
func (b *Bridge) Control() *devices.Dispatcher {
	return b.control
}

// Run pumps messages until the console closes the connection, ctx is
// cancelled, or either pump hits an I/O error. The first two return nil.
func (b *Bridge) Run(ctx context.Context) error {
	log := logging.Get(logging.BRIDGE)
	w := newLineWriter(b.console)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.run(gctx)
	})
	g.Go(func() error {
		err := b.pumpRCPToOSC(gctx, w)
		log.Info("RCP to OSC pump stopped", "error", err)
		return err
	})
	g.Go(func() error {
		err := b.pumpOSCToRCP(gctx, w)
		log.Info("OSC to RCP pump stopped", "error", err)
		return err
	})
	g.Go(func() error {
		// Blocked reads only return once their socket is closed.
		<-gctx.Done()
		b.Close()
		return nil
	})

	err := g.Wait()
	switch {
	case errors.Is(err, rcp.ErrPeerClosed):
		log.Info("Connection closed by console")
		return nil
	case ctx.Err() != nil:
		return nil
	default:
		return err
	}
}

// Close closes all three connections. It is safe to call more than once.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		b.console.Close()
		b.oscIn.Close()
		b.oscOut.Close()
	})
}

func (b *Bridge) pumpRCPToOSC(ctx context.Context, w *lineWriter) error {
	var framer rcp.Framer
	err := framer.ReadLines(b.console, func(line string) error {
		return b.handleConsoleLine(ctx, w, line)
	})
	if ctx.Err() != nil && !errors.Is(err, rcp.ErrPeerClosed) {
		return nil
	}
	return err
}

// handleConsoleLine forwards one console line. Only I/O failures are returned;
// lines that cannot be translated are logged and dropped.
func (b *Bridge) handleConsoleLine(ctx context.Context, w *lineWriter, line string) error {
	b.metrics.RCPLineReceived()
	trimmed := strings.TrimSpace(line)
	tokens := rcp.Split(trimmed)
	if len(tokens) == 0 {
		logging.Get(logging.RCP_IN).Debug("Skipping empty RCP line")
		return nil
	}
	logging.Get(logging.RCP_IN).Info("Received RCP", "line", trimmed)

	msg, err := translate.TokensToOSC(tokens, trimmed)
	if err != nil {
		b.metrics.TranslateError(metrics.DirectionRCPToOSC, err)
		logging.Get(logging.RCP_IN).Warn("Failed to convert RCP to OSC",
			"kind", rcp.KindOf(err),
			"line", trimmed,
			"error", err)
		return nil
	}

	if cmd, ok := yamaha.FollowUp(tokens); ok {
		if err := w.Write(ctx, cmd); err != nil {
			logging.Get(logging.RCP_OUT).Error("Failed to write to RCP stream", "command", cmd, "error", err)
			return err
		}
		b.metrics.SideChannelCommand()
		b.metrics.RCPCommandWritten()
		logging.Get(logging.RCP_OUT).Info("Sent RCP follow-up", "command", cmd)
	}

	packet, err := devices.Encode(msg)
	if err != nil {
		b.metrics.TranslateError(metrics.DirectionRCPToOSC, err)
		logging.Get(logging.OSC_OUT).Warn("Failed to encode OSC message",
			"message", msg.String(),
			"line", trimmed,
			"error", err)
		return nil
	}
	if _, err := b.oscOut.WriteTo(packet, b.dest); err != nil {
		logging.Get(logging.OSC_OUT).Error("Failed to send OSC message", "dest", b.dest.String(), "error", err)
		return rcp.Wrap(rcp.Io, trimmed, err)
	}
	b.metrics.OSCMessageSent()
	logging.Get(logging.OSC_OUT).Info("Sending OSC", "message", msg.String())
	return nil
}

func (b *Bridge) pumpOSCToRCP(ctx context.Context, w *lineWriter) error {
	buf := make([]byte, maxDatagramSize)
	for {
		n, from, err := b.oscIn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logging.Get(logging.OSC_IN).Error("Error receiving OSC message", "error", err)
			return rcp.Wrap(rcp.Io, "", err)
		}
		b.metrics.OSCPacketReceived()
		if err := b.handleDatagram(ctx, w, buf[:n], from); err != nil {
			return err
		}
	}
}

// handleDatagram forwards one OSC packet. As with console lines, only I/O
// failures are returned.
func (b *Bridge) handleDatagram(ctx context.Context, w *lineWriter, packet []byte, from net.Addr) error {
	log := logging.Get(logging.OSC_IN)

	msg, err := devices.Decode(packet)
	if err != nil {
		if errors.Is(err, devices.ErrBundle) {
			b.metrics.OSCBundleDropped()
			log.Warn("Received OSC bundle - dropped", "from", addrString(from), "bytes", len(packet))
			return nil
		}
		b.metrics.TranslateError(metrics.DirectionOSCToRCP, err)
		log.Warn("Failed to decode OSC packet",
			"kind", rcp.KindOf(err),
			"from", addrString(from),
			"bytes", len(packet),
			"error", err)
		return nil
	}
	log.Info("Received OSC", "message", msg.String(), "from", addrString(from))

	if b.metaControl && strings.HasPrefix(msg.Address, metaPrefix) {
		b.metrics.ControlMessage()
		if !b.control.Dispatch(msg) {
			log.Warn("Unknown control message", "address", msg.Address)
		}
		return nil
	}

	cmd, err := translate.ToRCP(msg)
	if err != nil {
		b.metrics.TranslateError(metrics.DirectionOSCToRCP, err)
		log.Warn("Failed to convert OSC to RCP",
			"kind", rcp.KindOf(err),
			"message", msg.String(),
			"error", err)
		return nil
	}

	if err := w.Write(ctx, cmd); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		logging.Get(logging.RCP_OUT).Error("Failed to write to RCP stream", "command", cmd, "error", err)
		return err
	}
	b.metrics.RCPCommandWritten()
	logging.Get(logging.RCP_OUT).Info("Sending RCP", "command", cmd)
	return nil
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
