package bridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net"
	"time"

	"github.com/jdginn/rcposc/config"
	"github.com/jdginn/rcposc/logging"
	"github.com/jdginn/rcposc/rcp"
)

// Conns are the three sockets a Bridge runs over.
type Conns struct {
	Console net.Conn
	OSCOut  *net.UDPConn
	OSCIn   *net.UDPConn
	OSCDest *net.UDPAddr
}

func (c *Conns) Close() error {
	var closers []io.Closer
	if c.Console != nil {
		closers = append(closers, c.Console)
	}
	if c.OSCOut != nil {
		closers = append(closers, c.OSCOut)
	}
	if c.OSCIn != nil {
		closers = append(closers, c.OSCIn)
	}

	var errs []error
	for _, closer := range closers {
		if err := closer.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Dial binds both OSC sockets and connects to the console, retrying the TCP
// connection up to cfg.Connect.Attempts times.
func Dial(ctx context.Context, cfg config.Config) (*Conns, error) {
	log := logging.Get(logging.BRIDGE)
	conns := &Conns{}

	dest, err := net.ResolveUDPAddr("udp", cfg.OSCOutAddr())
	if err != nil {
		return nil, rcp.Wrap(rcp.Io, cfg.OSCOutAddr(), fmt.Errorf("resolve osc destination: %w", err))
	}
	conns.OSCDest = dest

	conns.OSCOut, err = net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		return nil, rcp.Wrap(rcp.Io, "", fmt.Errorf("bind osc send socket: %w", err))
	}

	inAddr, err := net.ResolveUDPAddr("udp", cfg.OSCInAddr())
	if err != nil {
		conns.Close()
		return nil, rcp.Wrap(rcp.Io, cfg.OSCInAddr(), fmt.Errorf("resolve osc listen address: %w", err))
	}
	conns.OSCIn, err = net.ListenUDP("udp", inAddr)
	if err != nil {
		conns.Close()
		return nil, rcp.Wrap(rcp.Io, cfg.OSCInAddr(), fmt.Errorf("bind osc listen socket: %w", err))
	}
	log.Info("Listening for OSC messages", "addr", conns.OSCIn.LocalAddr().String())
	log.Info("Sending OSC messages", "addr", dest.String())

	conns.Console, err = dialConsole(ctx, cfg)
	if err != nil {
		conns.Close()
		return nil, err
	}
	log.Info("Connected to console", "addr", cfg.ConsoleAddr())
	return conns, nil
}

func dialConsole(ctx context.Context, cfg config.Config) (net.Conn, error) {
	log := logging.Get(logging.BRIDGE)
	backoff := BackoffConfig{
		InitialDelay: cfg.Connect.InitialDelay,
		MaxDelay:     cfg.Connect.MaxDelay,
		Multiplier:   cfg.Connect.Multiplier,
		Jitter:       cfg.Connect.Jitter,
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	addr := cfg.ConsoleAddr()

	var (
		dialer  net.Dialer
		lastErr error
	)
	for attempt := 1; attempt <= cfg.Connect.Attempts; attempt++ {
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if attempt == cfg.Connect.Attempts {
			break
		}

		delay := NextBackoffDelay(backoff, attempt, rng)
		log.Warn("Failed to connect to console, retrying",
			"addr", addr,
			"attempt", attempt,
			"delay", delay,
			"error", err)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return nil, rcp.Wrap(rcp.Io, addr, fmt.Errorf("connect to console after %d attempts: %w", cfg.Connect.Attempts, lastErr))
}
