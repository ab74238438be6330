package bridge

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/rcposc/config"
	"github.com/jdginn/rcposc/logging"
	"github.com/jdginn/rcposc/rcp"
)

func testConfig(t *testing.T, consolePort int) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Console.Host = "127.0.0.1"
	cfg.Console.Port = consolePort
	cfg.OSC.InHost = "127.0.0.1"
	cfg.OSC.InPort = freeUDPPort(t)
	cfg.Connect.Attempts = 2
	cfg.Connect.InitialDelay = 10 * time.Millisecond
	return cfg
}

func freeUDPPort(t *testing.T) int {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := conn.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, conn.Close())
	return port
}

func TestDial(t *testing.T) {
	logging.SetOutput(io.Discard)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		if c, err := ln.Accept(); err == nil {
			defer c.Close()
			time.Sleep(100 * time.Millisecond)
		}
	}()

	cfg := testConfig(t, ln.Addr().(*net.TCPAddr).Port)
	conns, err := Dial(context.Background(), cfg)
	require.NoError(t, err)
	defer conns.Close()

	assert.Equal(t, cfg.OSCOutAddr(), conns.OSCDest.String())
	assert.Equal(t, cfg.OSC.InPort, conns.OSCIn.LocalAddr().(*net.UDPAddr).Port)
	assert.NotNil(t, conns.Console)
	assert.NoError(t, conns.Close())
	assert.NoError(t, conns.Close(), "closing twice is harmless")
}

func TestDialGivesUp(t *testing.T) {
	logging.SetOutput(io.Discard)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	_, err = Dial(context.Background(), testConfig(t, port))
	require.Error(t, err)
	assert.True(t, rcp.IsKind(err, rcp.Io))
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestDialCancelled(t *testing.T) {
	logging.SetOutput(io.Discard)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	cfg := testConfig(t, port)
	cfg.Connect.Attempts = 100
	cfg.Connect.InitialDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = Dial(ctx, cfg)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
