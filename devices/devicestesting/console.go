// Package devicestesting provides stand-ins for the console and for OSC peers so
// the bridge can be exercised end to end without hardware.
package devicestesting

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Console is the console's end of an in-memory RCP connection. Every line the
// bridge writes is collected in the background so the bridge never blocks on it.
type Console struct {
	t     *testing.T
	conn  net.Conn
	lines chan string
}

// NewConsole returns the fake console and the connection to hand the bridge.
func NewConsole(t *testing.T) (*Console, net.Conn) {
	t.Helper()
	bridgeSide, consoleSide := net.Pipe()
	c := &Console{
		t:     t,
		conn:  consoleSide,
		lines: make(chan string, 128),
	}
	go func() {
		defer close(c.lines)
		s := bufio.NewScanner(consoleSide)
		for s.Scan() {
			c.lines <- s.Text()
		}
	}()
	t.Cleanup(func() {
		consoleSide.Close()
		bridgeSide.Close()
	})
	return c, bridgeSide
}

// Send writes raw bytes exactly as given, so tests can split lines across
// writes.
func (c *Console) Send(raw string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(raw))
	require.NoError(c.t, err)
}

// Expect waits for the next complete line written by the bridge.
func (c *Console) Expect(timeout time.Duration) string {
	c.t.Helper()
	select {
	case line, ok := <-c.lines:
		require.True(c.t, ok, "console connection closed")
		return line
	case <-time.After(timeout):
		c.t.Fatalf("no rcp command within %v", timeout)
		return ""
	}
}

// ExpectNothing fails the test if the bridge writes a line within wait.
func (c *Console) ExpectNothing(wait time.Duration) {
	c.t.Helper()
	select {
	case line, ok := <-c.lines:
		if ok {
			c.t.Fatalf("unexpected rcp command %q", line)
		}
	case <-time.After(wait):
	}
}

// Close hangs up, as the console does when it drops the session.
func (c *Console) Close() {
	c.conn.Close()
}
