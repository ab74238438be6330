package devicestesting

import (
	"net"
	"testing"
	"time"

	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/rcposc/devices"
	"github.com/jdginn/rcposc/translate"
)

// OscPeer stands in for OSC control software: it receives what the bridge sends
// and sends datagrams of its own.
type OscPeer struct {
	t    *testing.T
	conn *net.UDPConn
}

func NewOscPeer(t *testing.T) *OscPeer {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &OscPeer{t: t, conn: conn}
}

// Addr is where the bridge should send OSC messages.
func (p *OscPeer) Addr() *net.UDPAddr {
	return p.conn.LocalAddr().(*net.UDPAddr)
}

// Receive waits for the next datagram and decodes it as a single message.
func (p *OscPeer) Receive(timeout time.Duration) translate.Message {
	p.t.Helper()
	b := p.ReceiveRaw(timeout)
	msg, err := devices.Decode(b)
	require.NoError(p.t, err)
	return msg
}

func (p *OscPeer) ReceiveRaw(timeout time.Duration) []byte {
	p.t.Helper()
	buf := make([]byte, 65535)
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(timeout)))
	n, _, err := p.conn.ReadFrom(buf)
	require.NoError(p.t, err, "no osc message within %v", timeout)
	return buf[:n]
}

// ExpectNothing fails the test if a datagram arrives within wait.
func (p *OscPeer) ExpectNothing(wait time.Duration) {
	p.t.Helper()
	buf := make([]byte, 65535)
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(wait)))
	n, _, err := p.conn.ReadFrom(buf)
	require.Error(p.t, err, "unexpected osc packet %q", buf[:n])
}

// Send builds a message with go-osc and sends it to addr.
func (p *OscPeer) Send(addr net.Addr, address string, args ...interface{}) {
	p.t.Helper()
	b, err := osc.NewMessage(address, args...).MarshalBinary()
	require.NoError(p.t, err)
	p.SendRaw(addr, b)
}

func (p *OscPeer) SendRaw(addr net.Addr, b []byte) {
	p.t.Helper()
	_, err := p.conn.WriteTo(b, addr)
	require.NoError(p.t, err)
}
