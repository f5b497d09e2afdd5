// Package transport implements the mDNS socket pair: a
// multicast-joined UDP endpoint used only for receiving, and a
// unicast UDP endpoint used to send the query and to receive unicast
// replies. The dual sockets are fanned in through a single
// readiness-multiplexed channel rather than exposed as two separate
// blocking reads.
package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"

	"golang.org/x/net/ipv4"
	"golang.org/x/sync/errgroup"

	mdnserrors "github.com/toddaustin07/mdns-resolver/internal/errors"
	"github.com/toddaustin07/mdns-resolver/internal/protocol"
)

// maxDatagramSize is generous for mDNS traffic; RFC 6762 §17 allows
// messages larger than the classic 512-byte DNS limit over UDP.
const maxDatagramSize = 9000

// Source identifies which socket in the pair delivered a Datagram.
type Source int

const (
	SourceMulticast Source = iota
	SourceUnicast
)

// Datagram is one received packet tagged with its source socket and
// sender address.
type Datagram struct {
	Src    net.Addr
	Data   []byte
	Origin Source
}

// Pair is the dual-socket endpoint a single Collector cycle owns.
// Both sockets are created together in New and must be closed
// together via Close, on every exit path.
type Pair struct {
	multicast net.PacketConn
	unicast   net.PacketConn

	group *net.UDPAddr

	closeOnce sync.Once
}

// New creates the multicast and unicast endpoints, joining the
// multicast group on iface (nil selects the system default,
// INADDR_ANY). If either bind fails, both are torn down and a
// NetworkError is returned without sending anything.
func New(iface *net.Interface) (*Pair, error) {
	group := &net.UDPAddr{IP: net.ParseIP(protocol.MulticastAddrIPv4), Port: protocol.Port}

	mc, err := listenMulticast(group, iface)
	if err != nil {
		return nil, &mdnserrors.NetworkError{Operation: "create multicast socket", Err: err,
			Details: fmt.Sprintf("bind %s:%d", protocol.MulticastAddrIPv4, protocol.Port)}
	}

	// Disable loopback so a query this resolver sends is never handed
	// back to its own listener as though it were another host's reply.
	if err := ipv4.NewPacketConn(mc).SetMulticastLoopback(false); err != nil {
		_ = mc.Close()
		return nil, &mdnserrors.NetworkError{Operation: "disable multicast loopback", Err: err}
	}

	uc, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		_ = mc.Close()
		return nil, &mdnserrors.NetworkError{Operation: "create unicast socket", Err: err,
			Details: "bind ephemeral port"}
	}

	return &Pair{
		multicast: mc,
		unicast:   uc,
		group:     group,
	}, nil
}

// listenMulticast binds a UDP socket to protocol.Port with
// SO_REUSEADDR (see reuseaddr_*.go) so this resolver can coexist with
// other mDNS listeners on the host, then joins the mDNS multicast
// group on iface (or the default interface if nil).
func listenMulticast(group *net.UDPAddr, iface *net.Interface) (net.PacketConn, error) {
	lc := net.ListenConfig{Control: setReuseAddr}

	conn, err := lc.ListenPacket(context.Background(), "udp4", net.JoinHostPort("0.0.0.0", strconv.Itoa(protocol.Port)))
	if err != nil {
		return nil, err
	}

	p := ipv4.NewPacketConn(conn)
	if err := p.JoinGroup(iface, &net.UDPAddr{IP: group.IP}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("join multicast group %s: %w", group.IP, err)
	}

	return conn, nil
}

// Send transmits the encoded query on the unicast socket to the mDNS
// multicast group.
func (p *Pair) Send(ctx context.Context, query []byte) error {
	select {
	case <-ctx.Done():
		return &mdnserrors.NetworkError{Operation: "send query", Err: ctx.Err()}
	default:
	}

	n, err := p.unicast.WriteTo(query, p.group)
	if err != nil {
		return &mdnserrors.NetworkError{Operation: "send query", Err: err,
			Details: fmt.Sprintf("write to %s", p.group)}
	}
	if n != len(query) {
		return &mdnserrors.NetworkError{Operation: "send query",
			Err: fmt.Errorf("partial write: %d/%d bytes", n, len(query))}
	}
	return nil
}

// Listen returns a channel fed by one reader goroutine per socket,
// implementing a select-on-{unicast,multicast} readiness multiplex.
// Go has no select(2) equivalent across two arbitrary net.PacketConns,
// so each socket gets its own goroutine and an errgroup.Group
// supervises both: it exits once ctx is done (the caller's deadline)
// or either reader hits a non-timeout error. The channel is closed
// once both readers have exited.
func (p *Pair) Listen(ctx context.Context) <-chan Datagram {
	out := make(chan Datagram)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.readLoop(ctx, p.multicast, SourceMulticast, out) })
	g.Go(func() error { return p.readLoop(ctx, p.unicast, SourceUnicast, out) })

	go func() {
		_ = g.Wait()
		close(out)
	}()

	return out
}

func (p *Pair) readLoop(ctx context.Context, conn net.PacketConn, origin Source, out chan<- Datagram) error {
	buf := make([]byte, maxDatagramSize)
	for {
		if deadline, ok := ctx.Deadline(); ok {
			_ = conn.SetReadDeadline(deadline)
		}

		n, src, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil // deadline/cancellation: normal cycle end, not a failure
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				return nil
			}
			return err
		}

		data := make([]byte, n)
		copy(data, buf[:n])

		select {
		case out <- Datagram{Data: data, Src: src, Origin: origin}:
		case <-ctx.Done():
			return nil
		}
	}
}

// Close releases both sockets. It is safe to call more than once;
// only the first call's errors are reported rather than swallowed.
func (p *Pair) Close() error {
	var mcErr, ucErr error
	p.closeOnce.Do(func() {
		mcErr = p.multicast.Close()
		ucErr = p.unicast.Close()
	})
	if mcErr != nil {
		return &mdnserrors.NetworkError{Operation: "close multicast socket", Err: mcErr}
	}
	if ucErr != nil {
		return &mdnserrors.NetworkError{Operation: "close unicast socket", Err: ucErr}
	}
	return nil
}
