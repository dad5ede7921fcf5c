package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/netip"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/ipv6"
)

// Client probes the local network for Alpaca servers. The zero value is
// usable: one request round, a one second silence window, the default port,
// IPv4 only.
type Client struct {
	// Port is the discovery port probes are sent to. Zero means the
	// default.
	Port uint16
	// NumRequests is how many probe rounds to run. Zero or negative means
	// one.
	NumRequests int
	// Timeout is how long to keep listening after the last reply in a
	// round. Zero means one second.
	Timeout time.Duration
	// EnableIPv6 also probes the discovery multicast group. Off by
	// default: most Alpaca deployments are IPv4-only and the extra probes
	// just slow discovery down.
	EnableIPv6 bool
	// Log receives per-probe diagnostics. The zero value discards them.
	Log zerolog.Logger
}

func (c *Client) port() int {
	if c.Port != 0 {
		return int(c.Port)
	}
	return DefaultPort
}

func (c *Client) numRequests() int {
	if c.NumRequests > 0 {
		return c.NumRequests
	}
	return 1
}

func (c *Client) timeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return time.Second
}

// Discover probes the network and returns the servers that answered, in
// arrival order, as (address, advertised port) pairs. The port is the one
// the server announced, not the discovery port. Results are not
// deduplicated: a server reachable through several interfaces, or answering
// several rounds, appears once per reply.
func (c *Client) Discover(ctx context.Context) ([]netip.AddrPort, error) {
	lc := net.ListenConfig{Control: controlBroadcast}
	conn4, err := lc.ListenPacket(ctx, "udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("bind discovery socket: %w", err)
	}
	defer conn4.Close()

	conns := []net.PacketConn{conn4}
	var conn6 net.PacketConn
	if c.EnableIPv6 {
		conn6, err = (&net.ListenConfig{}).ListenPacket(ctx, "udp6", ":0")
		if err != nil {
			c.Log.Warn().Err(err).Msg("IPv6 discovery unavailable")
		} else {
			defer conn6.Close()
			conns = append(conns, conn6)
		}
	}
	stop := context.AfterFunc(ctx, func() {
		for _, conn := range conns {
			conn.Close()
		}
	})
	defer stop()

	var (
		mu    sync.Mutex
		found []netip.AddrPort
	)
	for round := 0; round < c.numRequests(); round++ {
		c.sendV4Probes(conn4)
		if conn6 != nil {
			c.sendV6Probes(conn6)
		}
		var wg sync.WaitGroup
		for _, conn := range conns {
			wg.Add(1)
			go func(conn net.PacketConn) {
				defer wg.Done()
				c.collect(conn, func(ap netip.AddrPort) {
					mu.Lock()
					found = append(found, ap)
					mu.Unlock()
				})
			}(conn)
		}
		wg.Wait()
		if ctx.Err() != nil {
			return found, ctx.Err()
		}
	}
	return found, nil
}

// collect reads replies until the silence window elapses. The deadline
// rolls forward after every reply, so a slow burst is not cut short.
func (c *Client) collect(conn net.PacketConn, emit func(netip.AddrPort)) {
	buf := make([]byte, 1024)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(c.timeout()))
		n, src, err := conn.ReadFrom(buf)
		if err != nil {
			return
		}
		if ap, ok := c.parseReply(buf[:n], src); ok {
			emit(ap)
		}
	}
}

// parseReply decodes one discovery reply. The advertised port replaces the
// source port; IPv4-mapped sources are unmapped so IPv4 servers reached
// through an IPv6 socket come back as plain IPv4.
func (c *Client) parseReply(data []byte, src net.Addr) (netip.AddrPort, bool) {
	var msg alpacaPortMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.Log.Warn().Stringer("src", src).Err(err).Msg("ignoring malformed discovery reply")
		return netip.AddrPort{}, false
	}
	ua, ok := src.(*net.UDPAddr)
	if !ok {
		return netip.AddrPort{}, false
	}
	return netip.AddrPortFrom(ua.AddrPort().Addr().Unmap(), msg.AlpacaPort), true
}

// sendV4Probes sends the token to every interface's directed broadcast
// address. Loopback interfaces get a unicast probe: they have no usable
// broadcast address.
func (c *Client) sendV4Probes(conn net.PacketConn) {
	for _, ip := range c.broadcastTargets() {
		dst := &net.UDPAddr{IP: ip, Port: c.port()}
		if _, err := conn.WriteTo(token, dst); err != nil {
			c.Log.Warn().Stringer("dst", dst).Err(err).Msg("discovery probe failed")
			continue
		}
		c.Log.Debug().Stringer("dst", dst).Msg("sent discovery probe")
	}
}

func (c *Client) broadcastTargets() []net.IP {
	ifaces, err := net.Interfaces()
	if err != nil {
		c.Log.Warn().Err(err).Msg("cannot list interfaces")
		return nil
	}
	var out []net.IP
	for _, ifi := range ifaces {
		if ifi.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipnet, ok := a.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil {
				continue
			}
			if ifi.Flags&net.FlagLoopback != 0 {
				out = append(out, ip4)
				continue
			}
			mask := net.IP(ipnet.Mask).To4()
			if mask == nil {
				continue
			}
			bcast := make(net.IP, 4)
			for i := range bcast {
				bcast[i] = ip4[i] | ^mask[i]
			}
			out = append(out, bcast)
		}
	}
	return out
}

// sendV6Probes sends the token to the discovery multicast group once per
// multicast-capable interface, plus a unicast probe on loopback.
func (c *Client) sendV6Probes(conn net.PacketConn) {
	p := ipv6.NewPacketConn(conn)
	group := &net.UDPAddr{IP: groupV6, Port: c.port()}
	ifaces, err := net.Interfaces()
	if err != nil {
		c.Log.Warn().Err(err).Msg("cannot list interfaces")
		return
	}
	for i := range ifaces {
		ifi := &ifaces[i]
		if ifi.Flags&net.FlagUp == 0 || !hasIPv6(ifi) {
			continue
		}
		if ifi.Flags&net.FlagLoopback != 0 {
			dst := &net.UDPAddr{IP: net.IPv6loopback, Port: c.port()}
			if _, err := conn.WriteTo(token, dst); err != nil {
				c.Log.Warn().Stringer("dst", dst).Err(err).Msg("discovery probe failed")
			}
			continue
		}
		if ifi.Flags&net.FlagMulticast == 0 {
			continue
		}
		if err := p.SetMulticastInterface(ifi); err != nil {
			c.Log.Warn().Str("interface", ifi.Name).Err(err).Msg("cannot select multicast interface")
			continue
		}
		if _, err := conn.WriteTo(token, group); err != nil {
			c.Log.Warn().Str("interface", ifi.Name).Err(err).Msg("discovery probe failed")
		}
	}
}

func hasIPv6(ifi *net.Interface) bool {
	addrs, err := ifi.Addrs()
	if err != nil {
		return false
	}
	for _, a := range addrs {
		if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() == nil && ipnet.IP.To16() != nil {
			return true
		}
	}
	return false
}
