package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"

	"github.com/rs/zerolog"
	"golang.org/x/net/ipv6"
)

// Responder answers discovery requests with the port of the Alpaca HTTP
// server. The advertised port is independent of the port the responder
// itself listens on.
type Responder struct {
	// AlpacaPort is the HTTP API port to advertise.
	AlpacaPort uint16
	// ListenAddr is the UDP address to listen on. Empty means the default
	// discovery port on all interfaces.
	ListenAddr string
	// Log receives per-datagram diagnostics. The zero value discards them.
	Log zerolog.Logger
}

// ListenAndServe binds the discovery socket and serves until ctx is
// cancelled. When bound to an IPv6 wildcard it also joins the discovery
// multicast group on every multicast-capable interface.
func (r *Responder) ListenAndServe(ctx context.Context) error {
	addr := r.ListenAddr
	if addr == "" {
		addr = fmt.Sprintf(":%d", DefaultPort)
	}
	// Reusing the address keeps a respawned responder from racing the
	// kernel's release of the old socket.
	lc := net.ListenConfig{Control: controlReuseAddr}
	conn, err := lc.ListenPacket(ctx, "udp", addr)
	if err != nil {
		return fmt.Errorf("bind discovery responder: %w", err)
	}
	defer conn.Close()
	if ua, ok := conn.LocalAddr().(*net.UDPAddr); ok && ua.IP.To4() == nil && ua.IP.IsUnspecified() {
		r.joinMulticastGroups(conn)
	}
	return r.Serve(ctx, conn)
}

// Serve answers discovery requests on an already bound socket until ctx is
// cancelled. Per-datagram failures are logged and never end the loop.
func (r *Responder) Serve(ctx context.Context, conn net.PacketConn) error {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	reply, err := json.Marshal(alpacaPortMessage{AlpacaPort: r.AlpacaPort})
	if err != nil {
		return err
	}
	r.Log.Info().Stringer("addr", conn.LocalAddr()).Uint16("alpaca_port", r.AlpacaPort).
		Msg("discovery responder listening")

	// One byte longer than the token, so an oversized datagram reads more
	// than len(token) bytes and can never compare equal.
	buf := make([]byte, len(token)+1)
	for {
		n, src, err := conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			r.Log.Warn().Err(err).Msg("discovery read failed")
			continue
		}
		if !bytes.Equal(buf[:n], token) {
			r.Log.Warn().Stringer("src", src).Msg("ignoring unknown datagram")
			continue
		}
		r.Log.Debug().Stringer("src", src).Msg("answering discovery request")
		if _, err := conn.WriteTo(reply, src); err != nil {
			r.Log.Warn().Stringer("src", src).Err(err).Msg("discovery reply failed")
		}
	}
}

func (r *Responder) joinMulticastGroups(conn net.PacketConn) {
	p := ipv6.NewPacketConn(conn)
	group := &net.UDPAddr{IP: groupV6}
	ifaces, err := net.Interfaces()
	if err != nil {
		r.Log.Warn().Err(err).Msg("cannot list interfaces for multicast join")
		return
	}
	for i := range ifaces {
		ifi := &ifaces[i]
		if ifi.Flags&net.FlagUp == 0 || ifi.Flags&net.FlagMulticast == 0 {
			continue
		}
		if err := p.JoinGroup(ifi, group); err != nil {
			r.Log.Warn().Str("interface", ifi.Name).Err(err).Msg("multicast join failed")
			continue
		}
		r.Log.Debug().Str("interface", ifi.Name).Msg("joined discovery multicast group")
	}
}
