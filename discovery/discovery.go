// Package discovery implements the Alpaca UDP discovery protocol: a fixed
// token broadcast to a well-known port, answered with a tiny JSON message
// naming the port the HTTP API listens on. Discovery is best-effort; both
// sides tolerate lost, duplicated and malformed datagrams.
package discovery

import "net"

const (
	// DefaultPort is the UDP port discovery requests are sent to.
	DefaultPort = 32227
	// Token is the exact datagram payload that identifies a discovery
	// request. Responders reply only to datagrams byte-equal to it.
	Token = "alpacadiscovery1"

	// multicastGroupV6 is the discovery multicast group for IPv6 networks,
	// which have no broadcast addresses.
	multicastGroupV6 = "ff12::a1:9aca"
)

var (
	token   = []byte(Token)
	groupV6 = net.ParseIP(multicastGroupV6)
)

// alpacaPortMessage is the discovery reply payload.
type alpacaPortMessage struct {
	AlpacaPort uint16 `json:"AlpacaPort"`
}
