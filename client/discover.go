package client

import (
	"context"
	"net/netip"

	"github.com/rs/zerolog"

	"alpaca-hub/discovery"
)

// DiscoverServers finds Alpaca servers on the local network and returns one
// Client per distinct address that also answers the management description
// probe. Addresses that answered discovery but not the management API are
// skipped with a warning.
func DiscoverServers(ctx context.Context, dc *discovery.Client, log zerolog.Logger) ([]*Client, error) {
	addrs, err := dc.Discover(ctx)
	if err != nil {
		return nil, err
	}
	probed := make(map[netip.AddrPort]bool, len(addrs))
	var clients []*Client
	for _, addr := range addrs {
		if probed[addr] {
			continue
		}
		probed[addr] = true
		c := NewFromAddr(addr)
		c.Log = log
		if _, err := c.Description(ctx); err != nil {
			log.Warn().Err(err).Stringer("addr", addr).
				Msg("discovered server did not answer management probe")
			continue
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// DiscoverDevices finds every device on the local network. Devices are
// deduplicated by UniqueID, so a server reachable over several interfaces
// still contributes each device once.
func DiscoverDevices(ctx context.Context, dc *discovery.Client, log zerolog.Logger) ([]*DeviceClient, error) {
	servers, err := DiscoverServers(ctx, dc, log)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var devices []*DeviceClient
	for _, srv := range servers {
		found, err := srv.Devices(ctx)
		if err != nil {
			log.Warn().Err(err).Str("server", srv.BaseURL).Msg("device listing failed")
			continue
		}
		for _, d := range found {
			if d.UniqueID != "" {
				if seen[d.UniqueID] {
					continue
				}
				seen[d.UniqueID] = true
			}
			devices = append(devices, d)
		}
	}
	return devices, nil
}
