// Package ipswitch drives a networked relay controller as an Alpaca switch
// device. The controller speaks a small JSON API over HTTP with Digest
// authentication:
//
//	GET /relays          state of every channel
//	GET /relay/{n}       state of one channel
//	PUT /relay/{n}       {"on":bool} switches one channel
//
// Host supports an optional port, e.g. "192.168.1.3:8000".
package ipswitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/icholy/digest"
	"github.com/rs/zerolog"

	"alpaca-hub/alpaca"
	"alpaca-hub/backend"
)

const (
	driverInfo       = "alpaca-hub IP relay switch"
	driverVersion    = "1.0"
	interfaceVersion = 3
)

// codeRelayFault is the driver-specific error number reported when the
// controller cannot be reached or answers badly.
const codeRelayFault = alpaca.CodeDriverBase

// RelayConfig names one controller channel exposed as a switch.
type RelayConfig struct {
	Channel     int32  `toml:"channel"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
}

// Config holds connection details for one relay controller.
type Config struct {
	backend.Info
	Host     string        `toml:"host"`
	Username string        `toml:"username"`
	Password string        `toml:"password"`
	Relays   []RelayConfig `toml:"relay"`
}

type relay struct {
	channel     int32
	name        string
	description string
	on          bool // cached last-known state
}

// Bank exposes the configured relay channels as one Alpaca switch device.
// Switch ids are positions in the configured relay list, not controller
// channel numbers.
//
// Reads poll the controller and refresh the cache, so unlike the simulators
// the bank carries its own lock: the dispatcher admits concurrent reads, and
// two polls would race on the cache without it.
type Bank struct {
	alpaca.UnimplementedSwitch
	backend.Base

	host   string
	client *http.Client
	log    zerolog.Logger

	mu     sync.RWMutex
	relays []*relay
}

// New creates a Bank from a controller config.
func New(cfg Config, log zerolog.Logger) *Bank {
	if cfg.Name == "" {
		cfg.Name = "IP Relay Bank"
	}
	relays := make([]*relay, len(cfg.Relays))
	for i, rc := range cfg.Relays {
		name := rc.Name
		if name == "" {
			name = fmt.Sprintf("Relay %d", rc.Channel)
		}
		relays[i] = &relay{channel: rc.Channel, name: name, description: rc.Description}
	}
	return &Bank{
		Base: backend.NewBase(cfg.Info, driverInfo, driverVersion, interfaceVersion),
		host: cfg.Host,
		client: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &digest.Transport{
				Username: cfg.Username,
				Password: cfg.Password,
			},
		},
		log:    log,
		relays: relays,
	}
}

// SetConnected pulls the bank state from the controller on connect. A
// controller that does not answer keeps its cached state; it may still come
// up later, and every read polls again.
func (b *Bank) SetConnected(ctx context.Context, connected bool) error {
	if err := b.Base.SetConnected(ctx, connected); err != nil {
		return err
	}
	if connected {
		b.refresh(ctx)
	}
	return nil
}

func (b *Bank) refresh(ctx context.Context) {
	states, err := b.fetchBank(ctx)
	if err != nil {
		b.log.Warn().Err(err).Str("host", b.host).Msg("relay controller probe failed")
		return
	}
	byChannel := make(map[int32]bool, len(states))
	for _, st := range states {
		byChannel[st.Channel] = st.On
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range b.relays {
		on, ok := byChannel[r.channel]
		if !ok {
			b.log.Warn().Int32("channel", r.channel).Msg("controller does not report configured channel")
			continue
		}
		r.on = on
	}
}

// relayByID validates a switch id. The relay slice never changes after New,
// only the entries do, so no lock is needed here.
func (b *Bank) relayByID(id int32) (*relay, error) {
	if id < 0 || int(id) >= len(b.relays) {
		return nil, alpaca.NewErrorf(alpaca.CodeInvalidValue, "Id %d outside 0..%d", id, len(b.relays)-1)
	}
	return b.relays[id], nil
}

func (b *Bank) MaxSwitch(context.Context) (int32, error) {
	return int32(len(b.relays)), nil
}

func (b *Bank) CanWrite(_ context.Context, id int32) (bool, error) {
	if _, err := b.relayByID(id); err != nil {
		return false, err
	}
	return true, nil
}

func (b *Bank) GetSwitchName(_ context.Context, id int32) (string, error) {
	r, err := b.relayByID(id)
	if err != nil {
		return "", err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return r.name, nil
}

func (b *Bank) SetSwitchName(_ context.Context, id int32, name string) error {
	r, err := b.relayByID(id)
	if err != nil {
		return err
	}
	b.mu.Lock()
	r.name = name
	b.mu.Unlock()
	return nil
}

func (b *Bank) GetSwitchDescription(_ context.Context, id int32) (string, error) {
	r, err := b.relayByID(id)
	if err != nil {
		return "", err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if r.description != "" {
		return r.description, nil
	}
	return fmt.Sprintf("%s on relay channel %d", r.name, r.channel), nil
}

func (b *Bank) MinSwitchValue(_ context.Context, id int32) (float64, error) {
	if _, err := b.relayByID(id); err != nil {
		return 0, err
	}
	return 0, nil
}

func (b *Bank) MaxSwitchValue(_ context.Context, id int32) (float64, error) {
	if _, err := b.relayByID(id); err != nil {
		return 0, err
	}
	return 1, nil
}

func (b *Bank) SwitchStep(_ context.Context, id int32) (float64, error) {
	if _, err := b.relayByID(id); err != nil {
		return 0, err
	}
	return 1, nil
}

// GetSwitch polls the channel and refreshes the cache, so a relay toggled
// behind the hub's back still shows up.
func (b *Bank) GetSwitch(ctx context.Context, id int32) (bool, error) {
	r, err := b.relayByID(id)
	if err != nil {
		return false, err
	}
	if err := b.NeedsConnection(); err != nil {
		return false, err
	}
	on, err := b.fetchRelay(ctx, r.channel)
	if err != nil {
		return false, alpaca.NewErrorf(codeRelayFault, "channel %d: %v", r.channel, err)
	}
	b.mu.Lock()
	r.on = on
	b.mu.Unlock()
	return on, nil
}

// GetSwitchValue reports the cached state without touching the controller.
func (b *Bank) GetSwitchValue(_ context.Context, id int32) (float64, error) {
	r, err := b.relayByID(id)
	if err != nil {
		return 0, err
	}
	if err := b.NeedsConnection(); err != nil {
		return 0, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if r.on {
		return 1, nil
	}
	return 0, nil
}

func (b *Bank) SetSwitch(ctx context.Context, id int32, state bool) error {
	r, err := b.relayByID(id)
	if err != nil {
		return err
	}
	if err := b.NeedsConnection(); err != nil {
		return err
	}
	if err := b.pushRelay(ctx, r.channel, state); err != nil {
		return alpaca.NewErrorf(codeRelayFault, "channel %d: %v", r.channel, err)
	}
	b.mu.Lock()
	r.on = state
	b.mu.Unlock()
	b.log.Info().Int32("channel", r.channel).Bool("on", state).Msg("relay set")
	return nil
}

// SetSwitchValue maps any non-zero value to on.
func (b *Bank) SetSwitchValue(ctx context.Context, id int32, value float64) error {
	if value < 0 || value > 1 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "Value %g outside 0..1", value)
	}
	return b.SetSwitch(ctx, id, value != 0)
}

// ---------- low-level controller calls ----------

type relayState struct {
	Channel int32 `json:"channel"`
	On      bool  `json:"on"`
}

func (b *Bank) fetchBank(ctx context.Context) ([]relayState, error) {
	var bank struct {
		Relays []relayState `json:"relays"`
	}
	if err := b.getJSON(ctx, fmt.Sprintf("http://%s/relays", b.host), &bank); err != nil {
		return nil, err
	}
	return bank.Relays, nil
}

func (b *Bank) fetchRelay(ctx context.Context, channel int32) (bool, error) {
	var st relayState
	if err := b.getJSON(ctx, fmt.Sprintf("http://%s/relay/%d", b.host, channel), &st); err != nil {
		return false, err
	}
	return st.On, nil
}

func (b *Bank) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("controller returned %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (b *Bank) pushRelay(ctx context.Context, channel int32, on bool) error {
	payload, err := json.Marshal(struct {
		On bool `json:"on"`
	}{On: on})
	if err != nil {
		return fmt.Errorf("marshal command: %w", err)
	}
	url := fmt.Sprintf("http://%s/relay/%d", b.host, channel)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("PUT %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("controller returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
