// Package client implements the calling side of the Alpaca HTTP API:
// management queries, typed device actions and image transfers against a
// remote Alpaca server. Device-reported ASCOM failures come back as
// *alpaca.Error; anything else (connectivity, bad status, malformed body)
// is a plain transport error, so callers separate the two with errors.As.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"mime"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"alpaca-hub/alpaca"
)

// Client talks to one Alpaca server.
type Client struct {
	// BaseURL is the server root, e.g. "http://192.168.4.20:11111".
	BaseURL string
	// HTTPClient overrides http.DefaultClient when set.
	HTTPClient *http.Client
	// Log receives per-call traces and protocol warnings.
	Log zerolog.Logger

	// ClientID identifies this client in every request. New fills it with
	// a random nonzero value; the zero value means unidentified.
	ClientID uint32

	counter alpaca.Counter
}

// New creates a Client for the server at baseURL with a freshly allocated
// random ClientID.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Log:      zerolog.Nop(),
		ClientID: randomClientID(),
	}
}

// NewFromAddr creates a Client for a server found via discovery.
func NewFromAddr(addr netip.AddrPort) *Client {
	return New("http://" + addr.String())
}

func randomClientID() uint32 {
	for {
		if id := rand.Uint32(); id != 0 {
			return id
		}
	}
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

// roundTrip sends one request with the transaction parameters attached and
// returns the raw body with its media type. Non-2xx statuses are errors;
// the body is returned as-is for the caller to decode by media type.
func (c *Client) roundTrip(ctx context.Context, m alpaca.Method, path string, params url.Values, accept string) (mediaType string, body []byte, sent uint32, err error) {
	form := url.Values{}
	for k, vs := range params {
		form[k] = vs
	}
	sent = c.counter.Next()
	form.Set("ClientID", strconv.FormatUint(uint64(c.ClientID), 10))
	form.Set("ClientTransactionID", strconv.FormatUint(uint64(sent), 10))

	var req *http.Request
	switch m {
	case alpaca.MethodGet:
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+form.Encode(), nil)
	case alpaca.MethodPut:
		req, err = http.NewRequestWithContext(ctx, http.MethodPut, c.BaseURL+path, strings.NewReader(form.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	default:
		return "", nil, 0, fmt.Errorf("unsupported method %v", m)
	}
	if err != nil {
		return "", nil, 0, fmt.Errorf("build request for %s: %w", path, err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	c.Log.Debug().
		Stringer("method", m).Str("path", path).
		Uint32("client_id", c.ClientID).Uint32("txn", sent).
		Msg("alpaca request")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", nil, 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", nil, 0, fmt.Errorf("%s %s: server returned %s: %s",
			m, path, resp.Status, strings.TrimSpace(string(snippet)))
	}
	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, 0, fmt.Errorf("read response for %s: %w", path, err)
	}
	mediaType, _, err = mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return "", nil, 0, fmt.Errorf("bad Content-Type %q: %w", resp.Header.Get("Content-Type"), err)
	}
	return mediaType, body, sent, nil
}

// envelope is the part of every JSON response shared by all actions.
type envelope struct {
	ClientTransactionID uint32           `json:"ClientTransactionID"`
	ServerTransactionID uint32           `json:"ServerTransactionID"`
	ErrorNumber         alpaca.ErrorCode `json:"ErrorNumber"`
	ErrorMessage        string           `json:"ErrorMessage"`
	Value               json.RawMessage  `json:"Value"`
}

// exec performs one JSON-envelope call. A device-reported error becomes a
// *alpaca.Error; otherwise, when out is non-nil, the "Value" member is
// decoded into it.
func (c *Client) exec(ctx context.Context, m alpaca.Method, path string, params url.Values, out any) error {
	mediaType, body, sent, err := c.roundTrip(ctx, m, path, params, "")
	if err != nil {
		return err
	}
	env, err := c.decodeEnvelope(mediaType, body, sent)
	if err != nil {
		return fmt.Errorf("%s %s: %w", m, path, err)
	}
	if env.ErrorNumber != 0 {
		return alpaca.NewError(env.ErrorNumber, env.ErrorMessage)
	}
	if out == nil {
		return nil
	}
	if env.Value == nil {
		return fmt.Errorf("%s %s: response carries no Value", m, path)
	}
	if err := json.Unmarshal(env.Value, out); err != nil {
		return fmt.Errorf("%s %s: decode Value: %w", m, path, err)
	}
	return nil
}

func (c *Client) decodeEnvelope(mediaType string, body []byte, sent uint32) (envelope, error) {
	var env envelope
	if mediaType != "application/json" {
		return env, fmt.Errorf("unexpected content type %q", mediaType)
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	c.checkTransaction(sent, env.ClientTransactionID)
	return env, nil
}

// checkTransaction warns when the server echoed somebody else's transaction
// ID. The response is still used; a confused server is not a failed call.
func (c *Client) checkTransaction(sent, received uint32) {
	if received != 0 && received != sent {
		c.Log.Warn().Uint32("sent", sent).Uint32("received", received).
			Msg("ClientTransactionID mismatch")
	}
}

// APIVersions reports the Alpaca API versions the server supports.
func (c *Client) APIVersions(ctx context.Context) ([]int32, error) {
	var versions []int32
	if err := c.exec(ctx, alpaca.MethodGet, "/management/apiversions", nil, &versions); err != nil {
		return nil, err
	}
	return versions, nil
}

// Description reports the server's management description.
func (c *Client) Description(ctx context.Context) (alpaca.ServerDescription, error) {
	var desc alpaca.ServerDescription
	if err := c.exec(ctx, alpaca.MethodGet, "/management/v1/description", nil, &desc); err != nil {
		return alpaca.ServerDescription{}, err
	}
	return desc, nil
}

// ConfiguredDevices lists the devices the server exposes.
func (c *Client) ConfiguredDevices(ctx context.Context) ([]alpaca.ConfiguredDevice, error) {
	var devices []alpaca.ConfiguredDevice
	if err := c.exec(ctx, alpaca.MethodGet, "/management/v1/configureddevices", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Device returns a handle for one device on this server.
func (c *Client) Device(t alpaca.DeviceType, number int) *DeviceClient {
	return &DeviceClient{client: c, Type: t, Number: number}
}

// Devices builds a handle per configured device. Entries whose type this
// implementation does not know are skipped with a warning rather than
// failing the whole list.
func (c *Client) Devices(ctx context.Context) ([]*DeviceClient, error) {
	var configured []struct {
		DeviceName   string `json:"DeviceName"`
		DeviceType   string `json:"DeviceType"`
		DeviceNumber int    `json:"DeviceNumber"`
		UniqueID     string `json:"UniqueID"`
	}
	if err := c.exec(ctx, alpaca.MethodGet, "/management/v1/configureddevices", nil, &configured); err != nil {
		return nil, err
	}
	devices := make([]*DeviceClient, 0, len(configured))
	for _, cd := range configured {
		t, ok := alpaca.ParseDeviceTypePath(strings.ToLower(cd.DeviceType))
		if !ok {
			c.Log.Warn().Str("type", cd.DeviceType).Str("name", cd.DeviceName).
				Msg("skipping device with unsupported type")
			continue
		}
		d := c.Device(t, cd.DeviceNumber)
		d.Name = cd.DeviceName
		d.UniqueID = cd.UniqueID
		devices = append(devices, d)
	}
	return devices, nil
}
