package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"alpaca-hub/alpaca"
)

// DeviceClient addresses one device on a remote Alpaca server.
type DeviceClient struct {
	client *Client

	// Type and Number address the device on the wire.
	Type   alpaca.DeviceType
	Number int

	// Name and UniqueID are filled in by Devices; UniqueID is the identity
	// used to recognize one device reached through several addresses.
	Name     string
	UniqueID string
}

func (d *DeviceClient) path(action string) string {
	return fmt.Sprintf("/api/v1/%s/%d/%s", d.Type.Path(), d.Number, action)
}

// Get performs a GET action. When out is non-nil the response Value is
// decoded into it.
func (d *DeviceClient) Get(ctx context.Context, action string, params url.Values, out any) error {
	return d.client.exec(ctx, alpaca.MethodGet, d.path(action), params, out)
}

// Put performs a PUT action, discarding any response value.
func (d *DeviceClient) Put(ctx context.Context, action string, params url.Values) error {
	return d.client.exec(ctx, alpaca.MethodPut, d.path(action), params, nil)
}

// Connected reports the device's connection state.
func (d *DeviceClient) Connected(ctx context.Context) (bool, error) {
	var connected bool
	if err := d.Get(ctx, "connected", nil, &connected); err != nil {
		return false, err
	}
	return connected, nil
}

// SetConnected connects or disconnects the device.
func (d *DeviceClient) SetConnected(ctx context.Context, connected bool) error {
	return d.Put(ctx, "connected", url.Values{"Connected": {alpaca.FormatBool(connected)}})
}

// Action invokes a device-specific named action and returns its string
// result.
func (d *DeviceClient) Action(ctx context.Context, name, parameters string) (string, error) {
	var result string
	err := d.client.exec(ctx, alpaca.MethodPut, d.path("action"),
		url.Values{"Action": {name}, "Parameters": {parameters}}, &result)
	if err != nil {
		return "", err
	}
	return result, nil
}

// ImageArray fetches the device's current image. It asks for the binary
// imagebytes encoding and decodes whichever representation the server's
// Content-Type announces.
func (d *DeviceClient) ImageArray(ctx context.Context) (*alpaca.ImageArray, error) {
	mediaType, body, sent, err := d.client.roundTrip(ctx, alpaca.MethodGet, d.path("imagearray"), nil, alpaca.MediaTypeImageBytes)
	if err != nil {
		return nil, err
	}
	switch mediaType {
	case alpaca.MediaTypeImageBytes:
		img, txn, err := alpaca.DecodeImageBytes(body)
		if err != nil {
			// Either a framing error or a device error frame; the latter
			// decodes to *alpaca.Error and passes through intact.
			return nil, err
		}
		d.client.checkTransaction(sent, txn.ClientTransactionID)
		return img, nil
	case "application/json":
		env, err := d.client.decodeEnvelope(mediaType, body, sent)
		if err != nil {
			return nil, fmt.Errorf("imagearray: %w", err)
		}
		if env.ErrorNumber != 0 {
			return nil, alpaca.NewError(env.ErrorNumber, env.ErrorMessage)
		}
		// The image members flatten into the envelope, so the whole body
		// decodes as one ImageArray.
		img := new(alpaca.ImageArray)
		if err := json.Unmarshal(body, img); err != nil {
			return nil, fmt.Errorf("imagearray: decode JSON image: %w", err)
		}
		return img, nil
	default:
		return nil, fmt.Errorf("imagearray: unexpected content type %q", mediaType)
	}
}
