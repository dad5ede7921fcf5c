package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"alpaca-hub/alpaca"
)

func buildImage(t *testing.T) *alpaca.ImageArray {
	t.Helper()
	img, err := alpaca.NewImageArray(2, 2, 1)
	if err != nil {
		t.Fatalf("new image: %v", err)
	}
	img.Set(0, 0, 0, 10)
	img.Set(0, 1, 0, 20)
	img.Set(1, 0, 0, 30)
	img.Set(1, 1, 0, 40)
	return img
}

func TestImageArrayPrefersBinary(t *testing.T) {
	want := buildImage(t)
	c := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		if !alpaca.AcceptsImageBytes(r.Header) {
			t.Error("request does not offer imagebytes")
		}
		w.Header().Set("Content-Type", alpaca.MediaTypeImageBytes)
		w.Write(alpaca.EncodeImageBytes(want, alpaca.ResponseTransaction{ClientTransactionID: 1, ServerTransactionID: 7}))
	})

	img, err := c.Device(alpaca.DeviceTypeCamera, 0).ImageArray(context.Background())
	if err != nil {
		t.Fatalf("imagearray: %v", err)
	}
	dim1, dim2, _ := img.Dims()
	if dim1 != 2 || dim2 != 2 {
		t.Fatalf("dims = %dx%d, want 2x2", dim1, dim2)
	}
	if img.At(1, 1, 0) != 40 {
		t.Fatalf("sample (1,1) = %d, want 40", img.At(1, 1, 0))
	}
}

func TestImageArrayDecodesJSONFallback(t *testing.T) {
	want := buildImage(t)
	c := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		respond(t, w, alpaca.ResponseTransaction{ClientTransactionID: 1, ServerTransactionID: 7}, want)
	})

	img, err := c.Device(alpaca.DeviceTypeCamera, 0).ImageArray(context.Background())
	if err != nil {
		t.Fatalf("imagearray: %v", err)
	}
	if img.Rank() != 2 || img.At(0, 1, 0) != 20 {
		t.Fatalf("decoded rank %d, sample (0,1) = %d", img.Rank(), img.At(0, 1, 0))
	}
}

func TestImageArrayErrorFrame(t *testing.T) {
	c := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		devErr := alpaca.NewError(alpaca.CodeInvalidOperation, "no image has been taken")
		w.Header().Set("Content-Type", alpaca.MediaTypeImageBytes)
		w.Write(alpaca.EncodeImageBytesError(devErr, alpaca.ResponseTransaction{ClientTransactionID: 1, ServerTransactionID: 7}))
	})

	_, err := c.Device(alpaca.DeviceTypeCamera, 0).ImageArray(context.Background())
	var devErr *alpaca.Error
	if !errors.As(err, &devErr) {
		t.Fatalf("err = %v, want *alpaca.Error", err)
	}
	if devErr.Code != alpaca.CodeInvalidOperation {
		t.Fatalf("code = %v, want InvalidOperation", devErr.Code)
	}
}

func TestImageArrayJSONError(t *testing.T) {
	c := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := alpaca.MarshalErrorResponse(alpaca.ResponseTransaction{ClientTransactionID: 1, ServerTransactionID: 7}, alpaca.ErrNotConnected)
		if err != nil {
			t.Errorf("marshal error response: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	})

	_, err := c.Device(alpaca.DeviceTypeCamera, 0).ImageArray(context.Background())
	if !errors.Is(err, alpaca.ErrNotConnected) {
		t.Fatalf("err = %v, want NotConnected", err)
	}
}

func TestImageArrayRejectsOddContentType(t *testing.T) {
	c := newClientServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "not an image")
	})

	_, err := c.Device(alpaca.DeviceTypeCamera, 0).ImageArray(context.Background())
	if err == nil || !strings.Contains(err.Error(), "unexpected content type") {
		t.Fatalf("err = %v", err)
	}
}
