package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"alpaca-hub/alpaca"
)

type testCamera struct {
	alpaca.UnimplementedCamera

	connected bool
	binX      int32
	img       *alpaca.ImageArray
	imgErr    *alpaca.Error
}

func (c *testCamera) StaticName() string { return "Bench Camera" }
func (c *testCamera) UniqueID() string   { return "bench-cam-1" }

func (c *testCamera) Connected(context.Context) (bool, error) { return c.connected, nil }

func (c *testCamera) SetConnected(_ context.Context, v bool) error {
	c.connected = v
	return nil
}

func (c *testCamera) BinX(context.Context) (int32, error) { return c.binX, nil }

func (c *testCamera) SetBinX(_ context.Context, v int32) error {
	if v < 1 || v > 4 {
		return alpaca.NewErrorf(alpaca.CodeInvalidValue, "BinX %d out of range", v)
	}
	c.binX = v
	return nil
}

func (c *testCamera) CameraState(context.Context) (alpaca.CameraState, error) {
	return alpaca.CameraIdle, nil
}

func (c *testCamera) ImageReady(context.Context) (bool, error) { return c.img != nil, nil }

func (c *testCamera) ImageArray(context.Context) (*alpaca.ImageArray, error) {
	if c.imgErr != nil {
		return nil, c.imgErr
	}
	if c.img == nil {
		return nil, alpaca.ErrInvalidOperation
	}
	return c.img, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *testCamera) {
	t.Helper()
	cam := &testCamera{binX: 1}
	reg := alpaca.NewRegistry()
	if _, err := reg.Register(cam); err != nil {
		t.Fatalf("register camera: %v", err)
	}
	desc := alpaca.ServerDescription{
		ServerName:          "bench hub",
		Manufacturer:        "alpaca-hub",
		ManufacturerVersion: "0.0.0-test",
		Location:            "lab",
	}
	s := New(reg, desc, zerolog.New(io.Discard))
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(ts.Close)
	return ts, cam
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func put(t *testing.T, ts *httptest.Server, path, form string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPut, ts.URL+path, strings.NewReader(form))
	if err != nil {
		t.Fatalf("build PUT %s: %v", path, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT %s: %v", path, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func decodeEnvelope(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("decode response %q: %v", body, err)
	}
	return m
}

func TestPutThenGetConnected(t *testing.T) {
	ts, cam := newTestServer(t)

	resp, body := put(t, ts, "/api/v1/camera/0/connected", "Connected=true&ClientID=4&ClientTransactionID=9")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %q", resp.StatusCode, body)
	}
	env := decodeEnvelope(t, body)
	if env["ClientTransactionID"] != float64(9) {
		t.Fatalf("ClientTransactionID = %v, want 9", env["ClientTransactionID"])
	}
	if env["ErrorNumber"] != float64(0) {
		t.Fatalf("ErrorNumber = %v, want 0", env["ErrorNumber"])
	}
	if _, ok := env["Value"]; ok {
		t.Fatalf("PUT response carries a Value: %s", body)
	}
	if !cam.connected {
		t.Fatal("device not connected after PUT")
	}

	_, body = get(t, ts, "/api/v1/camera/0/connected?ClientID=4&ClientTransactionID=10")
	env = decodeEnvelope(t, body)
	if env["Value"] != true {
		t.Fatalf("Value = %v, want true", env["Value"])
	}
	if env["ClientTransactionID"] != float64(10) {
		t.Fatalf("ClientTransactionID = %v, want 10", env["ClientTransactionID"])
	}
}

func TestServerTransactionIDsAdvance(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts, "/api/v1/camera/0/binx")
	first := decodeEnvelope(t, body)["ServerTransactionID"].(float64)
	_, body = get(t, ts, "/api/v1/camera/0/binx")
	second := decodeEnvelope(t, body)["ServerTransactionID"].(float64)
	if second <= first {
		t.Fatalf("ServerTransactionID did not advance: %v then %v", first, second)
	}
}

func TestBoolParamAcceptsAnyCase(t *testing.T) {
	ts, cam := newTestServer(t)

	resp, body := put(t, ts, "/api/v1/camera/0/connected", "Connected=TRUE")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %q", resp.StatusCode, body)
	}
	if !cam.connected {
		t.Fatal("Connected=TRUE not applied")
	}
	resp, _ = put(t, ts, "/api/v1/camera/0/connected", "Connected=False")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if cam.connected {
		t.Fatal("Connected=False not applied")
	}
}

func TestBoolParamRejectsLooseForms(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := put(t, ts, "/api/v1/camera/0/connected", "Connected=yes")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %q", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "Connected") {
		t.Fatalf("error body does not name the parameter: %q", body)
	}
}

func TestMissingParamIs400(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := put(t, ts, "/api/v1/camera/0/connected", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %q", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "Connected") {
		t.Fatalf("error body does not name the parameter: %q", body)
	}
}

func TestParamNamesAreCaseInsensitive(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts, "/api/v1/camera/0/binx?ClIeNtTrAnSaCtIoNiD=42")
	env := decodeEnvelope(t, body)
	if env["ClientTransactionID"] != float64(42) {
		t.Fatalf("ClientTransactionID = %v, want 42", env["ClientTransactionID"])
	}
}

func TestUnknownActionIs400(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts, "/api/v1/camera/0/sharpen")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %q", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "sharpen") {
		t.Fatalf("error body does not name the action: %q", body)
	}
}

func TestActionMethodMismatchIs400(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := put(t, ts, "/api/v1/camera/0/camerastate", "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUnknownDeviceNumberIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts, "/api/v1/camera/7/connected")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %q", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "no camera device with number 7") {
		t.Fatalf("unexpected error body: %q", body)
	}
}

func TestUnknownDeviceTypeIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts, "/api/v1/toaster/0/connected")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %q", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "toaster") {
		t.Fatalf("error body does not name the type: %q", body)
	}
}

func TestDeviceTypePathIsCaseSensitive(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts, "/api/v1/Camera/0/connected")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestNegativeDeviceNumberIs400(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts, "/api/v1/camera/-1/binx")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestMalformedParamsAre400(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts, "/api/v1/camera/0/binx?ClientID=%zz")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("GET status = %d, want 400; body %q", resp.StatusCode, body)
	}
	resp, body = put(t, ts, "/api/v1/camera/0/connected", "Connected=%zz")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("PUT status = %d, want 400; body %q", resp.StatusCode, body)
	}
}

func TestDeviceErrorRidesInA200Envelope(t *testing.T) {
	ts, cam := newTestServer(t)

	resp, body := put(t, ts, "/api/v1/camera/0/binx", "BinX=9")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %q", resp.StatusCode, body)
	}
	env := decodeEnvelope(t, body)
	if env["ErrorNumber"] != float64(alpaca.CodeInvalidValue) {
		t.Fatalf("ErrorNumber = %v, want %d", env["ErrorNumber"], int32(alpaca.CodeInvalidValue))
	}
	if msg, _ := env["ErrorMessage"].(string); !strings.Contains(msg, "out of range") {
		t.Fatalf("ErrorMessage = %q", env["ErrorMessage"])
	}
	if cam.binX != 1 {
		t.Fatalf("binX = %d after rejected PUT, want 1", cam.binX)
	}
}

func TestDeviceStateFlattensIntoEnvelope(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts, "/api/v1/camera/0/devicestate")
	env := decodeEnvelope(t, body)
	if _, ok := env["Value"]; ok {
		t.Fatalf("devicestate nests under Value: %s", body)
	}
	if stamp, _ := env["TimeStamp"].(string); stamp == "" {
		t.Fatalf("missing TimeStamp: %s", body)
	}
	if env["CameraState"] != float64(alpaca.CameraIdle) {
		t.Fatalf("CameraState = %v, want %d", env["CameraState"], alpaca.CameraIdle)
	}
	if env["ImageReady"] != false {
		t.Fatalf("ImageReady = %v, want false", env["ImageReady"])
	}
}

func benchImage(t *testing.T) *alpaca.ImageArray {
	t.Helper()
	img, err := alpaca.NewImageArray(2, 3, 1)
	if err != nil {
		t.Fatalf("new image: %v", err)
	}
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			img.Set(i, j, 0, int32(100*i+j))
		}
	}
	return img
}

func TestImageArrayAsJSON(t *testing.T) {
	ts, cam := newTestServer(t)
	cam.img = benchImage(t)

	resp, body := get(t, ts, "/api/v1/camera/0/imagearray")
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q, want application/json", ct)
	}
	env := decodeEnvelope(t, body)
	if env["Type"] != float64(2) || env["Rank"] != float64(2) {
		t.Fatalf("Type/Rank = %v/%v, want 2/2", env["Type"], env["Rank"])
	}
	rows, ok := env["Value"].([]any)
	if !ok || len(rows) != 2 {
		t.Fatalf("Value = %v, want 2 rows", env["Value"])
	}
	first, ok := rows[0].([]any)
	if !ok || len(first) != 3 || first[2] != float64(2) {
		t.Fatalf("first row = %v", rows[0])
	}
}

func TestImageArrayAsImageBytes(t *testing.T) {
	ts, cam := newTestServer(t)
	cam.img = benchImage(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/camera/0/imagearray?ClientTransactionID=5", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Accept", alpaca.MediaTypeImageBytes)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET imagearray: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if ct := resp.Header.Get("Content-Type"); ct != alpaca.MediaTypeImageBytes {
		t.Fatalf("Content-Type = %q, want %q", ct, alpaca.MediaTypeImageBytes)
	}

	img, txn, err := alpaca.DecodeImageBytes(body)
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if txn.ClientTransactionID != 5 {
		t.Fatalf("ClientTransactionID = %d, want 5", txn.ClientTransactionID)
	}
	dim1, dim2, _ := img.Dims()
	if img.Rank() != 2 || dim1 != 2 || dim2 != 3 {
		t.Fatalf("decoded shape = rank %d, %dx%d", img.Rank(), dim1, dim2)
	}
	if got := img.At(1, 2, 0); got != 102 {
		t.Fatalf("sample (1,2) = %d, want 102", got)
	}
}

func TestImageBytesErrorFrame(t *testing.T) {
	ts, cam := newTestServer(t)
	cam.imgErr = alpaca.NewError(alpaca.CodeInvalidOperation, "no image has been taken")

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/camera/0/imagearray", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Accept", alpaca.MediaTypeImageBytes)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET imagearray: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	_, _, err = alpaca.DecodeImageBytes(body)
	var devErr *alpaca.Error
	if !errors.As(err, &devErr) {
		t.Fatalf("decode error = %v, want *alpaca.Error", err)
	}
	if devErr.Code != alpaca.CodeInvalidOperation || devErr.Message != "no image has been taken" {
		t.Fatalf("decoded error = %v", devErr)
	}
}

func TestManagementAPIVersions(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts, "/management/apiversions?ClientTransactionID=3")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	env := decodeEnvelope(t, body)
	if env["ClientTransactionID"] != float64(3) {
		t.Fatalf("ClientTransactionID = %v, want 3", env["ClientTransactionID"])
	}
	versions, ok := env["Value"].([]any)
	if !ok || len(versions) != 1 || versions[0] != float64(1) {
		t.Fatalf("Value = %v, want [1]", env["Value"])
	}
}

func TestManagementDescription(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts, "/management/v1/description")
	env := decodeEnvelope(t, body)
	value, ok := env["Value"].(map[string]any)
	if !ok {
		t.Fatalf("Value = %v, want object", env["Value"])
	}
	if value["ServerName"] != "bench hub" || value["Location"] != "lab" {
		t.Fatalf("description = %v", value)
	}
}

func TestManagementConfiguredDevices(t *testing.T) {
	ts, _ := newTestServer(t)

	_, body := get(t, ts, "/management/v1/configureddevices")
	env := decodeEnvelope(t, body)
	list, ok := env["Value"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("Value = %v, want one device", env["Value"])
	}
	dev := list[0].(map[string]any)
	if dev["DeviceName"] != "Bench Camera" || dev["DeviceType"] != "Camera" {
		t.Fatalf("device = %v", dev)
	}
	if dev["DeviceNumber"] != float64(0) || dev["UniqueID"] != "bench-cam-1" {
		t.Fatalf("device = %v", dev)
	}
}

func TestRootBanner(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), "bench hub") {
		t.Fatalf("banner = %q", body)
	}
}
