package alpaca

import (
	"encoding/json"
	"testing"
	"time"
)

func TestMarshalResponseScalar(t *testing.T) {
	b, err := MarshalResponse(ResponseTransaction{ClientTransactionID: 7, ServerTransactionID: 8}, int32(42))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ClientTransactionID":7,"ServerTransactionID":8,"ErrorNumber":0,"ErrorMessage":"","Value":42}`
	if string(b) != want {
		t.Fatalf("got  %s\nwant %s", b, want)
	}
}

func TestMarshalResponseOmitsAbsentClientTransactionID(t *testing.T) {
	b, err := MarshalResponse(ResponseTransaction{ServerTransactionID: 8}, "ok")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ServerTransactionID":8,"ErrorNumber":0,"ErrorMessage":"","Value":"ok"}`
	if string(b) != want {
		t.Fatalf("got  %s\nwant %s", b, want)
	}
}

func TestMarshalResponseNilValue(t *testing.T) {
	b, err := MarshalResponse(ResponseTransaction{ClientTransactionID: 1, ServerTransactionID: 2}, nil)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ClientTransactionID":1,"ServerTransactionID":2,"ErrorNumber":0,"ErrorMessage":""}`
	if string(b) != want {
		t.Fatalf("got  %s\nwant %s", b, want)
	}
}

func TestMarshalResponseArrayNestsUnderValue(t *testing.T) {
	b, err := MarshalResponse(ResponseTransaction{ServerTransactionID: 3}, []int32{1, 2, 3})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ServerTransactionID":3,"ErrorNumber":0,"ErrorMessage":"","Value":[1,2,3]}`
	if string(b) != want {
		t.Fatalf("got  %s\nwant %s", b, want)
	}
}

func TestMarshalResponseObjectFlattens(t *testing.T) {
	st := NewDeviceState(time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC))
	st.Add("Position", int32(1200))
	st.Add("IsMoving", false)
	b, err := MarshalResponse(ResponseTransaction{ServerTransactionID: 4}, st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ServerTransactionID":4,"ErrorNumber":0,"ErrorMessage":"","TimeStamp":"2026-08-25T12:00:00Z","Position":1200,"IsMoving":false}`
	if string(b) != want {
		t.Fatalf("got  %s\nwant %s", b, want)
	}
}

func TestMarshalResponseEmptyObject(t *testing.T) {
	b, err := MarshalResponse(ResponseTransaction{ServerTransactionID: 5}, struct{}{})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ServerTransactionID":5,"ErrorNumber":0,"ErrorMessage":""}`
	if string(b) != want {
		t.Fatalf("got  %s\nwant %s", b, want)
	}
}

func TestMarshalResponseValueResponseForcesNesting(t *testing.T) {
	desc := ServerDescription{ServerName: "alpaca-hub", Manufacturer: "test"}
	b, err := MarshalResponse(ResponseTransaction{ServerTransactionID: 6}, ValueResponse{Value: desc})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got struct {
		ServerTransactionID uint32
		Value               ServerDescription
	}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ServerTransactionID != 6 || got.Value != desc {
		t.Fatalf("got %+v", got)
	}
}

func TestMarshalErrorResponse(t *testing.T) {
	b, err := MarshalErrorResponse(ResponseTransaction{ClientTransactionID: 7, ServerTransactionID: 9}, ErrNotConnected)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"ClientTransactionID":7,"ServerTransactionID":9,"ErrorNumber":1031,"ErrorMessage":"Device is not connected"}`
	if string(b) != want {
		t.Fatalf("got  %s\nwant %s", b, want)
	}
}

func TestDeviceStateValueLookup(t *testing.T) {
	st := NewDeviceState(time.Now())
	st.Add("IsSafe", true)
	v, ok := st.Value("IsSafe")
	if !ok || v != true {
		t.Fatalf("got %v ok=%v", v, ok)
	}
	if _, ok := st.Value("Altitude"); ok {
		t.Fatalf("absent field reported present")
	}
}
