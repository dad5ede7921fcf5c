package alpaca

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseParamsCaseInsensitiveNames(t *testing.T) {
	p, err := ParseParams("CLIENTID=7&Duration=2.5")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	id, err := p.ExtractUint32("ClientID")
	if err != nil {
		t.Fatalf("extract ClientID: %v", err)
	}
	if id != 7 {
		t.Fatalf("ClientID got=%d", id)
	}
	d, err := p.ExtractFloat64("dUrAtIoN")
	if err != nil {
		t.Fatalf("extract duration: %v", err)
	}
	if d != 2.5 {
		t.Fatalf("duration got=%v", d)
	}
}

func TestParseParamsDuplicateKeepsFirstPositionLastValue(t *testing.T) {
	p, err := ParseParams("a=1&b=2&A=3")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("len got=%d", p.Len())
	}
	v, ok := p.MaybeString("a")
	if !ok || v != "3" {
		t.Fatalf("a got=%q ok=%v", v, ok)
	}
}

func TestParseParamsDecodesEscapes(t *testing.T) {
	p, err := ParseParams("Name=Main+Mirror%20Fan")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := p.ExtractString("Name")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if v != "Main Mirror Fan" {
		t.Fatalf("got=%q", v)
	}
}

func TestParseParamsBadEscapeFails(t *testing.T) {
	if _, err := ParseParams("a=%zz"); err == nil {
		t.Fatalf("expected escape error")
	}
}

func TestExtractIsSingleUse(t *testing.T) {
	p, err := ParseParams("Connected=true")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := p.ExtractBool("Connected"); err != nil {
		t.Fatalf("first extract: %v", err)
	}
	_, err = p.ExtractBool("Connected")
	var missing *MissingParamError
	if !errors.As(err, &missing) || missing.Name != "Connected" {
		t.Fatalf("expected MissingParamError, got %v", err)
	}
}

func TestExtractBoolStrictForms(t *testing.T) {
	for raw, want := range map[string]bool{"true": true, "True": true, "TRUE": true, "false": false, "FALSE": false} {
		p, err := ParseParams("State=" + raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		got, err := p.ExtractBool("State")
		if err != nil {
			t.Fatalf("extract %q: %v", raw, err)
		}
		if got != want {
			t.Fatalf("%q got=%v", raw, got)
		}
	}
	for _, raw := range []string{"1", "0", "yes", "on", ""} {
		p, err := ParseParams("State=" + raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		_, err = p.ExtractBool("State")
		var bad *BadParamError
		if !errors.As(err, &bad) {
			t.Fatalf("%q: expected BadParamError, got %v", raw, err)
		}
	}
}

func TestExtractInt32Bounds(t *testing.T) {
	p, err := ParseParams("a=2147483647&b=2147483648&c=x")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	v, err := p.ExtractInt32("a")
	if err != nil || v != 2147483647 {
		t.Fatalf("a got=%d err=%v", v, err)
	}
	var bad *BadParamError
	if _, err := p.ExtractInt32("b"); !errors.As(err, &bad) {
		t.Fatalf("b: expected BadParamError, got %v", err)
	}
	if _, err := p.ExtractInt32("c"); !errors.As(err, &bad) {
		t.Fatalf("c: expected BadParamError, got %v", err)
	}
}

func TestExtractUint32RejectsNegative(t *testing.T) {
	p, err := ParseParams("ClientTransactionID=-1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var bad *BadParamError
	if _, err := p.ExtractUint32("ClientTransactionID"); !errors.As(err, &bad) {
		t.Fatalf("expected BadParamError, got %v", err)
	}
}

func TestFinishExtractionLogsLeftovers(t *testing.T) {
	p, err := ParseParams("ClientID=1&Extra=junk")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := p.ExtractUint32("ClientID"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	var buf bytes.Buffer
	p.FinishExtraction(zerolog.New(&buf))
	if p.Len() != 0 {
		t.Fatalf("len after finish got=%d", p.Len())
	}
	if !strings.Contains(buf.String(), "extra") {
		t.Fatalf("leftover not logged: %s", buf.String())
	}
}

func TestFormatBool(t *testing.T) {
	if FormatBool(true) != "True" || FormatBool(false) != "False" {
		t.Fatalf("got %q/%q", FormatBool(true), FormatBool(false))
	}
}
