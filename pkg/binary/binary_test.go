package binary

import "testing"

func TestVarintRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, 1 << 40, ^uint64(0)}
	for _, c := range cases {
		e := NewEncoder()
		e.AddVarint(c)
		got, n := DecodeVarint(e.Dest)
		if n == 0 {
			t.Fatalf("decode failed for %d", c)
		}
		if got != c {
			t.Errorf("varint round trip: got %d want %d", got, c)
		}
	}
}

func TestUintSintRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.AddUint(300, 2)
	if got := DecodeUint(e.Dest); got != 300 {
		t.Errorf("uint round trip: got %d want 300", got)
	}

	e = NewEncoder()
	e.AddSint(-5, 1)
	if got := DecodeSint(e.Dest); got != -5 {
		t.Errorf("sint round trip: got %d want -5", got)
	}
}

func TestTypeEnvelopeRoundTrip(t *testing.T) {
	// Scenario F: Origin::GRIB1(1,2,3) envelope.
	e := NewEncoder()
	e.AddTypeEnvelope(1, []byte{0x01, 0x01, 0x02, 0x03})

	want := []byte{0x01, 0x04, 0x01, 0x01, 0x02, 0x03}
	if len(e.Dest) != len(want) {
		t.Fatalf("unexpected envelope length: %v", e.Dest)
	}
	for i := range want {
		if e.Dest[i] != want[i] {
			t.Fatalf("envelope byte %d: got %x want %x", i, e.Dest[i], want[i])
		}
	}

	d := NewDecoder(e.Dest)
	code, body, err := d.PopTypeEnvelope()
	if err != nil {
		t.Fatal(err)
	}
	if code != 1 {
		t.Errorf("code: got %d want 1", code)
	}
	if string(body.Buf) != string([]byte{0x01, 0x01, 0x02, 0x03}) {
		t.Errorf("body: got %v", body.Buf)
	}
}

func TestBundleRoundTrip(t *testing.T) {
	e := NewEncoder()
	e.AddBundle("MD", 0, []byte("hello"))
	d := NewDecoder(e.Dest)
	sig, ver, payload, err := d.PopBundle()
	if err != nil {
		t.Fatal(err)
	}
	if sig != "MD" || ver != 0 || string(payload.Buf) != "hello" {
		t.Errorf("bundle round trip mismatch: sig=%q ver=%d payload=%q", sig, ver, payload.Buf)
	}
}

func TestInsufficientSize(t *testing.T) {
	d := NewDecoder([]byte{0x01})
	_, err := d.PopUint(4, "test value")
	if err == nil {
		t.Fatal("expected error")
	}
	pe, ok := err.(*ParseError)
	if !ok || !pe.InsufficientSize {
		t.Fatalf("expected insufficient size error, got %v", err)
	}
}
