package value

import (
	"testing"

	"github.com/arkimet/arkimet/pkg/binary"
)

func roundTrip(t *testing.T, v Value) Value {
	t.Helper()
	e := binary.NewEncoder()
	v.Encode(e)
	d := binary.NewDecoder(e.Dest)
	got, err := Decode(d)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if d.HasData() {
		t.Errorf("leftover bytes after decode: %v", d.Buf)
	}
	return got
}

func TestIntRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 31, -32, 32, -33, 127, -128, 1000, -100000, 1 << 40} {
		got := roundTrip(t, Int(n))
		gi, ok := got.Int()
		if !ok || gi != n {
			t.Errorf("int round trip: got %v want %d", got, n)
		}
	}
}

func TestStrRoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "hello world", "exactly 63 chars long string padded with xxxxxxxxxxxxxxxxxxxxxxxxxx"[:63]} {
		got := roundTrip(t, Str(s))
		gs, ok := got.Str()
		if !ok || gs != s {
			t.Errorf("str round trip: got %q want %q", gs, s)
		}
	}
}

func TestBagTextRoundTrip(t *testing.T) {
	b := NewBag()
	b.Set("b", Int(42))
	b.Set("a", Str("hello"))
	b.Set("c", Str("  padded  "))

	text := b.String()
	parsed, err := ParseBag(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !b.Equal(parsed) {
		t.Errorf("bag text round trip mismatch: %q -> %v, want %v", text, parsed.Entries(), b.Entries())
	}
}

func TestBagSortedOrder(t *testing.T) {
	b := NewBag()
	b.Set("z", Int(1))
	b.Set("a", Int(2))
	b.Set("m", Int(3))

	keys := make([]string, 0, 3)
	for _, e := range b.Entries() {
		keys = append(keys, e.Key)
	}
	want := []string{"a", "m", "z"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("bag not sorted: %v", keys)
		}
	}
}

func TestBagBinaryRoundTrip(t *testing.T) {
	b := NewBag()
	b.Set("centre", Int(200))
	b.Set("name", Str("test"))

	e := binary.NewEncoder()
	b.Encode(e)

	d := binary.NewDecoder(e.Dest)
	got, err := DecodeBag(d)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Equal(got) {
		t.Errorf("bag binary round trip mismatch: got %v want %v", got.Entries(), b.Entries())
	}
}
