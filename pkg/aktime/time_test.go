package aktime

import (
	"testing"

	"github.com/arkimet/arkimet/pkg/binary"
)

func TestNormaliseOverflow(t *testing.T) {
	// Scenario A: Time(2007, 2, 29, 25, 0, 0).normalise() -> 2007-03-02T01:00:00
	got := New(2007, 2, 29, 25, 0, 0).Normalise()
	want := Time{2007, 3, 2, 1, 0, 0}
	if got != want {
		t.Errorf("got %+v want %+v", got, want)
	}
}

func TestCreateUpperboundYear(t *testing.T) {
	got := CreateUpperbound(2007, -1, -1, -1, -1, -1)
	want := Time{2007, 12, 31, 23, 59, 59}
	if got != want {
		t.Errorf("got %+v want %+v", got, want)
	}
}

func TestLeapYearDaysInMonth(t *testing.T) {
	if DaysInMonth(2000, 2) != 29 {
		t.Error("2000 should be a leap year (div by 400)")
	}
	if DaysInMonth(1900, 2) != 28 {
		t.Error("1900 should not be a leap year (div by 100, not 400)")
	}
	if DaysInMonth(2004, 2) != 29 {
		t.Error("2004 should be a leap year (div by 4)")
	}
}

func TestCompareOrdering(t *testing.T) {
	a := New(2007, 1, 1, 0, 0, 0)
	b := New(2007, 1, 1, 0, 0, 1)
	if a.Compare(b) >= 0 {
		t.Error("expected a < b")
	}
	if !a.Less(b) {
		t.Error("expected a.Less(b)")
	}
}

func TestEaster(t *testing.T) {
	// Easter 2007 was April 8th.
	e := Easter(2007)
	if e.Mo != 4 || e.Da != 8 {
		t.Errorf("easter 2007: got %02d-%02d want 04-08", e.Mo, e.Da)
	}
}

func TestPackedTimeRoundTrip(t *testing.T) {
	orig := New(2007, 1, 2, 3, 4, 5)
	e := binary.NewEncoder()
	orig.Encode(e)
	if len(e.Dest) != 5 {
		t.Fatalf("expected 5-byte packed encoding, got %d bytes", len(e.Dest))
	}
	d := binary.NewDecoder(e.Dest)
	got, err := Decode(d)
	if err != nil {
		t.Fatal(err)
	}
	if got != orig {
		t.Errorf("packed time round trip: got %+v want %+v", got, orig)
	}
}
