// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package aktime implements arkimet's broken-down calendar time and
// interval types (spec.md §3), including normalisation, the Meeus/Jones/
// Butcher Easter computation, and the 5-byte packed binary encoding used
// by Reftime and the summary's stats envelope.
package aktime

import (
	"fmt"
	"time"

	"github.com/arkimet/arkimet/pkg/binary"
)

// Time is broken-down calendar time: year, month, day, hour, minute,
// second. Ordering is lexicographic on the six fields.
type Time struct {
	Ye, Mo, Da, Ho, Mi, Se int
}

// New builds a Time from its six fields without normalising.
func New(ye, mo, da, ho, mi, se int) Time {
	return Time{ye, mo, da, ho, mi, se}
}

// IsZero reports whether the time is unset.
func (t Time) IsZero() bool { return t.Ye == 0 }

// Compare returns -1, 0, 1 lexicographically on the six fields.
func (t Time) Compare(o Time) int {
	if d := t.Ye - o.Ye; d != 0 {
		return sign(d)
	}
	if d := t.Mo - o.Mo; d != 0 {
		return sign(d)
	}
	if d := t.Da - o.Da; d != 0 {
		return sign(d)
	}
	if d := t.Ho - o.Ho; d != 0 {
		return sign(d)
	}
	if d := t.Mi - o.Mi; d != 0 {
		return sign(d)
	}
	return sign(t.Se - o.Se)
}

func sign(d int) int {
	switch {
	case d < 0:
		return -1
	case d > 0:
		return 1
	default:
		return 0
	}
}

func (t Time) Equal(o Time) bool { return t.Compare(o) == 0 }
func (t Time) Less(o Time) bool  { return t.Compare(o) < 0 }

// DaysInMonth returns the number of days in the given Gregorian year/month.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		panic(fmt.Sprintf("cannot compute days in month %d (needs to be between 1 and 12)", month))
	}
}

// IsLeapYear applies the Gregorian leap-year rule.
func IsLeapYear(year int) bool {
	return year%400 == 0 || (year%4 == 0 && year%100 != 0)
}

// DaysInYear returns 366 in leap years, 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// normN makes lo fit in [0, n), adjusting hi so hi*n+lo is unchanged.
func normN(lo, hi, n int) (int, int) {
	if lo < 0 {
		m := (-lo) / n
		if lo%n != 0 {
			m++
		}
		hi -= m
		lo = lo + m*n
		lo %= n
	} else {
		hi += lo / n
		lo %= n
	}
	return lo, hi
}

// Normalise carries/borrows across fields, respecting variable month
// lengths including the Gregorian leap rule, so every field ends in
// range (spec.md §8 law 4).
func (t Time) Normalise() Time {
	mo, da := t.Mo-1, t.Da-1
	se, mi, ho, ye := t.Se, t.Mi, t.Ho, t.Ye

	se, mi = normN(se, mi, 60)
	mi, ho = normN(mi, ho, 60)
	ho, da = normN(ho, da, 24)

	for da < 0 {
		mo--
		mo, ye = normN(mo, ye, 12)
		da += DaysInMonth(ye, mo+1)
	}
	for {
		mo, ye = normN(mo, ye, 12)
		dim := DaysInMonth(ye, mo+1)
		if da < dim {
			break
		}
		da -= dim
		mo++
	}
	mo, ye = normN(mo, ye, 12)

	return Time{ye, mo + 1, da + 1, ho, mi, se}
}

// Easter computes the date of Easter Sunday for the given year via the
// Meeus/Jones/Butcher Gregorian algorithm.
func Easter(year int) Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	mo := (h + l - 7*m + 114) / 31
	da := ((h+l-7*m+114)%31 + 1)
	return Time{year, mo, da, 0, 0, 0}
}

// CreateLowerbound fills missing (sentinel -1) fields with their minimum
// value, producing the lower bound of the interval implied by the given
// precision.
func CreateLowerbound(ye, mo, da, ho, mi, se int) Time {
	t := Time{Ye: ye}
	t.Mo = orDefault(mo, 1)
	t.Da = orDefault(da, 1)
	t.Ho = orDefault(ho, 0)
	t.Mi = orDefault(mi, 0)
	t.Se = orDefault(se, 0)
	return t
}

// CreateUpperbound fills missing (sentinel -1) fields so the result is the
// inclusive upper bound of the interval implied by the given precision.
func CreateUpperbound(ye, mo, da, ho, mi, se int) Time {
	var t Time
	if mo == -1 {
		t.Ye = ye + 1
	} else {
		t.Ye = ye
	}
	switch {
	case mo == -1:
		t.Mo = 1
	case da != -1:
		t.Mo = mo
	default:
		t.Mo = mo + 1
	}
	switch {
	case da == -1:
		t.Da = 1
	case ho != -1:
		t.Da = da
	default:
		t.Da = da + 1
	}
	switch {
	case ho == -1:
		t.Ho = 0
	case mi != -1:
		t.Ho = ho
	default:
		t.Ho = ho + 1
	}
	switch {
	case mi == -1:
		t.Mi = 0
	case se != -1:
		t.Mi = mi
	default:
		t.Mi = mi + 1
	}
	if se == -1 {
		t.Se = 0
	} else {
		t.Se = se + 1
	}
	t.Se--
	return t.Normalise()
}

func orDefault(v, def int) int {
	if v == -1 {
		return def
	}
	return v
}

// Now returns the current UTC instant as a Time.
func Now() Time {
	n := time.Now().UTC()
	return Time{n.Year(), int(n.Month()), n.Day(), n.Hour(), n.Minute(), n.Second()}
}

// ToISO8601 renders "YYYY-MM-DDTHH:MM:SSZ" (sep is usually 'T' or ' ').
func (t Time) ToISO8601(sep byte) string {
	return fmt.Sprintf("%04d-%02d-%02d%c%02d:%02d:%02dZ", t.Ye, t.Mo, t.Da, sep, t.Ho, t.Mi, t.Se)
}

// ToSQL renders "YYYY-MM-DD HH:MM:SS".
func (t Time) ToSQL() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", t.Ye, t.Mo, t.Da, t.Ho, t.Mi, t.Se)
}

// ParseISO8601 parses "YYYY-MM-DD[T ]HH:MM:SS" forms.
func ParseISO8601(s string) (Time, error) {
	var t Time
	n, _ := fmt.Sscanf(s, "%d-%d-%dT%d:%d:%d", &t.Ye, &t.Mo, &t.Da, &t.Ho, &t.Mi, &t.Se)
	if n < 6 {
		n, _ = fmt.Sscanf(s, "%d-%d-%d %d:%d:%d", &t.Ye, &t.Mo, &t.Da, &t.Ho, &t.Mi, &t.Se)
	}
	if n < 6 {
		return Time{}, fmt.Errorf("cannot parse ISO-8601 string %q", s)
	}
	return t, nil
}

// ParseSQL parses "YYYY-MM-DD HH:MM:SS".
func ParseSQL(s string) (Time, error) {
	var t Time
	n, _ := fmt.Sscanf(s, "%d-%d-%d %d:%d:%d", &t.Ye, &t.Mo, &t.Da, &t.Ho, &t.Mi, &t.Se)
	if n == 0 {
		return Time{}, fmt.Errorf("cannot parse SQL time string %q", s)
	}
	return t, nil
}

// Unix returns the Unix timestamp (seconds since epoch, UTC), or 0 for
// times before 1970.
func (t Time) Unix() int64 {
	if t.Ye < 1970 {
		return 0
	}
	return time.Date(t.Ye, time.Month(t.Mo), t.Da, t.Ho, t.Mi, t.Se, 0, time.UTC).Unix()
}

// DurationSeconds returns o - t in seconds.
func DurationSeconds(t, o Time) int64 {
	return o.Unix() - t.Unix()
}

// Encode writes the packed 5-byte binary form used by Reftime.Position
// and the summary stats envelope: 14 bits year, 4 bits month, 5 bits day,
// 5 bits hour, 6 bits minute, 6 bits second (40 bits total).
func (t Time) Encode(e *binary.Encoder) {
	a := uint32(t.Ye&0x3fff)<<18 | uint32(t.Mo&0xf)<<14 | uint32(t.Da&0x1f)<<9 | uint32(t.Ho&0x1f)<<4 | uint32(t.Mi>>2)&0xf
	b := uint32(t.Mi&0x3)<<6 | uint32(t.Se&0x3f)
	e.AddUint(uint64(a), 4)
	e.AddUint(uint64(b), 1)
}

// Decode reads the packed 5-byte binary form.
func Decode(d *binary.Decoder) (Time, error) {
	a, err := d.PopUint(4, "packed time high bits")
	if err != nil {
		return Time{}, err
	}
	b, err := d.PopUint(1, "packed time low bits")
	if err != nil {
		return Time{}, err
	}
	return Time{
		Ye: int(a >> 18),
		Mo: int((a >> 14) & 0xf),
		Da: int((a >> 9) & 0x1f),
		Ho: int((a >> 4) & 0x1f),
		Mi: int(((a & 0xf) << 2) | ((b >> 6) & 0x3)),
		Se: int(b & 0x3f),
	}, nil
}

// Interval is a pair of Times with open-ended ends: a zero Begin or End
// means unbounded on that side.
type Interval struct {
	Begin, End Time
}

// Contains reports whether the interval contains the instant t.
func (iv Interval) Contains(t Time) bool {
	if !iv.Begin.IsZero() && t.Compare(iv.Begin) < 0 {
		return false
	}
	if !iv.End.IsZero() && t.Compare(iv.End) > 0 {
		return false
	}
	return true
}

// ContainsInterval reports whether iv fully contains o.
func (iv Interval) ContainsInterval(o Interval) bool {
	if !iv.Begin.IsZero() && (o.Begin.IsZero() || o.Begin.Compare(iv.Begin) < 0) {
		return false
	}
	if !iv.End.IsZero() && (o.End.IsZero() || o.End.Compare(iv.End) > 0) {
		return false
	}
	return true
}

// Intersects reports whether iv and o overlap.
func (iv Interval) Intersects(o Interval) bool {
	if !iv.End.IsZero() && !o.Begin.IsZero() && iv.End.Compare(o.Begin) < 0 {
		return false
	}
	if !o.End.IsZero() && !iv.Begin.IsZero() && o.End.Compare(iv.Begin) < 0 {
		return false
	}
	return true
}

// Intersect returns the intersection of iv and o.
func (iv Interval) Intersect(o Interval) Interval {
	res := iv
	if o.Begin.IsZero() {
		// keep res.Begin
	} else if res.Begin.IsZero() || o.Begin.Compare(res.Begin) > 0 {
		res.Begin = o.Begin
	}
	if o.End.IsZero() {
		// keep res.End
	} else if res.End.IsZero() || o.End.Compare(res.End) < 0 {
		res.End = o.End
	}
	return res
}

// Extend widens iv to also cover o.
func (iv Interval) Extend(o Interval) Interval {
	res := iv
	if res.Begin.IsZero() || (!o.Begin.IsZero() && o.Begin.Compare(res.Begin) < 0) {
		res.Begin = o.Begin
	}
	if res.End.IsZero() || (!o.End.IsZero() && o.End.Compare(res.End) > 0) {
		res.End = o.End
	}
	return res
}

// Months iterates over the calendar months iv spans, calling fn(year,
// month) for each. Iteration stops early if fn returns false, or if
// either end is unbounded (nothing to iterate).
func (iv Interval) Months(fn func(year, month int) bool) {
	if iv.Begin.IsZero() || iv.End.IsZero() {
		return
	}
	ye, mo := iv.Begin.Ye, iv.Begin.Mo
	for {
		cur := Time{Ye: ye, Mo: mo, Da: 1}
		if cur.Compare(Time{Ye: iv.End.Ye, Mo: iv.End.Mo, Da: 1}) > 0 {
			return
		}
		if !fn(ye, mo) {
			return
		}
		mo++
		if mo > 12 {
			mo = 1
			ye++
		}
	}
}
