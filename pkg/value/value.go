// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package value implements the typed scalar values (signed integer or
// string) used inside ValueBags, and their compact self-describing
// binary and textual encodings (spec.md §4.2).
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arkimet/arkimet/pkg/binary"
)

// Value is either an integer or a string scalar.
type Value interface {
	Int() (int64, bool)
	Str() (string, bool)
	Encode(e *binary.Encoder)
	String() string
	Equal(Value) bool
	Compare(Value) int
}

// Int is a signed integer scalar.
type Int int64

func (v Int) Int() (int64, bool) { return int64(v), true }
func (v Int) Str() (string, bool) { return "", false }
func (v Int) String() string      { return strconv.FormatInt(int64(v), 10) }

func (v Int) Equal(o Value) bool {
	i, ok := o.Int()
	return ok && i == int64(v)
}

func (v Int) Compare(o Value) int {
	if oi, ok := o.Int(); ok {
		switch {
		case int64(v) < oi:
			return -1
		case int64(v) > oi:
			return 1
		default:
			return 0
		}
	}
	// Ints sort before strings.
	return -1
}

// Encode writes the value with the 2-bit type tag scheme of spec.md §4.2.
func (v Int) Encode(e *binary.Encoder) {
	n := int64(v)
	if n >= -32 && n < 32 {
		// Tag 00, 6-bit signed int in the low 6 bits, two's complement.
		e.Dest = append(e.Dest, byte(n)&0x3F)
		return
	}
	bytes, width := signedWidth(n)
	// Tag 01 (number), sub-tag 00 (signed int), sign bit, 3-bit length (width-1).
	lead := byte(0x40)
	if n < 0 {
		lead |= 0x08
	}
	lead |= byte(width - 1)
	e.Dest = append(e.Dest, lead)
	e.AddSint(n, bytes)
}

func signedWidth(n int64) (bytes, width int) {
	for w := 1; w <= 8; w++ {
		lo := -(int64(1) << uint(w*8-1))
		hi := (int64(1) << uint(w*8-1)) - 1
		if n >= lo && n <= hi {
			return w, w
		}
	}
	return 8, 8
}

// Str is a string scalar.
type Str string

func (v Str) Int() (int64, bool) { return 0, false }
func (v Str) Str() (string, bool) { return string(v), true }
func (v Str) String() string      { return string(v) }

func (v Str) Equal(o Value) bool {
	s, ok := o.Str()
	return ok && s == string(v)
}

func (v Str) Compare(o Value) int {
	if _, ok := o.Int(); ok {
		return 1
	}
	s, _ := o.Str()
	return strings.Compare(string(v), s)
}

func (v Str) Encode(e *binary.Encoder) {
	s := string(v)
	if len(s) <= 63 {
		e.Dest = append(e.Dest, 0x80|byte(len(s)))
		e.AddString(s)
		return
	}
	// Longer strings are not representable in the short-string form;
	// truncate the length field is not an option, so split is not
	// supported by this wire format. Callers should not construct
	// strings longer than 63 bytes for ValueBag entries.
	e.Dest = append(e.Dest, 0x80|63)
	e.AddString(s[:63])
}

// Decode reads one Value from d.
func Decode(d *binary.Decoder) (Value, error) {
	lead, err := d.PopByte("value lead byte")
	if err != nil {
		return nil, err
	}
	switch lead >> 6 {
	case 0x00:
		// 6-bit signed int, sign-extend bit 5.
		n := int64(lead & 0x3F)
		if n&0x20 != 0 {
			n -= 0x40
		}
		return Int(n), nil
	case 0x01:
		subtag := (lead >> 4) & 0x03
		if subtag != 0 {
			return nil, &binary.ParseError{What: "value", Reason: "reserved number sub-tag"}
		}
		width := int(lead&0x07) + 1
		neg := lead&0x08 != 0
		raw, err := d.PopUint(width, "value number payload")
		if err != nil {
			return nil, err
		}
		n := int64(raw)
		if neg {
			mask := uint64(1)<<uint(width*8) - 1
			n = -int64((^raw + 1) & mask)
		}
		return Int(n), nil
	case 0x02:
		length := int(lead & 0x3F)
		s, err := d.PopString(length, "short string value")
		if err != nil {
			return nil, err
		}
		return Str(s), nil
	default:
		return nil, &binary.ParseError{What: "value", Reason: "reserved extended tag"}
	}
}

// Entry is one key/value pair of a ValueBag.
type Entry struct {
	Key string
	Val Value
}

// Bag is an ordered (by key), string-keyed mapping of typed scalar Values.
// Entries are kept sorted by key at every mutation so the wire encoding
// stays canonical.
type Bag struct {
	entries []Entry
}

// NewBag returns an empty ValueBag.
func NewBag() *Bag { return &Bag{} }

// Get returns the value for key, or nil if absent.
func (b *Bag) Get(key string) Value {
	i := b.search(key)
	if i < len(b.entries) && b.entries[i].Key == key {
		return b.entries[i].Val
	}
	return nil
}

// Set inserts or replaces the value for key, keeping entries key-sorted.
func (b *Bag) Set(key string, v Value) {
	i := b.search(key)
	if i < len(b.entries) && b.entries[i].Key == key {
		b.entries[i].Val = v
		return
	}
	b.entries = append(b.entries, Entry{})
	copy(b.entries[i+1:], b.entries[i:])
	b.entries[i] = Entry{Key: key, Val: v}
}

func (b *Bag) search(key string) int {
	return sort.Search(len(b.entries), func(i int) bool { return b.entries[i].Key >= key })
}

// Entries returns the key-sorted entries.
func (b *Bag) Entries() []Entry { return b.entries }

// Len reports the number of entries.
func (b *Bag) Len() int { return len(b.entries) }

// Clone returns a deep-enough copy (Values are immutable, so a shallow
// copy of the entry slice suffices).
func (b *Bag) Clone() *Bag {
	out := &Bag{entries: make([]Entry, len(b.entries))}
	copy(out.entries, b.entries)
	return out
}

// Equal reports whether two bags have identical key/value pairs.
func (b *Bag) Equal(o *Bag) bool {
	if len(b.entries) != len(o.entries) {
		return false
	}
	for i := range b.entries {
		if b.entries[i].Key != o.entries[i].Key || !b.entries[i].Val.Equal(o.entries[i].Val) {
			return false
		}
	}
	return true
}

// Compare implements the bag's total order: lexicographic on (key, value)
// pairs in key-sorted order, shorter-prefix-sorts-first on length mismatch.
func (b *Bag) Compare(o *Bag) int {
	n := len(b.entries)
	if len(o.entries) < n {
		n = len(o.entries)
	}
	for i := 0; i < n; i++ {
		if c := strings.Compare(b.entries[i].Key, o.entries[i].Key); c != 0 {
			return c
		}
		if c := b.entries[i].Val.Compare(o.entries[i].Val); c != 0 {
			return c
		}
	}
	return len(b.entries) - len(o.entries)
}

// Encode writes the bag as length-prefixed key, encoded Value, repeated.
func (b *Bag) Encode(e *binary.Encoder) {
	for _, ent := range b.entries {
		e.Dest = append(e.Dest, byte(len(ent.Key)))
		e.AddString(ent.Key)
		ent.Val.Encode(e)
	}
}

// DecodeBag decodes a ValueBag from d, stopping cleanly at end of buffer.
func DecodeBag(d *binary.Decoder) (*Bag, error) {
	b := NewBag()
	for d.HasData() {
		klen, err := d.PopByte("valuebag key length")
		if err != nil {
			return nil, err
		}
		key, err := d.PopString(int(klen), "valuebag key")
		if err != nil {
			return nil, err
		}
		val, err := Decode(d)
		if err != nil {
			return nil, err
		}
		b.Set(key, val)
	}
	return b, nil
}

// String renders the textual form: key=value, key="quoted value", key=42.
func (b *Bag) String() string {
	var parts []string
	for _, ent := range b.entries {
		parts = append(parts, fmt.Sprintf("%s=%s", ent.Key, formatScalar(ent.Val)))
	}
	return strings.Join(parts, ", ")
}

func formatScalar(v Value) string {
	if n, ok := v.Int(); ok {
		return strconv.FormatInt(n, 10)
	}
	s, _ := v.Str()
	if needsQuoting(s) {
		return quoteString(s)
	}
	return s
}

func needsQuoting(s string) bool {
	if s == "" {
		return false
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	if strings.TrimSpace(s) != s {
		return true
	}
	return strings.ContainsRune(s, 0)
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case 0:
			b.WriteString(`\0`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// ParseBag parses the textual form "key=value, key=\"quoted\", key=42".
// Whitespace around ',' and '=' is tolerated.
func ParseBag(s string) (*Bag, error) {
	b := NewBag()
	rest := strings.TrimSpace(s)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq < 0 {
			return nil, fmt.Errorf("cannot parse valuebag: missing '=' near %q", rest)
		}
		key := strings.TrimSpace(rest[:eq])
		rest = strings.TrimLeft(rest[eq+1:], " \t")
		var val string
		wasQuoted := false
		if strings.HasPrefix(rest, `"`) {
			end, unescaped, err := scanQuoted(rest)
			if err != nil {
				return nil, err
			}
			val = unescaped
			wasQuoted = true
			rest = strings.TrimLeft(rest[end:], " \t")
		} else {
			comma := strings.IndexByte(rest, ',')
			if comma < 0 {
				val = strings.TrimSpace(rest)
				rest = ""
			} else {
				val = strings.TrimSpace(rest[:comma])
				rest = rest[comma:]
			}
		}
		if strings.HasPrefix(rest, ",") {
			rest = strings.TrimLeft(rest[1:], " \t")
		}
		if !wasQuoted {
			if n, err := strconv.ParseInt(val, 10, 64); err == nil {
				b.Set(key, Int(n))
				continue
			}
		}
		b.Set(key, Str(val))
	}
	return b, nil
}

func scanQuoted(s string) (end int, unescaped string, err error) {
	var b strings.Builder
	i := 1
	for i < len(s) {
		c := s[i]
		if c == '"' {
			return i + 1, b.String(), nil
		}
		if c == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(s[i])
			}
			i++
			continue
		}
		b.WriteByte(c)
		i++
	}
	return 0, "", fmt.Errorf("cannot parse valuebag: unterminated quoted string")
}
