// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/binary"
)

const (
	SourceStyleBlob   uint8 = 1
	SourceStyleURL    uint8 = 2
	SourceStyleInline uint8 = 3
)

// SourceBlob locates data as a byte range inside a segment file relative
// to a dataset root (spec.md §4.4).
type SourceBlob struct {
	Format           string
	BaseDir, Filename string
	Offset, Size     uint64
}

func (s SourceBlob) Code() Code   { return CodeSource }
func (s SourceBlob) Style() uint8 { return SourceStyleBlob }
func (s SourceBlob) Clone() Type  { return s }
func (s SourceBlob) Equal(t Type) bool { o, ok := t.(SourceBlob); return ok && s == o }
func (s SourceBlob) Compare(t Type) int {
	o := t.(SourceBlob)
	if c := cmpStr(s.Filename, o.Filename); c != 0 {
		return c
	}
	if s.Offset != o.Offset {
		if s.Offset < o.Offset {
			return -1
		}
		return 1
	}
	if s.Size != o.Size {
		if s.Size < o.Size {
			return -1
		}
		return 1
	}
	return 0
}
func (s SourceBlob) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, SourceStyleBlob)
	encodeShortString(e, s.Format)
	e.AddVarint(uint64(len(s.Filename)))
	e.AddString(s.Filename)
	e.AddVarint(s.Offset)
	e.AddVarint(s.Size)
}
func (s SourceBlob) String() string {
	return fmt.Sprintf("BLOB(%s,%s:%d+%d)", s.Format, s.Filename, s.Offset, s.Size)
}
func (s SourceBlob) ExactQuery() string { return "" }
func (s SourceBlob) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeSource.String(), k.StyleField: "BLOB",
		k.field("format"): s.Format, k.field("basedir"): s.BaseDir, k.field("filename"): s.Filename,
		k.field("offset"): s.Offset, k.field("size"): s.Size}
}

// WithBaseDir returns a copy of s for resolution against a concrete
// dataset root (BaseDir is not part of the wire encoding: spec.md §4.4
// notes the path is always relative so archives stay relocatable).
func (s SourceBlob) WithBaseDir(dir string) SourceBlob {
	s.BaseDir = dir
	return s
}

// SourceURL locates data at a remote URL, used for datasets that proxy
// rather than store data locally.
type SourceURL struct {
	Format string
	URL    string
}

func (s SourceURL) Code() Code   { return CodeSource }
func (s SourceURL) Style() uint8 { return SourceStyleURL }
func (s SourceURL) Clone() Type  { return s }
func (s SourceURL) Equal(t Type) bool { o, ok := t.(SourceURL); return ok && s == o }
func (s SourceURL) Compare(t Type) int { return cmpStr(s.URL, t.(SourceURL).URL) }
func (s SourceURL) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, SourceStyleURL)
	encodeShortString(e, s.Format)
	e.AddVarint(uint64(len(s.URL)))
	e.AddString(s.URL)
}
func (s SourceURL) String() string     { return fmt.Sprintf("URL(%s,%s)", s.Format, s.URL) }
func (s SourceURL) ExactQuery() string { return "" }
func (s SourceURL) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeSource.String(), k.StyleField: "URL",
		k.field("format"): s.Format, k.field("url"): s.URL}
}

// SourceInline marks data carried in-band immediately after the metadata
// record rather than referenced externally.
type SourceInline struct {
	Format string
	Size   uint64
}

func (s SourceInline) Code() Code   { return CodeSource }
func (s SourceInline) Style() uint8 { return SourceStyleInline }
func (s SourceInline) Clone() Type  { return s }
func (s SourceInline) Equal(t Type) bool { o, ok := t.(SourceInline); return ok && s == o }
func (s SourceInline) Compare(t Type) int {
	o := t.(SourceInline)
	if s.Size != o.Size {
		if s.Size < o.Size {
			return -1
		}
		return 1
	}
	return 0
}
func (s SourceInline) EncodeWithoutEnvelope(e *binary.Encoder) {
	e.Dest = append(e.Dest, SourceStyleInline)
	encodeShortString(e, s.Format)
	e.AddVarint(s.Size)
}
func (s SourceInline) String() string     { return fmt.Sprintf("INLINE(%s,%d)", s.Format, s.Size) }
func (s SourceInline) ExactQuery() string { return "" }
func (s SourceInline) Serialize(k Keys) map[string]any {
	return map[string]any{k.TypeField: CodeSource.String(), k.StyleField: "INLINE",
		k.field("format"): s.Format, k.field("size"): s.Size}
}

func cmpStr(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func init() {
	RegisterDecoder(CodeSource, func(style uint8, body *binary.Decoder) (Type, error) {
		format, err := decodeShortString(body, "source format")
		if err != nil {
			return nil, err
		}
		switch style {
		case SourceStyleBlob:
			flen, err := body.PopVarint("source blob filename length")
			if err != nil {
				return nil, err
			}
			fname, err := body.PopString(int(flen), "source blob filename")
			if err != nil {
				return nil, err
			}
			off, err := body.PopVarint("source blob offset")
			if err != nil {
				return nil, err
			}
			size, err := body.PopVarint("source blob size")
			if err != nil {
				return nil, err
			}
			return SourceBlob{Format: format, Filename: fname, Offset: off, Size: size}, nil
		case SourceStyleURL:
			ulen, err := body.PopVarint("source url length")
			if err != nil {
				return nil, err
			}
			u, err := body.PopString(int(ulen), "source url")
			if err != nil {
				return nil, err
			}
			return SourceURL{Format: format, URL: u}, nil
		case SourceStyleInline:
			size, err := body.PopVarint("source inline size")
			if err != nil {
				return nil, err
			}
			return SourceInline{Format: format, Size: size}, nil
		default:
			return nil, &binary.ParseError{What: "source style", Reason: fmt.Sprintf("unknown style %d", style)}
		}
	})
}
