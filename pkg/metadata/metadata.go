// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package metadata

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/arkimet/arkimet/pkg/arkierr"
	"github.com/arkimet/arkimet/pkg/arkilog"
	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/types"
)

const bundleSignature = "MD"
const bundleVersion uint16 = 0

// Metadata extends ItemSet with an owned data Source, a time-ordered
// list of Notes, and (for Inline sources) the payload bytes read
// immediately after the bundle (spec.md §4.4).
type Metadata struct {
	ItemSet
	Notes  []types.Note
	Source types.Type // one of SourceBlob, SourceURL, SourceInline, or nil

	inline []byte
}

// New returns an empty Metadata record.
func New() *Metadata {
	return &Metadata{ItemSet: ItemSet{}}
}

// AddNote appends a note, preserving insertion order.
func (m *Metadata) AddNote(n types.Note) {
	m.Notes = append(m.Notes, n)
}

// Encode serializes the metadata as an "MD" bundle: item envelopes, then
// note envelopes, then the source envelope, in that order. If Source is
// Inline, the caller must follow the bundle with the raw payload bytes
// (m.InlineData()) on the wire -- Encode does not append them, mirroring
// the original's separation of header and data framing.
func (m *Metadata) Encode() []byte {
	payload := binary.NewEncoder()
	m.ItemSet.Encode(payload)
	for _, n := range m.Notes {
		payload.AddRaw(types.Encode(n))
	}
	if m.Source != nil {
		payload.AddRaw(types.Encode(m.Source))
	}
	e := binary.NewEncoder()
	e.AddBundle(bundleSignature, bundleVersion, payload.Dest)
	return e.Dest
}

// Read decodes one Metadata bundle from d. If the resolved source is
// Inline, Read also consumes its payload bytes immediately following
// the bundle in d, per spec.md §4.4's "the caller is responsible for
// providing access to the inline payload" by letting the reader pull it
// from the same stream.
func Read(d *binary.Decoder) (*Metadata, error) {
	sig, _, payload, err := d.PopBundle()
	if err != nil {
		return nil, err
	}
	if sig != bundleSignature {
		return nil, &binary.ParseError{What: "metadata bundle", Reason: fmt.Sprintf("unexpected signature %q", sig)}
	}
	m := New()
	for payload.HasData() {
		item, err := types.Decode(payload)
		if err != nil {
			return nil, err
		}
		switch item.Code() {
		case types.CodeNote:
			m.Notes = append(m.Notes, item.(types.Note))
		case types.CodeSource:
			m.Source = item
		default:
			m.ItemSet.Set(item)
		}
	}
	if inline, ok := m.Source.(types.SourceInline); ok {
		data, err := d.PopData(int(inline.Size), "metadata inline payload")
		if err != nil {
			return nil, err
		}
		m.inline = data.Buf
	}
	return m, nil
}

// ReadContext resolves relative Blob sources against a dataset's base
// directory (spec.md §4.4: "basedir is resolved relative to the reading
// context's base directory; absolute filenames override").
type ReadContext struct {
	BaseDir string
}

// InlineData returns the bytes read immediately after the bundle for an
// Inline source, or nil if the source is not Inline.
func (m *Metadata) InlineData() []byte { return m.inline }

// inlineReadThreshold bounds how large a Blob read GetData will
// materialize fully in memory before callers should prefer StreamData.
const inlineReadThreshold = 16 << 20

// GetData resolves the Source and returns the data payload as bytes
// (spec.md §4.4: "get_data() returns the payload bytes, obtained by
// reading from disk (Blob), from the following inline window (Inline),
// or reporting unavailable (URL ...)").
func (m *Metadata) GetData(ctx ReadContext) ([]byte, error) {
	switch src := m.Source.(type) {
	case types.SourceInline:
		if m.inline == nil {
			return nil, arkierr.NewConsistency("get_data", "inline source has no attached payload")
		}
		return m.inline, nil
	case types.SourceBlob:
		if src.Size > inlineReadThreshold {
			arkilog.Warnw("get_data: fully materializing a large blob read, consider StreamData", arkilog.Fields{"path": src.Filename, "size": src.Size})
		}
		path := resolveBlobPath(src, ctx)
		f, err := os.Open(path)
		if err != nil {
			return nil, arkierr.WrapIO("get_data: open "+path, err)
		}
		defer f.Close()
		buf := make([]byte, src.Size)
		if _, err := f.ReadAt(buf, int64(src.Offset)); err != nil {
			return nil, arkierr.WrapIO("get_data: read "+path, err)
		}
		return buf, nil
	case types.SourceURL:
		return nil, arkierr.NewConsistency("get_data", "URL source data is not resolvable without a network fetch layer")
	default:
		return nil, arkierr.NewConsistency("get_data", "metadata has no source")
	}
}

// StreamData copies the resolved payload to out without materializing
// it fully in memory for Blob sources, using io.NewSectionReader to
// stream directly from the segment file (spec.md §4.4).
func (m *Metadata) StreamData(ctx ReadContext, out io.Writer) error {
	switch src := m.Source.(type) {
	case types.SourceInline:
		if m.inline == nil {
			return arkierr.NewConsistency("stream_data", "inline source has no attached payload")
		}
		_, err := out.Write(m.inline)
		return arkierr.WrapIO("stream_data: write", err)
	case types.SourceBlob:
		path := resolveBlobPath(src, ctx)
		f, err := os.Open(path)
		if err != nil {
			return arkierr.WrapIO("stream_data: open "+path, err)
		}
		defer f.Close()
		sr := io.NewSectionReader(f, int64(src.Offset), int64(src.Size))
		if _, err := io.Copy(out, sr); err != nil {
			return arkierr.WrapIO("stream_data: copy "+path, err)
		}
		return nil
	case types.SourceURL:
		return arkierr.NewConsistency("stream_data", "URL source data is not resolvable without a network fetch layer")
	default:
		return arkierr.NewConsistency("stream_data", "metadata has no source")
	}
}

func resolveBlobPath(src types.SourceBlob, ctx ReadContext) string {
	if filepath.IsAbs(src.Filename) {
		return src.Filename
	}
	baseDir := src.BaseDir
	if baseDir == "" {
		baseDir = ctx.BaseDir
	}
	return filepath.Join(baseDir, src.Filename)
}
