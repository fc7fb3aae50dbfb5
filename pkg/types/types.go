// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package types implements arkimet's closed family of polymorphic
// metadata attributes (spec.md §3/§4.3): Origin, Product, Level,
// Timerange, Reftime, Area, Proddef, Source, Note, AssignedDataset, Run,
// BBox, Quantity, Task and Value, each with one or more styled variants.
package types

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/binary"
)

// Code is the wire-stable integer identifying a metadata attribute kind.
type Code uint8

const (
	CodeOrigin Code = iota + 1
	CodeProduct
	CodeLevel
	CodeTimerange
	CodeReftime
	CodeArea
	CodeProddef
	CodeSource
	CodeNote
	CodeAssignedDataset
	CodeRun
	CodeBBox
	CodeQuantity
	CodeTask
	CodeValue
)

var codeNames = map[Code]string{
	CodeOrigin:          "origin",
	CodeProduct:         "product",
	CodeLevel:           "level",
	CodeTimerange:       "timerange",
	CodeReftime:         "reftime",
	CodeArea:            "area",
	CodeProddef:         "proddef",
	CodeSource:          "source",
	CodeNote:            "note",
	CodeAssignedDataset: "assigneddataset",
	CodeRun:             "run",
	CodeBBox:            "bbox",
	CodeQuantity:        "quantity",
	CodeTask:            "task",
	CodeValue:           "value",
}

func (c Code) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return fmt.Sprintf("code(%d)", uint8(c))
}

// CodeByName looks up a Code by its lower-case name, as used in matcher
// expressions and structured form's "t"/"type" field.
func CodeByName(name string) (Code, bool) {
	for c, n := range codeNames {
		if n == name {
			return c, true
		}
	}
	return 0, false
}

// MSOOrder is the fixed "Metadata Scan Order" used by the summary trie
// (spec.md §3, GLOSSARY).
var MSOOrder = []Code{
	CodeOrigin, CodeProduct, CodeLevel, CodeTimerange, CodeArea,
	CodeProddef, CodeBBox, CodeRun, CodeQuantity, CodeTask,
}

// Type is the polymorphic base every styled metadata attribute
// implements (spec.md §4.3).
type Type interface {
	Code() Code
	Style() uint8
	Clone() Type
	Equal(Type) bool
	// Compare returns a total order assuming both values share the same
	// Code; callers compare codes first.
	Compare(Type) int
	EncodeWithoutEnvelope(e *binary.Encoder)
	String() string
	ExactQuery() string
	Serialize(keys Keys) map[string]any
}

// Encode writes t with its type envelope (spec.md §4.1).
func Encode(t Type) []byte {
	e := binary.NewEncoder()
	body := binary.NewEncoder()
	t.EncodeWithoutEnvelope(body)
	e.AddTypeEnvelope(uint8(t.Code()), body.Dest)
	return e.Dest
}

// IndexEncoder is implemented by the variants whose index-table encoding
// differs from their full wire encoding: Area/Proddef/Product's VM2
// styles elide the derived-value ValueBag so the attribute table stays
// stable across lookup-table updates (spec.md §4.6, §9).
type IndexEncoder interface {
	EncodeForIndexingWithoutEnvelope(e *binary.Encoder)
}

// EncodeForIndexing writes t with its type envelope using its indexing
// form: identical to Encode for every variant that does not implement
// IndexEncoder.
func EncodeForIndexing(t Type) []byte {
	e := binary.NewEncoder()
	body := binary.NewEncoder()
	if ie, ok := t.(IndexEncoder); ok {
		ie.EncodeForIndexingWithoutEnvelope(body)
	} else {
		t.EncodeWithoutEnvelope(body)
	}
	e.AddTypeEnvelope(uint8(t.Code()), body.Dest)
	return e.Dest
}

// decoder is the per-code binary decode function, dispatched on style.
type decoder func(style uint8, body *binary.Decoder) (Type, error)

var decoders = map[Code]decoder{}

// RegisterDecoder installs the binary decoder for a Code. Called from
// each variant file's init().
func RegisterDecoder(code Code, fn decoder) {
	decoders[code] = fn
}

// Decode reads one Type from its envelope at the front of d.
func Decode(d *binary.Decoder) (Type, error) {
	code, body, err := d.PopTypeEnvelope()
	if err != nil {
		return nil, err
	}
	return DecodeBody(Code(code), body)
}

// DecodeBody decodes the envelope body for a known Code: it reads the
// style byte and dispatches to the registered variant decoder.
func DecodeBody(code Code, body *binary.Decoder) (Type, error) {
	fn, ok := decoders[code]
	if !ok {
		return nil, &binary.ParseError{What: code.String(), Reason: "unknown type code"}
	}
	style, err := body.PopByte(code.String() + " style")
	if err != nil {
		return nil, err
	}
	return fn(style, body)
}

// textDecoder parses the textual "Style(args)" form for a code.
type textDecoder func(s string) (Type, error)

var textDecoders = map[Code]textDecoder{}

func RegisterTextDecoder(code Code, fn textDecoder) {
	textDecoders[code] = fn
}

// DecodeString parses the textual form for a known code.
func DecodeString(code Code, s string) (Type, error) {
	fn, ok := textDecoders[code]
	if !ok {
		return nil, fmt.Errorf("cannot parse %s: no textual decoder registered", code)
	}
	return fn(s)
}

// Compare orders two Types: first by Code, then (same code) by Style,
// then by variant fields (delegated to the concrete Compare).
func Compare(a, b Type) int {
	if a.Code() != b.Code() {
		if a.Code() < b.Code() {
			return -1
		}
		return 1
	}
	if a.Style() != b.Style() {
		if a.Style() < b.Style() {
			return -1
		}
		return 1
	}
	return a.Compare(b)
}
