// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package types

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/binary"
	"github.com/arkimet/arkimet/pkg/value"
)

// valueBagHolder adapts value.Bag for embedding in the styled variants
// (Area GRIB/ODIMH5, Proddef GRIB/ODIMH5, BUFR Product) whose wire and textual
// representation is nothing but a ValueBag (spec.md §3 ValueBag).
type valueBagHolder struct {
	bag *value.Bag
}

func newValueBagHolder(b *value.Bag) *valueBagHolder {
	if b == nil {
		b = value.NewBag()
	}
	return &valueBagHolder{bag: b}
}

func (h *valueBagHolder) equal(o *valueBagHolder) bool {
	return h.bag.Equal(o.bag)
}

func (h *valueBagHolder) compare(o *valueBagHolder) int {
	return h.bag.Compare(o.bag)
}

func (h *valueBagHolder) encode(e *binary.Encoder) {
	h.bag.Encode(e)
}

// suffix renders ":" followed by the bag's textual form for appending to a
// Style(...) textual form, or "" when the bag is empty.
func (h *valueBagHolder) suffix() string {
	if h.bag.Len() == 0 {
		return ""
	}
	return ":" + h.bag.String()
}

func (h *valueBagHolder) addTo(m map[string]any, field string) {
	if h.bag.Len() == 0 {
		return
	}
	m[field] = h.bag.String()
}

func decodeValueBagHolder(d *binary.Decoder) (*valueBagHolder, error) {
	if !d.HasData() {
		return newValueBagHolder(nil), nil
	}
	b, err := value.DecodeBag(d)
	if err != nil {
		return nil, fmt.Errorf("cannot decode value bag: %w", err)
	}
	return newValueBagHolder(b), nil
}

func parseValueBagHolder(s string) (*valueBagHolder, error) {
	b, err := value.ParseBag(s)
	if err != nil {
		return nil, err
	}
	return newValueBagHolder(b), nil
}
