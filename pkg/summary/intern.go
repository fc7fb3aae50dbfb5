// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package summary

import (
	"time"

	"github.com/arkimet/arkimet/pkg/lrucache"
	"github.com/arkimet/arkimet/pkg/types"
)

// typeIntern deduplicates equal metadata items behind one shared
// instance, the Go analogue of original_source's
// arki/summary/intern.h TypeIntern: every leaf in the trie that carries
// the same encoded value ends up pointing at the same Type, so a large
// summary does not carry one allocation per occurrence.
type typeIntern struct {
	cache *lrucache.Cache
}

func newTypeIntern() *typeIntern {
	return &typeIntern{cache: lrucache.New(4 * 1024 * 1024)}
}

// intern returns the canonical instance equal to item, registering item
// itself as canonical the first time its encoding is seen. nil passes
// through unchanged (an absent attribute has nothing to intern).
func (t *typeIntern) intern(item types.Type) types.Type {
	if item == nil {
		return nil
	}
	key := string(types.Encode(item))
	if cached := t.cache.Get(key, nil); cached != nil {
		return cached.(types.Type)
	}
	t.cache.Put(key, item, len(key), time.Hour)
	return item
}
