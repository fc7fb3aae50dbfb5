// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package metadata

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arkimet/arkimet/pkg/types"
)

// textOrder lists every attribute code in the order the textual form
// emits it, one "Key: value" line per code present (spec.md §6
// "Textual (YAML-like) form"). Source and Note are handled separately:
// Source always comes last, Note lines repeat once per note.
var textOrder = []types.Code{
	types.CodeOrigin,
	types.CodeProduct,
	types.CodeLevel,
	types.CodeTimerange,
	types.CodeReftime,
	types.CodeArea,
	types.CodeProddef,
	types.CodeAssignedDataset,
	types.CodeRun,
	types.CodeBBox,
	types.CodeQuantity,
	types.CodeTask,
	types.CodeValue,
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// noteYAML is the nested-YAML shape one Note line's value takes: a
// timestamp and free text (spec.md §6 "nested YAML for notes").
type noteYAML struct {
	Time string `yaml:"time"`
	Text string `yaml:"text"`
}

// WriteText renders m in arkimet's line-oriented textual form: one
// "Key: value" line per attribute present, a "Note:" line per note
// (its value a flow-style nested YAML mapping), and a final "Source:"
// line (spec.md §6).
func (m *Metadata) WriteText(w io.Writer) error {
	for _, code := range textOrder {
		item := m.Get(code)
		if item == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", capitalize(code.String()), item.String()); err != nil {
			return err
		}
	}
	for _, n := range m.Notes {
		enc, err := encodeNoteFlow(n)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Note: %s\n", enc); err != nil {
			return err
		}
	}
	if m.Source != nil {
		if _, err := fmt.Fprintf(w, "Source: %s\n", m.Source.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteItemSetText renders s the same way WriteText renders a
// Metadata's attributes, without a Source or Note line (an ItemSet
// carries neither).
func WriteItemSetText(w io.Writer, s *ItemSet) error {
	for _, code := range textOrder {
		item := s.Get(code)
		if item == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", capitalize(code.String()), item.String()); err != nil {
			return err
		}
	}
	return nil
}

func encodeNoteFlow(n types.Note) (string, error) {
	buf, err := yaml.Marshal(noteYAML{Time: n.Time.ToISO8601('T'), Text: n.Text})
	if err != nil {
		return "", err
	}
	// yaml.Marshal produces block style; fold it onto one line in
	// flow form ("{time: ..., text: ...}") to keep one note per line.
	var v noteYAML
	if err := yaml.Unmarshal(buf, &v); err != nil {
		return "", err
	}
	flow, err := flowYAML(v)
	if err != nil {
		return "", err
	}
	return flow, nil
}

func flowYAML(v noteYAML) (string, error) {
	node := yaml.Node{}
	if err := node.Encode(v); err != nil {
		return "", err
	}
	node.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&node)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
