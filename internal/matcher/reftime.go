// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package matcher

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arkimet/arkimet/pkg/aktime"
	"github.com/arkimet/arkimet/pkg/types"
)

// dtMatch is one compiled reftime comparison or equality constraint
// (spec.md §4.5 "Reftime leaves"), modeled after original_source's
// matcher/reftime/parser.h DTMatch hierarchy. MatchInterval is evaluated
// uniformly for both a Position (begin == end) and a Period.
type dtMatch interface {
	MatchInterval(begin, end aktime.Time) bool
	String() string
}

type dtLE struct{ ref aktime.Time }

func (m dtLE) MatchInterval(begin, end aktime.Time) bool { return begin.Compare(m.ref) <= 0 }
func (m dtLE) String() string                            { return "<=" + m.ref.ToISO8601('T') }

type dtLT struct{ ref aktime.Time }

func (m dtLT) MatchInterval(begin, end aktime.Time) bool { return begin.Compare(m.ref) < 0 }
func (m dtLT) String() string                             { return "<" + m.ref.ToISO8601('T') }

type dtGE struct{ ref aktime.Time }

func (m dtGE) MatchInterval(begin, end aktime.Time) bool {
	return end.IsZero() || end.Compare(m.ref) >= 0
}
func (m dtGE) String() string { return ">=" + m.ref.ToISO8601('T') }

type dtGT struct{ ref aktime.Time }

func (m dtGT) MatchInterval(begin, end aktime.Time) bool {
	return end.IsZero() || end.Compare(m.ref) > 0
}
func (m dtGT) String() string { return ">" + m.ref.ToISO8601('T') }

type dtEQ struct{ ge, le aktime.Time }

func (m dtEQ) MatchInterval(begin, end aktime.Time) bool {
	return (end.IsZero() || end.Compare(m.ge) >= 0) && begin.Compare(m.le) <= 0
}
func (m dtEQ) String() string { return ">=" + m.ge.ToISO8601('T') + ",<=" + m.le.ToISO8601('T') }

func secOfDay(t aktime.Time) int { return t.Ho*3600 + t.Mi*60 + t.Se }

type dtTimeLE struct{ ref int }

func (m dtTimeLE) MatchInterval(begin, end aktime.Time) bool {
	if aktime.DurationSeconds(begin, end) >= 86400 {
		return true
	}
	return secOfDay(begin) <= m.ref || secOfDay(end) <= m.ref
}
func (m dtTimeLE) String() string { return fmt.Sprintf("<=%02d:%02d", m.ref/3600, (m.ref%3600)/60) }

type dtTimeLT struct{ ref int }

func (m dtTimeLT) MatchInterval(begin, end aktime.Time) bool {
	if aktime.DurationSeconds(begin, end) >= 86400 {
		return true
	}
	return secOfDay(begin) < m.ref || secOfDay(end) < m.ref
}
func (m dtTimeLT) String() string { return fmt.Sprintf("<%02d:%02d", m.ref/3600, (m.ref%3600)/60) }

type dtTimeGE struct{ ref int }

func (m dtTimeGE) MatchInterval(begin, end aktime.Time) bool {
	if aktime.DurationSeconds(begin, end) >= 86400 {
		return true
	}
	return secOfDay(begin) >= m.ref || secOfDay(end) >= m.ref
}
func (m dtTimeGE) String() string { return fmt.Sprintf(">=%02d:%02d", m.ref/3600, (m.ref%3600)/60) }

type dtTimeGT struct{ ref int }

func (m dtTimeGT) MatchInterval(begin, end aktime.Time) bool {
	if aktime.DurationSeconds(begin, end) >= 86400 {
		return true
	}
	return secOfDay(begin) > m.ref || secOfDay(end) > m.ref
}
func (m dtTimeGT) String() string { return fmt.Sprintf(">%02d:%02d", m.ref/3600, (m.ref%3600)/60) }

type dtTimeEQ struct{ ref int }

func (m dtTimeEQ) MatchInterval(begin, end aktime.Time) bool {
	if aktime.DurationSeconds(begin, end) >= 86400 {
		return true
	}
	return secOfDay(begin) == m.ref || secOfDay(end) == m.ref
}
func (m dtTimeEQ) String() string { return fmt.Sprintf("==%02d:%02d", m.ref/3600, (m.ref%3600)/60) }

// dtTimeStep matches instants whose time-of-day lies in
// {base + k*step mod 86400 : k in Z} (spec.md §4.5 "reftime:==HH:MM%Nh").
type dtTimeStep struct{ base, step int }

func (m dtTimeStep) MatchInterval(begin, end aktime.Time) bool {
	check := func(t aktime.Time) bool {
		d := (secOfDay(t) - m.base) % m.step
		if d < 0 {
			d += m.step
		}
		return d == 0
	}
	return check(begin) || check(end)
}
func (m dtTimeStep) String() string {
	return fmt.Sprintf("==%02d:%02d%%%ds", m.base/3600, (m.base%3600)/60, m.step)
}

// reftimeLeaf is the AND of every comma-separated constraint in one
// reftime clause (spec.md §4.5: comma joins an interval's bounds).
type reftimeLeaf struct {
	matches []dtMatch
	raw     string
}

func (l *reftimeLeaf) Match(t types.Type) bool {
	var begin, end aktime.Time
	switch v := t.(type) {
	case types.ReftimePosition:
		begin, end = v.Time, v.Time
	case types.ReftimePeriod:
		begin, end = v.Begin, v.End
	default:
		return false
	}
	for _, m := range l.matches {
		if !m.MatchInterval(begin, end) {
			return false
		}
	}
	return true
}

func (l *reftimeLeaf) String() string {
	parts := make([]string, len(l.matches))
	for i, m := range l.matches {
		parts[i] = m.String()
	}
	return strings.Join(parts, ",")
}

// Intersects approximates original_source's restrict_date_range: true if
// the leaf's constraints do not exclude [begin, end] outright.
func (l *reftimeLeaf) Intersects(begin, end aktime.Time) bool {
	for _, m := range l.matches {
		if !m.MatchInterval(begin, end) {
			return false
		}
	}
	return true
}

func parseReftimeOR(body string) (*OR, error) {
	leaf := &reftimeLeaf{raw: body}
	for _, pred := range splitArgs(body) {
		m, err := parseReftimePredicate(pred)
		if err != nil {
			return nil, err
		}
		leaf.matches = append(leaf.matches, m)
	}
	return &OR{Code: types.CodeReftime, Leaves: []Leaf{leaf}, Raw: body, Expanded: body}, nil
}

func parseReftimePredicate(pred string) (dtMatch, error) {
	pred = strings.TrimSpace(pred)
	switch {
	case strings.HasPrefix(pred, ">="):
		return parseBound(pred[2:], createGE, createGEtime)
	case strings.HasPrefix(pred, "<="):
		return parseBound(pred[2:], createLE, createLEtime)
	case strings.HasPrefix(pred, "=="):
		return parseEquality(pred[2:])
	case strings.HasPrefix(pred, "="):
		return parseEquality(pred[1:])
	case strings.HasPrefix(pred, ">"):
		return parseBound(pred[1:], createGT, createGTtime)
	case strings.HasPrefix(pred, "<"):
		return parseBound(pred[1:], createLT, createLTtime)
	default:
		return parseEquality(pred)
	}
}

func isTimeOnly(s string) bool {
	return !strings.Contains(s, "-") && strings.Contains(s, ":") && !strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
}

func parseBound(rest string, dateCtor func(ye, mo, da, ho, mi, se int) dtMatch, timeCtor func(sec int) dtMatch) (dtMatch, error) {
	rest = strings.TrimSpace(rest)
	if isTimeOnly(rest) {
		sec, err := parseTimeOfDay(rest)
		if err != nil {
			return nil, err
		}
		return timeCtor(sec), nil
	}
	ye, mo, da, ho, mi, se, err := resolveDateOrRelative(rest)
	if err != nil {
		return nil, err
	}
	return dateCtor(ye, mo, da, ho, mi, se), nil
}

func createGE(ye, mo, da, ho, mi, se int) dtMatch { return dtGE{aktime.CreateLowerbound(ye, mo, da, ho, mi, se)} }
func createGT(ye, mo, da, ho, mi, se int) dtMatch { return dtGT{aktime.CreateUpperbound(ye, mo, da, ho, mi, se)} }
func createLE(ye, mo, da, ho, mi, se int) dtMatch { return dtLE{aktime.CreateUpperbound(ye, mo, da, ho, mi, se)} }
func createLT(ye, mo, da, ho, mi, se int) dtMatch { return dtLT{aktime.CreateLowerbound(ye, mo, da, ho, mi, se)} }
func createGEtime(sec int) dtMatch                { return dtTimeGE{sec} }
func createGTtime(sec int) dtMatch                { return dtTimeGT{sec} }
func createLEtime(sec int) dtMatch                { return dtTimeLE{sec} }
func createLTtime(sec int) dtMatch                { return dtTimeLT{sec} }

func parseEquality(rest string) (dtMatch, error) {
	rest = strings.TrimSpace(rest)
	if i := strings.IndexByte(rest, '%'); i >= 0 && isTimeOnly(rest[:i]) {
		base, err := parseTimeOfDay(rest[:i])
		if err != nil {
			return nil, err
		}
		step, err := parseDuration(rest[i+1:])
		if err != nil {
			return nil, err
		}
		return dtTimeStep{base, step}, nil
	}
	if isTimeOnly(rest) {
		sec, err := parseTimeOfDay(rest)
		if err != nil {
			return nil, err
		}
		return dtTimeEQ{sec}, nil
	}
	ye, mo, da, ho, mi, se, err := resolveDateOrRelative(rest)
	if err != nil {
		return nil, err
	}
	return dtEQ{aktime.CreateLowerbound(ye, mo, da, ho, mi, se), aktime.CreateUpperbound(ye, mo, da, ho, mi, se)}, nil
}

// parseDuration parses a plain duration like "6h", "30m", "10s" into seconds.
func parseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("matcher: empty reftime step duration")
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return 0, fmt.Errorf("matcher: invalid reftime step %q: %w", s, err)
	}
	switch unit {
	case 's':
		return n, nil
	case 'm':
		return n * 60, nil
	case 'h':
		return n * 3600, nil
	case 'd':
		return n * 86400, nil
	default:
		return 0, fmt.Errorf("matcher: unknown reftime step unit in %q", s)
	}
}

func parseTimeOfDay(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	var ho, mi, se int
	var err error
	if ho, err = strconv.Atoi(parts[0]); err != nil {
		return 0, fmt.Errorf("matcher: invalid time of day %q: %w", s, err)
	}
	if len(parts) > 1 {
		if mi, err = strconv.Atoi(parts[1]); err != nil {
			return 0, fmt.Errorf("matcher: invalid time of day %q: %w", s, err)
		}
	}
	if len(parts) > 2 {
		if se, err = strconv.Atoi(parts[2]); err != nil {
			return 0, fmt.Errorf("matcher: invalid time of day %q: %w", s, err)
		}
	}
	return ho*3600 + mi*60 + se, nil
}

// resolveDateOrRelative dispatches to the literal ISO date parser or the
// relative-date grammar (spec.md §4.5 "Relative keywords"), returning
// the six date/time fields with -1 sentinels for fields the expression
// leaves unspecified.
func resolveDateOrRelative(s string) (ye, mo, da, ho, mi, se int, err error) {
	s = strings.TrimSpace(s)
	if len(s) > 0 && (s[0] >= '0' && s[0] <= '9') {
		return parseDateSpec(s)
	}
	return resolveRelative(strings.Fields(strings.ToLower(s)), aktime.Now())
}

func parseDateSpec(s string) (ye, mo, da, ho, mi, se int, err error) {
	mo, da, ho, mi, se = -1, -1, -1, -1, -1
	datePart, timePart := s, ""
	if i := strings.IndexAny(s, "T "); i >= 0 {
		datePart, timePart = s[:i], s[i+1:]
	}
	df := strings.Split(datePart, "-")
	if ye, err = strconv.Atoi(df[0]); err != nil {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("matcher: invalid reftime date %q: %w", s, err)
	}
	if len(df) > 1 {
		if mo, err = strconv.Atoi(df[1]); err != nil {
			return 0, 0, 0, 0, 0, 0, err
		}
	}
	if len(df) > 2 {
		if da, err = strconv.Atoi(df[2]); err != nil {
			return 0, 0, 0, 0, 0, 0, err
		}
	}
	if timePart != "" {
		tf := strings.Split(timePart, ":")
		if ho, err = strconv.Atoi(tf[0]); err != nil {
			return 0, 0, 0, 0, 0, 0, err
		}
		mi, se = 0, 0
		if len(tf) > 1 {
			if mi, err = strconv.Atoi(tf[1]); err != nil {
				return 0, 0, 0, 0, 0, 0, err
			}
		}
		if len(tf) > 2 {
			if se, err = strconv.Atoi(tf[2]); err != nil {
				return 0, 0, 0, 0, 0, 0, err
			}
		}
	}
	return ye, mo, da, ho, mi, se, nil
}

func singularUnit(u string) string {
	if strings.HasSuffix(u, "s") && u != "s" {
		return u[:len(u)-1]
	}
	return u
}

func addUnit(t aktime.Time, n int, sign int, unit string) aktime.Time {
	n *= sign
	switch singularUnit(unit) {
	case "second", "sec":
		t.Se += n
	case "minute", "min":
		t.Mi += n
	case "hour":
		t.Ho += n
	case "day":
		t.Da += n
	case "week":
		t.Da += n * 7
	case "month":
		t.Mo += n
	case "year":
		t.Ye += n
	}
	return t.Normalise()
}

// resolveRelative implements a representative subset of arkimet's
// relative-date grammar (spec.md §4.5): now/today/yesterday/tomorrow,
// "easter YEAR", "processione san luca YEAR", "a week ago", and additive
// phrases like "3 days after tomorrow 12:00" or "2 months a week 3 days
// before tomorrow 12:00".
func resolveRelative(tokens []string, now aktime.Time) (ye, mo, da, ho, mi, se int, err error) {
	if len(tokens) == 0 {
		return 0, 0, 0, 0, 0, 0, fmt.Errorf("matcher: empty reftime expression")
	}

	if idx := indexOf(tokens, "before"); idx >= 0 {
		return applyOffset(tokens[:idx], -1, tokens[idx+1:], now)
	}
	if idx := indexOf(tokens, "after"); idx >= 0 {
		return applyOffset(tokens[:idx], 1, tokens[idx+1:], now)
	}

	if len(tokens) == 3 && tokens[0] == "a" && tokens[1] == "week" && tokens[2] == "ago" {
		t := addUnit(now, 1, -1, "week")
		return t.Ye, t.Mo, t.Da, t.Ho, t.Mi, t.Se, nil
	}

	if tokens[0] == "easter" && len(tokens) >= 2 {
		year, err := strconv.Atoi(tokens[1])
		if err != nil {
			return 0, 0, 0, 0, 0, 0, fmt.Errorf("matcher: invalid easter year %q: %w", tokens[1], err)
		}
		t := aktime.Easter(year)
		return t.Ye, t.Mo, t.Da, -1, -1, -1, nil
	}

	if len(tokens) >= 4 && tokens[0] == "processione" && tokens[1] == "san" && tokens[2] == "luca" {
		year, err := strconv.Atoi(tokens[3])
		if err != nil {
			return 0, 0, 0, 0, 0, 0, fmt.Errorf("matcher: invalid processione year %q: %w", tokens[3], err)
		}
		t := aktime.Easter(year)
		t = addUnit(t, 5, 1, "week")
		t = addUnit(t, 1, -1, "day")
		return t.Ye, t.Mo, t.Da, -1, -1, -1, nil
	}

	switch tokens[0] {
	case "now":
		return now.Ye, now.Mo, now.Da, now.Ho, now.Mi, now.Se, nil
	case "today", "yesterday", "tomorrow":
		t := now
		switch tokens[0] {
		case "yesterday":
			t = addUnit(t, 1, -1, "day")
		case "tomorrow":
			t = addUnit(t, 1, 1, "day")
		}
		if len(tokens) == 1 {
			return t.Ye, t.Mo, t.Da, -1, -1, -1, nil
		}
		sec, err := parseTimeOfDay(tokens[1])
		if err != nil {
			return 0, 0, 0, 0, 0, 0, err
		}
		return t.Ye, t.Mo, t.Da, sec / 3600, (sec % 3600) / 60, sec % 60, nil
	}

	return 0, 0, 0, 0, 0, 0, fmt.Errorf("matcher: cannot parse relative reftime expression %q", strings.Join(tokens, " "))
}

// applyOffset parses a chain of "<n> <unit>" terms (joined optionally by
// "and") applied with the given sign to the base expression's resolved
// instant.
func applyOffset(offsetTokens []string, sign int, baseTokens []string, now aktime.Time) (ye, mo, da, ho, mi, se int, err error) {
	bye, bmo, bda, bho, bmi, bse, err := resolveRelative(baseTokens, now)
	if err != nil {
		return 0, 0, 0, 0, 0, 0, err
	}
	base := aktime.CreateLowerbound(bye, bmo, bda, bho, bmi, bse)

	i := 0
	for i < len(offsetTokens) {
		if offsetTokens[i] == "and" {
			i++
			continue
		}
		if i+1 >= len(offsetTokens) {
			return 0, 0, 0, 0, 0, 0, fmt.Errorf("matcher: dangling offset term %q", offsetTokens[i])
		}
		amount := offsetTokens[i]
		if amount == "a" || amount == "an" {
			amount = "1"
		}
		n, err := strconv.Atoi(amount)
		if err != nil {
			return 0, 0, 0, 0, 0, 0, fmt.Errorf("matcher: invalid offset amount %q: %w", offsetTokens[i], err)
		}
		base = addUnit(base, n, sign, offsetTokens[i+1])
		i += 2
	}
	return base.Ye, base.Mo, base.Da, base.Ho, base.Mi, base.Se, nil
}

func indexOf(tokens []string, word string) int {
	for i, t := range tokens {
		if t == word {
			return i
		}
	}
	return -1
}
