// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package step maps Reftime instants to the on-disk segment path a
// dataset files them under, and back (spec.md §6, "on-disk layout"):
// Yearly, Monthly, Biweekly, Weekly and Daily steps, plus the sharding
// variants used by datasets that additionally partition by year.
package step

import (
	"fmt"

	"github.com/arkimet/arkimet/pkg/aktime"
)

// Step names a segmenting granularity and converts between a Time and
// the path component it belongs under.
type Step interface {
	Name() string
	// Path renders the segment path for t (without file extension).
	Path(t aktime.Time) string
	// Span parses a path emitted by Path back into the inclusive time
	// interval it denotes, reporting false if path does not match this
	// step's format.
	Span(path string) (aktime.Interval, bool)
}

type yearly struct{}

func (yearly) Name() string { return "yearly" }
func (yearly) Path(t aktime.Time) string {
	return fmt.Sprintf("%02d/%04d", t.Ye/100, t.Ye)
}
func (yearly) Span(path string) (aktime.Interval, bool) {
	var dummy, ye int
	if n, _ := fmt.Sscanf(path, "%02d/%04d", &dummy, &ye); n != 2 {
		return aktime.Interval{}, false
	}
	return aktime.Interval{
		Begin: aktime.CreateLowerbound(ye, -1, -1, -1, -1, -1),
		End:   aktime.CreateUpperbound(ye, -1, -1, -1, -1, -1),
	}, true
}

type monthly struct{}

func (monthly) Name() string { return "monthly" }
func (monthly) Path(t aktime.Time) string {
	return fmt.Sprintf("%04d/%02d", t.Ye, t.Mo)
}
func (monthly) Span(path string) (aktime.Interval, bool) {
	var ye, mo int
	if n, _ := fmt.Sscanf(path, "%04d/%02d", &ye, &mo); n != 2 {
		return aktime.Interval{}, false
	}
	return aktime.Interval{
		Begin: aktime.CreateLowerbound(ye, mo, -1, -1, -1, -1),
		End:   aktime.CreateUpperbound(ye, mo, -1, -1, -1, -1),
	}, true
}

// subMonthly is monthly's per-shard counterpart: the year is fixed by
// the enclosing shard, so the path carries only the month.
type subMonthly struct{ year int }

func (subMonthly) Name() string { return "monthly" }
func (s subMonthly) Path(t aktime.Time) string { return fmt.Sprintf("%02d", t.Mo) }
func (s subMonthly) Span(path string) (aktime.Interval, bool) {
	var mo int
	if n, _ := fmt.Sscanf(path, "%02d", &mo); n != 1 {
		return aktime.Interval{}, false
	}
	return aktime.Interval{
		Begin: aktime.CreateLowerbound(s.year, mo, -1, -1, -1, -1),
		End:   aktime.CreateUpperbound(s.year, mo, -1, -1, -1, -1),
	}, true
}

type biweekly struct{}

func (biweekly) Name() string { return "biweekly" }
func (biweekly) Path(t aktime.Time) string {
	half := 1
	if t.Da > 14 {
		half = 2
	}
	return fmt.Sprintf("%04d/%02d-%d", t.Ye, t.Mo, half)
}
func (biweekly) Span(path string) (aktime.Interval, bool) {
	ye, mo, half, ok := scanYeMoN(path)
	if !ok {
		return aktime.Interval{}, false
	}
	minDa, maxDa := -1, -1
	switch half {
	case 1:
		minDa, maxDa = 1, 14
	case 2:
		minDa = 15
	}
	return aktime.Interval{
		Begin: aktime.CreateLowerbound(ye, mo, minDa, -1, -1, -1),
		End:   aktime.CreateUpperbound(ye, mo, maxDa, -1, -1, -1),
	}, true
}

type weekly struct{}

func (weekly) Name() string { return "weekly" }
func (weekly) Path(t aktime.Time) string {
	week := (t.Da-1)/7 + 1
	return fmt.Sprintf("%04d/%02d-%d", t.Ye, t.Mo, week)
}
func (weekly) Span(path string) (aktime.Interval, bool) {
	ye, mo, week, ok := scanYeMoN(path)
	if !ok {
		return aktime.Interval{}, false
	}
	minDa, maxDa := weekDayRange(week)
	return aktime.Interval{
		Begin: aktime.CreateLowerbound(ye, mo, minDa, -1, -1, -1),
		End:   aktime.CreateUpperbound(ye, mo, maxDa, -1, -1, -1),
	}, true
}

type subWeekly struct{ year int }

func (subWeekly) Name() string { return "weekly" }
func (s subWeekly) Path(t aktime.Time) string {
	week := (t.Da-1)/7 + 1
	return fmt.Sprintf("%02d-%d", t.Mo, week)
}
func (s subWeekly) Span(path string) (aktime.Interval, bool) {
	var mo, week int
	if n, _ := fmt.Sscanf(path, "%02d-%d", &mo, &week); n < 1 {
		return aktime.Interval{}, false
	}
	minDa, maxDa := weekDayRange(week)
	return aktime.Interval{
		Begin: aktime.CreateLowerbound(s.year, mo, minDa, -1, -1, -1),
		End:   aktime.CreateUpperbound(s.year, mo, maxDa, -1, -1, -1),
	}, true
}

func weekDayRange(week int) (minDa, maxDa int) {
	if week == 0 {
		return -1, -1
	}
	minDa = (week-1)*7 + 1
	maxDa = minDa + 6
	return
}

func scanYeMoN(path string) (ye, mo, n int, ok bool) {
	c, _ := fmt.Sscanf(path, "%04d/%02d-%d", &ye, &mo, &n)
	return ye, mo, n, c >= 2
}

type daily struct{}

func (daily) Name() string { return "daily" }
func (daily) Path(t aktime.Time) string {
	return fmt.Sprintf("%04d/%02d-%02d", t.Ye, t.Mo, t.Da)
}
func (daily) Span(path string) (aktime.Interval, bool) {
	var ye, mo, da int
	if n, _ := fmt.Sscanf(path, "%04d/%02d-%02d", &ye, &mo, &da); n != 3 {
		return aktime.Interval{}, false
	}
	return aktime.Interval{
		Begin: aktime.CreateLowerbound(ye, mo, da, -1, -1, -1),
		End:   aktime.CreateUpperbound(ye, mo, da, -1, -1, -1),
	}, true
}

type subDaily struct{ year int }

func (subDaily) Name() string { return "daily" }
func (s subDaily) Path(t aktime.Time) string { return fmt.Sprintf("%02d-%02d", t.Mo, t.Da) }
func (s subDaily) Span(path string) (aktime.Interval, bool) {
	var mo, da int
	if n, _ := fmt.Sscanf(path, "%02d-%02d", &mo, &da); n != 2 {
		return aktime.Interval{}, false
	}
	return aktime.Interval{
		Begin: aktime.CreateLowerbound(s.year, mo, da, -1, -1, -1),
		End:   aktime.CreateUpperbound(s.year, mo, da, -1, -1, -1),
	}, true
}

// New returns the Step named by type_ (one of "daily", "weekly",
// "biweekly", "monthly", "yearly").
func New(type_ string) (Step, error) {
	switch type_ {
	case "daily":
		return daily{}, nil
	case "weekly":
		return weekly{}, nil
	case "biweekly":
		return biweekly{}, nil
	case "monthly":
		return monthly{}, nil
	case "yearly":
		return yearly{}, nil
	default:
		return nil, fmt.Errorf("step %q is not supported: valid values are daily, weekly, biweekly, monthly, and yearly", type_)
	}
}

// List returns the names of every non-sharded Step.
func List() []string {
	return []string{"daily", "weekly", "biweekly", "monthly", "yearly"}
}

// ShardStep additionally partitions a dataset by year: the outer path
// component is produced by ShardPath, and within each shard a substep
// (with the year implied) handles the remainder.
type ShardStep interface {
	Name() string
	ShardPath(t aktime.Time) string
	Substep(t aktime.Time) Step
}

type baseShardStep struct{ subType string }

func (s baseShardStep) substepFor(year int) (Step, error) {
	switch s.subType {
	case "daily":
		return subDaily{year}, nil
	case "weekly":
		return subWeekly{year}, nil
	case "monthly":
		return subMonthly{year}, nil
	case "yearly":
		return yearly{}, nil
	default:
		return nil, fmt.Errorf("step %q is not supported inside a shard: valid values are daily, weekly, and monthly", s.subType)
	}
}

type shardYearly struct{ baseShardStep }

func (shardYearly) Name() string               { return "yearly" }
func (shardYearly) ShardPath(t aktime.Time) string { return fmt.Sprintf("%04d", t.Ye) }
func (s shardYearly) Substep(t aktime.Time) Step {
	sub, _ := s.substepFor(t.Ye)
	return sub
}

type shardMonthly struct{ baseShardStep }

func (shardMonthly) Name() string { return "monthly" }
func (shardMonthly) ShardPath(t aktime.Time) string {
	return fmt.Sprintf("%04d-%02d", t.Ye, t.Mo)
}
func (s shardMonthly) Substep(t aktime.Time) Step {
	sub, _ := s.substepFor(t.Ye)
	return sub
}

type shardWeekly struct{ baseShardStep }

func (shardWeekly) Name() string { return "weekly" }
func (shardWeekly) ShardPath(t aktime.Time) string {
	return fmt.Sprintf("%04d-%02d-%d", t.Ye, t.Mo, (t.Da-1)/7+1)
}
func (s shardWeekly) Substep(t aktime.Time) Step {
	sub, _ := s.substepFor(t.Ye)
	return sub
}

// NewShard returns the ShardStep for shardType ("weekly", "monthly", or
// "yearly"), whose substeps are of kind subType.
func NewShard(shardType, subType string) (ShardStep, error) {
	base := baseShardStep{subType: subType}
	switch shardType {
	case "weekly":
		return shardWeekly{base}, nil
	case "monthly":
		return shardMonthly{base}, nil
	case "yearly":
		return shardYearly{base}, nil
	default:
		return nil, fmt.Errorf("shard step %q is not supported: valid values are weekly, monthly, and yearly", shardType)
	}
}
