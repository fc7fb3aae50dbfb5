// Copyright (C) 2022 NHR@FAU, University Erlangen-Nuremberg.
// All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.
package step

import (
	"testing"

	"github.com/arkimet/arkimet/pkg/aktime"
)

func TestDailyPathAndSpan(t *testing.T) {
	s, err := New("daily")
	if err != nil {
		t.Fatal(err)
	}
	tm := aktime.New(2007, 1, 2, 3, 4, 5)
	path := s.Path(tm)
	if path != "2007/01-02" {
		t.Fatalf("got %q", path)
	}
	iv, ok := s.Span(path)
	if !ok {
		t.Fatal("expected span to parse")
	}
	if !iv.Contains(tm) {
		t.Errorf("span %+v does not contain %+v", iv, tm)
	}
	want := aktime.Interval{Begin: aktime.New(2007, 1, 2, 0, 0, 0), End: aktime.New(2007, 1, 2, 23, 59, 59)}
	if iv != want {
		t.Errorf("got %+v want %+v", iv, want)
	}
}

func TestMonthlyPathAndSpan(t *testing.T) {
	s, _ := New("monthly")
	tm := aktime.New(2007, 2, 15, 0, 0, 0)
	path := s.Path(tm)
	if path != "2007/02" {
		t.Fatalf("got %q", path)
	}
	iv, ok := s.Span(path)
	if !ok {
		t.Fatal("expected span to parse")
	}
	want := aktime.Interval{Begin: aktime.New(2007, 2, 1, 0, 0, 0), End: aktime.New(2007, 2, 28, 23, 59, 59)}
	if iv != want {
		t.Errorf("got %+v want %+v", iv, want)
	}
}

func TestYearlyPathAndSpan(t *testing.T) {
	s, _ := New("yearly")
	tm := aktime.New(2007, 6, 1, 0, 0, 0)
	path := s.Path(tm)
	if path != "20/2007" {
		t.Fatalf("got %q", path)
	}
	iv, ok := s.Span(path)
	if !ok {
		t.Fatal("expected span to parse")
	}
	want := aktime.Interval{Begin: aktime.New(2007, 1, 1, 0, 0, 0), End: aktime.New(2007, 12, 31, 23, 59, 59)}
	if iv != want {
		t.Errorf("got %+v want %+v", iv, want)
	}
}

func TestBiweeklySplit(t *testing.T) {
	s, _ := New("biweekly")
	first := aktime.New(2007, 3, 10, 0, 0, 0)
	second := aktime.New(2007, 3, 20, 0, 0, 0)
	if s.Path(first) != "2007/03-1" {
		t.Errorf("got %q", s.Path(first))
	}
	if s.Path(second) != "2007/03-2" {
		t.Errorf("got %q", s.Path(second))
	}
}

func TestWeeklyRoundTrip(t *testing.T) {
	s, _ := New("weekly")
	tm := aktime.New(2007, 3, 10, 0, 0, 0)
	path := s.Path(tm)
	iv, ok := s.Span(path)
	if !ok {
		t.Fatal("expected span to parse")
	}
	if !iv.Contains(tm) {
		t.Errorf("span %+v does not contain %+v (path %q)", iv, tm, path)
	}
}

func TestInvalidStepName(t *testing.T) {
	if _, err := New("fortnightly"); err == nil {
		t.Error("expected error for unsupported step name")
	}
}

func TestShardYearly(t *testing.T) {
	sh, err := NewShard("yearly", "monthly")
	if err != nil {
		t.Fatal(err)
	}
	tm := aktime.New(2007, 6, 1, 0, 0, 0)
	if sh.ShardPath(tm) != "2007" {
		t.Errorf("got %q", sh.ShardPath(tm))
	}
	sub := sh.Substep(tm)
	if sub.Path(tm) != "06" {
		t.Errorf("got %q", sub.Path(tm))
	}
}
