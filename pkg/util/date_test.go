package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2025-06-02T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeDateOnly(t *testing.T) {
	got, ok := ParseTime("2025-06-02")
	if !ok {
		t.Fatalf("expected ok")
	}
	if TradingDate(got) != "2025-06-02" {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2025, 6, 2, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2025, 6, 2, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}

func TestTradingDateIgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC)
	b := time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)
	if TradingDate(a) != TradingDate(b) {
		t.Fatalf("same day bucketed differently")
	}
}

func TestDateOnly(t *testing.T) {
	if !DateOnly("2025-06-02") {
		t.Fatalf("bare date not recognized")
	}
	for _, s := range []string{"2025-06-02T10:10:10Z", "1748856000", ""} {
		if DateOnly(s) {
			t.Fatalf("%q misread as bare date", s)
		}
	}
}

func TestEndOfDay(t *testing.T) {
	in := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	out := EndOfDay(in)
	if TradingDate(out) != "2025-06-02" {
		t.Fatalf("end of day crossed date: %v", out)
	}
	if !out.After(in) {
		t.Fatalf("end of day not after input")
	}
}
