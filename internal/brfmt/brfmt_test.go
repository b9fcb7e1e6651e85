package brfmt

import (
	"testing"
	"time"
)

func TestParseDate_AcceptedForms(t *testing.T) {
	cases := []struct {
		in   string
		want Date
	}{
		{"2024-03-10", Date{2024, time.March, 10}},
		{"2024-03-10T14:30:00Z", Date{2024, time.March, 10}},
		{"2024-03-10 14:30", Date{2024, time.March, 10}},
		{"10/03/2024", Date{2024, time.March, 10}},
		{"  29/02/2024  ", Date{2024, time.February, 29}},
	}
	for _, c := range cases {
		got, ok := ParseDate(c.in)
		if !ok {
			t.Fatalf("ParseDate(%q) not ok", c.in)
		}
		if !got.Equal(c.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseDate_Malformed(t *testing.T) {
	for _, in := range []string{"", "   ", "not a date", "31/02/2024", "2024-13-01", "10-03-2024"} {
		if d, ok := ParseDate(in); ok {
			t.Fatalf("ParseDate(%q) unexpectedly ok: %v", in, d)
		}
	}
}

func TestDate_Roundtrip(t *testing.T) {
	d := NewDate(2024, time.June, 1)
	if d.ISO() != "2024-06-01" {
		t.Fatalf("ISO = %q", d.ISO())
	}
	if d.Label() != "01/06/2024" {
		t.Fatalf("Label = %q", d.Label())
	}
	if FormatLabel("2024-06-01") != "01/06/2024" {
		t.Fatalf("FormatLabel = %q", FormatLabel("2024-06-01"))
	}
	// Unparseable input passes through so partially-filled forms stay visible.
	if FormatLabel("??") != "??" {
		t.Fatalf("FormatLabel passthrough = %q", FormatLabel("??"))
	}
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2024, time.May, 31)
	b := NewDate(2024, time.June, 1)
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("ordering broken: %v vs %v", a, b)
	}
	if a.Before(a) {
		t.Fatalf("date before itself")
	}
}

func TestDaysInMonth(t *testing.T) {
	if got := DaysInMonth(2024, time.February); got != 29 {
		t.Fatalf("Feb 2024 = %d days", got)
	}
	if got := DaysInMonth(2023, time.February); got != 28 {
		t.Fatalf("Feb 2023 = %d days", got)
	}
	if got := DaysInMonth(2024, time.December); got != 31 {
		t.Fatalf("Dec 2024 = %d days", got)
	}
}

func TestClampDay(t *testing.T) {
	if got := ClampDay(2023, time.February, 31); got != 28 {
		t.Fatalf("clamp 31 -> %d", got)
	}
	if got := ClampDay(2023, time.February, 0); got != 1 {
		t.Fatalf("clamp 0 -> %d", got)
	}
}

func TestNormalizeCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"R$ 1.234,56", 1234.56},
		{"1234.56", 1234.56},
		{"1234,56", 1234.56},
		{"R$ 1.234.567,89", 1234567.89},
		{"  R$ 10  ", 10},
	}
	for _, c := range cases {
		got, ok := NormalizeCurrency(c.in)
		if !ok {
			t.Fatalf("NormalizeCurrency(%q) not ok", c.in)
		}
		if got != c.want {
			t.Fatalf("NormalizeCurrency(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	for _, in := range []string{"abc", "", "R$ ,"} {
		if v, ok := NormalizeCurrency(in); ok {
			t.Fatalf("NormalizeCurrency(%q) unexpectedly ok: %v", in, v)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	if got := FormatBRL(1234.5); got != "R$ 1.234,50" {
		t.Fatalf("FormatBRL = %q", got)
	}
	if got := FormatBRL(0); got != "R$ 0,00" {
		t.Fatalf("FormatBRL(0) = %q", got)
	}
}

func TestFormatCPF(t *testing.T) {
	if got := FormatCPF("12345678901"); got != "123.456.789-01" {
		t.Fatalf("FormatCPF = %q", got)
	}
	// Wrong digit count: leave untouched rather than guessing.
	if got := FormatCPF("1234"); got != "1234" {
		t.Fatalf("FormatCPF short = %q", got)
	}
}

func TestFormatCNJ(t *testing.T) {
	if got := FormatCNJ("00012345620248260100"); got != "0001234-56.2024.8.26.0100" {
		t.Fatalf("FormatCNJ = %q", got)
	}
}
