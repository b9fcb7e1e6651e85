package brfmt

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// NormalizeCurrency parses a user/API-facing money string into a float.
//
// Separator disambiguation follows the back office convention: when both "."
// and "," are present, dot is the thousands separator and comma the decimal
// one ("R$ 1.234,56"); a lone comma is decimal ("1234,56"); a lone dot is
// already machine form ("1234.56"). Returns ok=false when no digit survives.
func NormalizeCurrency(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}
	hasDot := strings.Contains(s, ".")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasDot && hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatBRL renders a pt-BR currency label ("R$ 1.234,56").
// Non-finite input renders as the empty string.
func FormatBRL(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return brPrinter.Sprintf("R$ %.2f", v)
}
