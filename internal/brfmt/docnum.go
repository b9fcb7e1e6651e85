package brfmt

import "strings"

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCPF masks an 11-digit CPF as ###.###.###-##.
// Inputs with any other digit count are returned unchanged.
func FormatCPF(s string) string {
	d := digitsOnly(s)
	if len(d) != 11 {
		return s
	}
	return d[:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:]
}

// FormatCNJ masks a 20-digit lawsuit number in the CNJ standard form
// #######-##.####.#.##.#### (NNNNNNN-DD.AAAA.J.TR.OOOO).
func FormatCNJ(s string) string {
	d := digitsOnly(s)
	if len(d) != 20 {
		return s
	}
	return d[:7] + "-" + d[7:9] + "." + d[9:13] + "." + d[13:14] + "." + d[14:16] + "." + d[16:]
}
