// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package classify

import "strings"

// Numbers extracts numeric tokens from raw text in source order. Tokens
// longer than maxDigits digits are dropped: a ten-digit run is a phone
// number or message ID, not a casualty count. Arabic-Indic and extended
// (Persian) digits are folded to ASCII before length filtering so "٣" and
// "3" count the same.
func Numbers(raw string, maxDigits int) []string {
	if maxDigits <= 0 {
		maxDigits = 6
	}

	var out []string
	var run strings.Builder

	flush := func() {
		if run.Len() == 0 {
			return
		}
		if run.Len() <= maxDigits {
			out = append(out, run.String())
		}
		run.Reset()
	}

	for _, r := range raw {
		if d, ok := foldDigit(r); ok {
			run.WriteByte(d)
			continue
		}
		flush()
	}
	flush()

	return out
}

// foldDigit maps any supported digit rune to its ASCII byte.
func foldDigit(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r), true
	case r >= '٠' && r <= '٩': // Arabic-Indic ٠-٩
		return byte('0' + r - '٠'), true
	case r >= '۰' && r <= '۹': // Extended Arabic-Indic ۰-۹
		return byte('0' + r - '۰'), true
	}
	return 0, false
}
