// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize canonicalizes Arabic text for place-name and keyword
// matching. Diacritics, letter-form variants, and punctuation differ freely
// between feeds reporting the same event; matching happens on the
// normalized form only.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// arabicDiacritics covers the Arabic combining mark ranges: honorifics and
// Quranic annotation signs (U+0610–U+061A), tashkil (U+064B–U+065F), and
// the small high signs (U+06D6–U+06ED).
var arabicDiacritics = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0610, Hi: 0x061A, Stride: 1},
		{Lo: 0x064B, Hi: 0x065F, Stride: 1},
		{Lo: 0x06D6, Hi: 0x06ED, Stride: 1},
	},
}

// formatControls covers bidi controls, zero-width characters, and the BOM.
// Telegram clients sprinkle these through copied text.
var formatControls = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x200B, Hi: 0x200F, Stride: 1},
		{Lo: 0x202A, Hi: 0x202E, Stride: 1},
		{Lo: 0x2066, Hi: 0x2069, Stride: 1},
		{Lo: 0xFEFF, Hi: 0xFEFF, Stride: 1},
	},
}

const tatweel = 'ـ' // Arabic elongation character

// foldLetter collapses orthographic variants that are equivalent for
// place-name matching: alef forms to bare alef, hamza carriers to their
// base letter, teh marbuta to heh, alef maksura to yeh.
func foldLetter(r rune) rune {
	switch r {
	case 'آ', 'أ', 'إ':
		return 'ا'
	case 'ؤ':
		return 'و'
	case 'ئ':
		return 'ي'
	case 'ة':
		return 'ه'
	case 'ى':
		return 'ي'
	}
	return r
}

var canonical = transform.Chain(
	runes.Remove(runes.In(formatControls)),
	runes.Remove(runes.In(arabicDiacritics)),
	runes.Remove(runes.Predicate(func(r rune) bool { return r == tatweel })),
	runes.Map(foldLetter),
)

// inArabicBlock reports whether r falls in the base Arabic block.
func inArabicBlock(r rune) bool {
	return r >= 0x0600 && r <= 0x06FF
}

// Normalize canonicalizes raw text: strips format controls and Arabic
// diacritics, removes tatweel, folds letter variants, replaces punctuation
// with spaces (keeping letters, digits, and underscore; Arabic punctuation
// like "،" and "؟" is punctuation too), collapses whitespace runs, trims,
// and lowercases. Idempotent: applying it twice yields the same string.
// Empty in, empty out.
func Normalize(raw string) string {
	folded, _, err := transform.String(canonical, raw)
	if err != nil {
		// runes transforms only fail on invalid UTF-8; fall back to the
		// raw bytes so the rune loop below can still replace them.
		folded = raw
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}

	return strings.ToLower(strings.Join(strings.Fields(b.String()), " "))
}

// HasArabic reports whether s contains at least one character from the
// Arabic block. Gazetteer entries without Arabic script are discarded.
func HasArabic(s string) bool {
	for _, r := range s {
		if inArabicBlock(r) {
			return true
		}
	}
	return false
}
