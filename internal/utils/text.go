package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText applies NFKC normalization, drops control characters other
// than newlines and tabs, and trims surrounding whitespace.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.TrimSpace(normed)
}

// Fold returns the case-folded form of text, suitable for case-insensitive
// substring matching.
func Fold(text string) string {
	return cases.Fold().String(text)
}

// Tokens splits text into lowercase letter/digit runs, keeping their order.
func Tokens(text string) []string {
	return strings.FieldsFunc(Fold(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// UniqueTokens is Tokens with duplicates removed, first occurrence wins.
func UniqueTokens(text string) []string {
	tokens := Tokens(text)
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
