// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package typeahead

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CleanQueryLowercase lowercases a query and turns non-breaking spaces
// into plain ones.
func CleanQueryLowercase(query string) string {
	return strings.ToLower(strings.ReplaceAll(query, "\u00a0", " "))
}

// RemoveDiacritics strips combining marks, so "José" becomes "Jose".
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func hasDiacritics(s string) bool {
	return RemoveDiacritics(s) != norm.NFC.String(s)
}

// QueryMatchesStringInOrder reports whether source, lowercased, starts with
// query or contains it right after sep. Diacritics in source are ignored
// unless the query has some. query must already be cleaned.
func QueryMatchesStringInOrder(query, source, sep string) bool {
	source = strings.ToLower(source)
	if !hasDiacritics(query) {
		source = RemoveDiacritics(source)
	}
	return strings.HasPrefix(source, query) || strings.Contains(source, sep+query)
}

// matchesEmoji matches emoji by word prefix of the name ('_' separated,
// with spaces in the query standing for '_') or by the literal character.
func matchesEmoji(query string, e EmojiSuggestion) bool {
	if glyph := e.Glyph(); glyph != "" && glyph == query {
		return true
	}
	q := CleanQueryLowercase(strings.ReplaceAll(query, " ", "_"))
	return QueryMatchesStringInOrder(q, e.Name, "_")
}

// matchesLanguage is a case-insensitive substring match.
func matchesLanguage(query, language string) bool {
	return strings.Contains(language, strings.ToLower(query))
}
