package keyword

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonTokenChars = regexp.MustCompile(`[^\pL\pN\s$]+`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Splits free-form text in to tokens, including lower-case, unicode normalization, and some unicode folding.
//
// Cashtag dollar signs are kept ("$doge"), other punctuation is dropped. This is the tokenizer used for topic discovery and keyword statistics; similarity scoring uses the plain whitespace split in NormalizeText.
func TokenizeText(text string) []string {
	// this function needs to be re-defined in every function call to prevent a race condition
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	bare := strings.ToLower(nonTokenChars.ReplaceAllString(text, " "))
	folded, _, err := transform.String(normFunc, bare)
	if err != nil {
		slog.Warn("unicode normalization error", "err", err)
		folded = bare
	}
	return strings.Fields(folded)
}

// Case-folds and collapses runs of whitespace to a single space. Leading and trailing whitespace is removed.
func NormalizeText(text string) string {
	return strings.TrimSpace(whitespace.ReplaceAllString(strings.ToLower(text), " "))
}
