package match

import (
	"strings"
	"unicode"

	"github.com/lexandro/launchdex/catalog"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var pinyinArgs = pinyin.NewArgs()

// stripMarks decomposes to NFD, drops combining marks, and recomposes,
// turning e.g. "é" into "e".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Phoneticize returns the Latin transliteration fields for a non-ASCII
// name, or nil when the name is pure ASCII (or nothing transliterates).
// Han characters become one pinyin word each; accented Latin words have
// their diacritics stripped. The full rendering joins all words without
// spaces; the acronym takes each word's first letter.
func Phoneticize(name string) *catalog.Phonetic {
	if IsASCII(name) {
		return nil
	}

	words := phoneticWords(name)
	if len(words) == 0 {
		return nil
	}

	var full, acronym strings.Builder
	for _, w := range words {
		full.WriteString(w)
		acronym.WriteByte(w[0])
	}
	return &catalog.Phonetic{Full: full.String(), Acronym: acronym.String()}
}

// phoneticWords splits a name into lowercase ASCII words. Han runes are
// words of their own (their pinyin reading); runs of other letters and
// digits form words broken at spaces and punctuation.
func phoneticWords(name string) []string {
	var words []string
	var current []rune

	flush := func() {
		if len(current) == 0 {
			return
		}
		if w := asciiFold(string(current)); w != "" {
			words = append(words, w)
		}
		current = current[:0]
	}

	for _, r := range name {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			if readings := pinyin.SinglePinyin(r, pinyinArgs); len(readings) > 0 {
				words = append(words, strings.ToLower(readings[0]))
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current = append(current, r)
		default:
			flush()
		}
	}
	flush()
	return words
}

// asciiFold strips diacritics and lowercases, keeping only the runes that
// end up ASCII. Scripts with no Latin decomposition fold to nothing.
func asciiFold(word string) string {
	folded, _, err := transform.String(stripMarks, word)
	if err != nil {
		folded = word
	}
	var b strings.Builder
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}
