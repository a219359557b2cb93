package main

import (
	"regexp"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
	"golang.org/x/text/unicode/norm"
)

var nonAlphaNumRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normalizeForMatching canonicalizes a filename or episode title for the
// containment test: NFC form, case-folded, every non-alphanumeric run
// collapsed to a single space.
func normalizeForMatching(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	return strings.Trim(nonAlphaNumRegex.ReplaceAllString(s, " "), " ")
}

func computeSimilarityScore(title1, title2 string, useJaroWinkler bool) int {
	title1 = normalizeForMatching(title1)
	title2 = normalizeForMatching(title2)

	var similarity float64
	if useJaroWinkler {
		metric := &metrics.JaroWinkler{CaseSensitive: false}
		similarity = strutil.Similarity(title1, title2, metric)
	} else {
		metric := &metrics.SorensenDice{CaseSensitive: false, NgramSize: 2}
		similarity = strutil.Similarity(title1, title2, metric)
	}

	return int(similarity * 100)
}

// performReplacements runs a configured regex replacement table over a string.
func performReplacements(s string, replacements []Replacement) string {
	for _, item := range replacements {
		re := item.compiled
		if re == nil {
			continue
		}
		if item.RepeatUntilNoChange {
			previous := ""
			for previous != s {
				previous = s
				s = re.ReplaceAllString(s, item.Replacement)
			}
		} else {
			s = re.ReplaceAllString(s, item.Replacement)
		}
	}
	return s
}

// Words kept lowercase when title-casing, unless forced otherwise by config.
var titlecaseSmallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true,
	"by": true, "en": true, "for": true, "if": true, "in": true, "nor": true,
	"of": true, "on": true, "or": true, "per": true, "the": true, "to": true,
	"vs": true, "via": true,
}

// specialCapitalization applies the configured capitalization exceptions to a
// word. The second return value reports whether an exception claimed the word.
func specialCapitalization(word string, config *Config) (string, bool) {
	for _, re := range config.forceUppercase {
		if re.MatchString(word) {
			return strings.ToUpper(word), true
		}
	}
	for _, re := range config.forceTitlecase {
		if re.MatchString(word) {
			return capitalizeWord(strings.ToLower(word)), true
		}
	}
	for _, re := range config.skipCapitalization {
		if re.MatchString(word) {
			return word, true
		}
	}
	return word, false
}

func capitalizeWord(word string) string {
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// titlecase title-cases a phrase, keeping small words lowercase except in
// first position and leaving words with internal capitals or digits alone.
func titlecase(s string, config *Config) string {
	words := strings.Split(s, " ")
	for idx, word := range words {
		if word == "" {
			continue
		}
		if replaced, ok := specialCapitalization(word, config); ok {
			words[idx] = replaced
			continue
		}
		lower := strings.ToLower(word)
		if titlecaseSmallWords[lower] && idx != 0 && idx != len(words)-1 {
			words[idx] = lower
			continue
		}
		if word != lower && word != capitalizeWord(lower) {
			// mixed case looks intentional
			continue
		}
		words[idx] = capitalizeWord(lower)
	}
	return strings.Join(words, " ")
}

// titlecaseFilename title-cases the stem of a filename, preserving the extension.
func titlecaseFilename(p Path, config *Config) string {
	name := p.lastPathComponent()
	ext := p.extension()
	stem := name
	if ext != "" {
		stem = strings.TrimSuffix(name, "."+ext)
	}
	stem = titlecase(stem, config)
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

func Coalesce(str1, str2 string) string {
	if str1 == "" {
		return str2
	}
	return str1
}

// ReplaceInvalidFilenameChars replaces characters in a string that cannot be
// used in cache filenames with underscores.
func ReplaceInvalidFilenameChars(s string) string {
	re1 := regexp.MustCompile(`(?i)(https?:\/\/|token=[0-9a-z]+&?|key=[0-9a-z]+&?)`)
	s = re1.ReplaceAllString(s, "")

	re2 := regexp.MustCompile(`(?i)(api\.podchaser\.com)`)
	s = re2.ReplaceAllString(s, "podchaser_")

	re3 := regexp.MustCompile(`(?i)(api\.podcastindex\.org)`)
	s = re3.ReplaceAllString(s, "podcastindex_")

	re4 := regexp.MustCompile(`(?i)((?:www\.)?podnews\.net)`)
	s = re4.ReplaceAllString(s, "podnews_")

	re5 := regexp.MustCompile(`[^\%\.\-\p{L}\p{N}]+`)
	return re5.ReplaceAllString(s, "_")
}
