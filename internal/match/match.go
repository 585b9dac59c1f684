// Package match scores how well a candidate title matches a search query.
// Comparison is case- and accent-insensitive. Scores fall into tiers so the
// orchestrator can rank candidates: exact > prefix > substring > fuzzy.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Score tiers, highest first. Ties within a tier are broken by the caller
// (provider rating, then original provider order).
const (
	ScoreExact     = 400
	ScorePrefix    = 300
	ScoreSubstring = 200
	ScoreFuzzy     = 100
	ScoreNone      = 0
)

// aliasPenalty demotes an alias-only match below a title match in the same
// tier without letting it drop a whole tier.
const aliasPenalty = 50

// fuzzyThreshold is the minimum Levenshtein similarity ratio for a candidate
// to land in the fuzzy tier at all.
const fuzzyThreshold = 0.5

// Fold normalizes a string for comparison: decomposes accented characters and
// strips the combining marks, lowercases, and collapses runs of whitespace.
func Fold(s string) string {
	// The transform chain keeps internal buffers, so build it per call
	// rather than sharing one across goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Join(strings.Fields(folded), " ")
}

// Score rates how well candidate matches query. Both sides are folded before
// comparison. A candidate below the fuzzy threshold scores ScoreNone.
func Score(query, candidate string) int {
	q := Fold(query)
	c := Fold(candidate)
	if q == "" || c == "" {
		return ScoreNone
	}

	switch {
	case c == q:
		return ScoreExact
	case strings.HasPrefix(c, q):
		return ScorePrefix
	case strings.Contains(c, q):
		return ScoreSubstring
	}

	dist := fuzzy.LevenshteinDistance(q, c)
	longest := utf8.RuneCountInString(q)
	if l := utf8.RuneCountInString(c); l > longest {
		longest = l
	}
	if longest == 0 {
		return ScoreNone
	}
	if ratio := 1.0 - float64(dist)/float64(longest); ratio >= fuzzyThreshold {
		return ScoreFuzzy
	}
	return ScoreNone
}

// BestScore scores query against the display title and every alias. An
// alias-only match is demoted so a title match wins within the same tier,
// while an alias in a higher tier still beats a title in a lower one.
func BestScore(query, title string, aliases []string) int {
	best := Score(query, title)
	for _, alias := range aliases {
		s := Score(query, alias)
		if s == ScoreNone {
			continue
		}
		if s -= aliasPenalty; s > best {
			best = s
		}
	}
	return best
}

// Matches reports whether the candidate scores above ScoreNone for the query
// on its title or any alias. Used for pagination early-stop.
func Matches(query, title string, aliases []string) bool {
	return BestScore(query, title, aliases) > ScoreNone
}
