package matching

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/xrash/smetrics"
)

// stopwords removed from both sides before token overlap is computed.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {},
}

// EditSimilarity returns 1 - levenshtein(s1,s2)/max(len(s1),len(s2)).
// Two empty strings are identical (1.0); one empty string shares nothing (0.0).
func EditSimilarity(s1, s2 string) float64 {
	if s1 == "" && s2 == "" {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)
	maxLen := len([]rune(s1))
	if l := len([]rune(s2)); l > maxLen {
		maxLen = l
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// SequenceSimilarity scores shared character sequences using Jaro-Winkler,
// which rewards common prefixes and is monotone in shared substrings.
func SequenceSimilarity(s1, s2 string) float64 {
	if s1 == "" && s2 == "" {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}
	return smetrics.JaroWinkler(s1, s2, 0.7, 4)
}

// TokenSimilarity returns the Jaccard index over whitespace-split tokens,
// with stopwords removed from both sides first.
func TokenSimilarity(s1, s2 string) float64 {
	if s1 == "" && s2 == "" {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	tokens1 := contentTokens(s1)
	tokens2 := contentTokens(s2)

	if len(tokens1) == 0 && len(tokens2) == 0 {
		return 1.0
	}
	if len(tokens1) == 0 || len(tokens2) == 0 {
		return 0.0
	}

	intersection := 0
	for token := range tokens1 {
		if _, ok := tokens2[token]; ok {
			intersection++
		}
	}
	union := len(tokens1) + len(tokens2) - intersection

	return float64(intersection) / float64(union)
}

// PhoneticSimilarity is 1.0 iff the four-character Soundex codes of the two
// strings match exactly, else 0.0.
func PhoneticSimilarity(s1, s2 string) float64 {
	if s1 == "" && s2 == "" {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}
	if smetrics.Soundex(s1) == smetrics.Soundex(s2) {
		return 1.0
	}
	return 0.0
}

func contentTokens(s string) map[string]struct{} {
	tokens := map[string]struct{}{}
	for _, token := range strings.Fields(s) {
		if _, skip := stopwords[token]; !skip {
			tokens[token] = struct{}{}
		}
	}
	return tokens
}
