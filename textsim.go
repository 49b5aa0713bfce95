package medquiz

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizer strips combining marks after NFD decomposition, which removes
// diacritics from accented French text ("médicament" -> "medicament").
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases the text, strips diacritics and collapses every run of
// non-alphanumeric characters into a single space. All lexical comparisons in
// the pipeline operate on normalized text.
func Normalize(text string) string {
	stripped, _, err := transform.String(normalizer, text)
	if err != nil {
		stripped = text
	}
	stripped = strings.ToLower(stripped)

	var sb strings.Builder
	sb.Grow(len(stripped))
	inGap := false
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if inGap && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			inGap = false
			sb.WriteRune(r)
		} else {
			inGap = true
		}
	}
	return sb.String()
}

// EditDistance computes the Levenshtein distance between a and b over runes,
// using a single rolling row.
func EditDistance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	row := make([]int, len(rb)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur := row[j]
			row[j] = minInt(row[j]+1, minInt(row[j-1]+1, prev+cost))
			prev = cur
		}
	}
	return row[len(rb)]
}

// NearDuplicate reports whether two texts are near-duplicates after
// normalization: edit distance below 20% of the longer length.
func NearDuplicate(a, b string) bool {
	na := Normalize(a)
	nb := Normalize(b)
	if na == nb {
		return true
	}
	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return true
	}
	return float64(EditDistance(na, nb))/float64(maxLen) < nearDuplicateRatio
}

// TokenOverlap measures how much of a's vocabulary appears in b: the size of
// the intersection of their token sets divided by the size of a's token set.
// The measure is asymmetric on purpose; callers pass the correct answer first
// to see how much of its vocabulary leaks into a distractor.
func TokenOverlap(a, b string) float64 {
	ta := tokenSet(a)
	if len(ta) == 0 {
		return 0
	}
	tb := tokenSet(b)
	shared := 0
	for tok := range ta {
		if _, ok := tb[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(ta))
}

// tokenSet returns the set of normalized tokens of at least 3 characters.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(Normalize(text)) {
		if len([]rune(tok)) >= 3 {
			set[tok] = struct{}{}
		}
	}
	return set
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
