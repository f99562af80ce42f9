// Package matcher decides whether a free-text answer matches a question's reference answer.
package matcher

import (
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"pubquiz-service/internal/domain"
)

// MinContainmentLength guards substring matching against one or two letter answers.
const MinContainmentLength = 4

// Normalize lowercases, trims, strips diacritics and collapses whitespace.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	stripper := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(stripper, s); err == nil {
		s = stripped
	}
	return strings.Join(strings.Fields(s), " ")
}

// AllowedDistance is the edit budget for a reference of the given length in characters.
func AllowedDistance(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// CheckAnswer reports whether submitted is an acceptable answer to q.
func CheckAnswer(submitted string, q domain.Question) bool {
	sub := Normalize(submitted)
	ref := Normalize(q.Answer.String())

	switch q.Type {
	case domain.QuestionMultipleChoice:
		return sub == ref
	case domain.QuestionNumber:
		return numbersMatch(submitted, q.Answer.String(), q.Tolerance)
	}

	if sub == ref {
		return true
	}
	if withinDistance(sub, ref) {
		return true
	}

	subLen := utf8.RuneCountInString(sub)
	for _, alt := range q.AcceptedAnswers {
		alt = Normalize(alt)
		if alt == "" {
			continue
		}
		if sub == alt || withinDistance(sub, alt) {
			return true
		}
		if subLen >= MinContainmentLength && strings.Contains(alt, sub) {
			return true
		}
	}

	if subLen >= MinContainmentLength && (strings.Contains(ref, sub) || strings.Contains(sub, ref)) {
		return true
	}
	return false
}

func withinDistance(sub, ref string) bool {
	return Distance(sub, ref) <= AllowedDistance(utf8.RuneCountInString(ref))
}

func numbersMatch(submitted, reference string, tolerance float64) bool {
	got, ok := parseNumber(submitted)
	if !ok {
		return false
	}
	want, ok := parseNumber(reference)
	if !ok {
		return false
	}
	return math.Abs(got-want) <= math.Abs(tolerance)
}

func parseNumber(s string) (float64, bool) {
	digits := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(digits, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Distance is the restricted Damerau-Levenshtein (optimal string alignment) distance
// between a and b over code points. Insertions, deletions and substitutions cost 1,
// and so does swapping two adjacent characters, so "flim" is one edit from "film"
// where plain Levenshtein would count two.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	m, n := len(ra), len(rb)

	d := make([][]int, m+1)
	for i := range d {
		d[i] = make([]int, n+1)
		d[i][0] = i
	}
	for j := 0; j <= n; j++ {
		d[0][j] = j
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			d[i][j] = min(d[i-1][j]+1, d[i][j-1]+1, d[i-1][j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				d[i][j] = min(d[i][j], d[i-2][j-2]+1)
			}
		}
	}
	return d[m][n]
}
