package matching

import "strings"

// SimilarityThreshold is the minimum token-Jaccard overlap for two skill
// labels to be treated as the same skill when canonical ids are absent.
const SimilarityThreshold = 0.4

// Synonyms lists common alternate spellings for skill labels the fuzzy
// matcher should treat as equivalent. Keys and values are lowercase.
var Synonyms = map[string][]string{
	"javascript":       {"js", "ecmascript"},
	"typescript":       {"ts"},
	"postgresql":       {"postgres", "psql"},
	"kubernetes":       {"k8s"},
	"golang":           {"go"},
	"python":           {"py"},
	"ci-cd":            {"ci cd", "continuous integration", "continuous delivery"},
	"frontend":         {"front end", "front-end"},
	"backend":          {"back end", "back-end"},
	"machine learning": {"ml"},
}

// SimilarSkill reports whether two raw skill labels refer to the same skill:
// exact match after lowering, synonym-table equivalence, or token-Jaccard
// similarity at or above SimilarityThreshold.
func SimilarSkill(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	if a == b {
		return true
	}
	if synonymous(a, b) || synonymous(b, a) {
		return true
	}
	return TokenJaccard(a, b) >= SimilarityThreshold
}

// MentionedInText reports whether a skill label appears in free-form
// experience text, either verbatim or through a synonym.
func MentionedInText(label, text string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	text = strings.ToLower(text)
	if label == "" || text == "" {
		return false
	}
	if containsWord(text, label) {
		return true
	}
	for _, s := range Synonyms[label] {
		if containsWord(text, s) {
			return true
		}
	}
	return false
}

// TokenJaccard computes |A∩B| / |A∪B| over the whitespace token sets of the
// two labels.
func TokenJaccard(a, b string) float64 {
	at := tokenSet(a)
	bt := tokenSet(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}

	inter := 0
	for t := range at {
		if _, ok := bt[t]; ok {
			inter++
		}
	}
	union := len(at) + len(bt) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func synonymous(key, other string) bool {
	for _, s := range Synonyms[key] {
		if s == other {
			return true
		}
	}
	return false
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, t := range strings.Fields(s) {
		t = strings.Trim(t, ".,;:()[]")
		if t != "" {
			out[t] = struct{}{}
		}
	}
	return out
}

func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isAlnum(rune(text[start-1]))
		afterOK := end == len(text) || !isAlnum(rune(text[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
