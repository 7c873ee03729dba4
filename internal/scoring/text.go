package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// tokenize splits lower-cased text into letter/digit runs.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func uniqueTokens(s string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range tokenize(s) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

func hasToken(s string, words ...string) bool {
	for _, tok := range tokenize(s) {
		for _, w := range words {
			if tok == w {
				return true
			}
		}
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func charCount(s string) int {
	return utf8.RuneCountInString(s)
}

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// keywordVariants returns the forms a keyword may appear in: as written,
// singular or plural, and with inner whitespace removed or hyphenated.
func keywordVariants(keyword string) []string {
	k := Normalize(keyword)
	if k == "" {
		return nil
	}
	variants := []string{k}
	switch {
	case strings.HasSuffix(k, "ies") && charCount(k) > 4:
		variants = append(variants, strings.TrimSuffix(k, "ies")+"y")
	case strings.HasSuffix(k, "es") && charCount(k) > 4:
		variants = append(variants, strings.TrimSuffix(k, "es"), strings.TrimSuffix(k, "s"))
	case strings.HasSuffix(k, "s") && charCount(k) > 3:
		variants = append(variants, strings.TrimSuffix(k, "s"))
	case strings.HasSuffix(k, "y") && charCount(k) > 3:
		variants = append(variants, strings.TrimSuffix(k, "y")+"ies", k+"s")
	default:
		variants = append(variants, k+"s", k+"es")
	}
	if strings.ContainsFunc(k, unicode.IsSpace) {
		variants = append(variants, compact(k), strings.Join(strings.Fields(k), "-"))
	}
	return variants
}

// MatchKeywords splits keywords into those found in answer and those missed.
// Keywords are reported in their original form and order.
func MatchKeywords(answer string, keywords []string) (matched, missed []string) {
	lower := strings.ToLower(answer)
	squeezed := compact(lower)
	matched = []string{}
	missed = []string{}

	for _, kw := range keywords {
		found := false
		for _, v := range keywordVariants(kw) {
			if strings.Contains(lower, v) || strings.Contains(squeezed, compact(v)) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, kw)
		} else {
			missed = append(missed, kw)
		}
	}
	return matched, missed
}
