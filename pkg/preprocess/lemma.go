package preprocess

import "strings"

// lemmatize reduces a token to a rough base form via suffix-stripping rules.
// This is a lightweight stand-in for a full morphological lemmatizer; it
// covers the common English inflections the downstream pattern matchers and
// verb-lemma relation mapping (§4.5) rely on.
func lemmatize(token string) string {
	lower := strings.ToLower(token)

	if lemma, ok := irregularLemmas[lower]; ok {
		return lemma
	}

	switch {
	case strings.HasSuffix(lower, "ies") && len(lower) > 4:
		return lower[:len(lower)-3] + "y"
	case strings.HasSuffix(lower, "ied") && len(lower) > 4:
		return lower[:len(lower)-3] + "y"
	case strings.HasSuffix(lower, "ing") && len(lower) > 5:
		stem := lower[:len(lower)-3]
		return restoreSilentE(stem)
	case strings.HasSuffix(lower, "ed") && len(lower) > 4:
		stem := lower[:len(lower)-2]
		return restoreSilentE(stem)
	case strings.HasSuffix(lower, "es") && len(lower) > 4 && endsInSibilant(lower[:len(lower)-2]):
		return lower[:len(lower)-2]
	case strings.HasSuffix(lower, "s") && !strings.HasSuffix(lower, "ss") && len(lower) > 3:
		return lower[:len(lower)-1]
	}
	return lower
}

func endsInSibilant(s string) bool {
	for _, suf := range []string{"s", "x", "z", "ch", "sh"} {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}

// restoreSilentE undoes consonant doubling ("running" -> "runn" -> "run")
// and restores a dropped trailing "e" ("inducing" -> "induc" -> "induce"),
// the two common shapes left after stripping "-ing"/"-ed".
func restoreSilentE(stem string) string {
	n := len(stem)
	if n >= 2 && stem[n-1] == stem[n-2] && isConsonant(rune(stem[n-1])) {
		return stem[:n-1]
	}
	if n >= 2 && isConsonant(rune(stem[n-1])) && !isConsonant(rune(stem[n-2])) {
		return stem + "e"
	}
	return stem
}

func isConsonant(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	}
	return r >= 'a' && r <= 'z'
}

// irregularLemmas covers verbs the relation-extraction verb-to-type mapping
// (§4.5) depends on directly, where suffix rules would miss or mangle the
// base form.
var irregularLemmas = map[string]string{
	"induced":      "induce",
	"inducing":     "induce",
	"induces":      "induce",
	"caused":       "cause",
	"causing":      "cause",
	"causes":       "cause",
	"upregulated":  "upregulate",
	"upregulating": "upregulate",
	"upregulates":  "upregulate",
	"downregulated":  "downregulate",
	"downregulating": "downregulate",
	"downregulates":  "downregulate",
	"inhibited":   "inhibit",
	"inhibiting":  "inhibit",
	"inhibits":    "inhibit",
	"treated":     "treat",
	"treating":    "treat",
	"treats":      "treat",
	"ameliorated": "ameliorate",
	"ameliorating": "ameliorate",
	"ameliorates": "ameliorate",
	"prevented":   "prevent",
	"preventing":  "prevent",
	"prevents":    "prevent",
	"bound":       "bind",
	"binding":     "bind",
	"binds":       "bind",
	"interacted":  "interact",
	"interacting": "interact",
	"interacts":   "interact",
	"associated":  "associate",
	"associating": "associate",
	"associates":  "associate",
	"was":  "be",
	"were": "be",
	"is":   "be",
	"are":  "be",
	"has":  "have",
	"had":  "have",
}
