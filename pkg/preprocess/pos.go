package preprocess

import "strings"

// tagPOS assigns a coarse part-of-speech tag using closed-class word lists
// and suffix heuristics. It is a lightweight stand-in for a trained tagger,
// sufficient for the dependency-parse-style SVO extraction in §4.5 to locate
// verb tokens and noun-phrase boundaries.
func tagPOS(token string, position int) string {
	lower := strings.ToLower(token)

	if tag, ok := closedClass[lower]; ok {
		return tag
	}

	switch {
	case isAllDigits(lower):
		return "NUM"
	case strings.HasSuffix(lower, "ly"):
		return "ADV"
	case strings.HasSuffix(lower, "ing"), strings.HasSuffix(lower, "ed"):
		return "VERB"
	case strings.HasSuffix(lower, "ous"), strings.HasSuffix(lower, "ive"),
		strings.HasSuffix(lower, "al"), strings.HasSuffix(lower, "ic"):
		return "ADJ"
	case position == 0 && len(token) > 0 && token[0] >= 'A' && token[0] <= 'Z':
		return "NOUN"
	default:
		return "NOUN"
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var closedClass = map[string]string{
	"the": "DET", "a": "DET", "an": "DET", "this": "DET", "that": "DET", "these": "DET", "those": "DET",
	"and": "CCONJ", "or": "CCONJ", "but": "CCONJ", "nor": "CCONJ",
	"in": "ADP", "on": "ADP", "at": "ADP", "by": "ADP", "with": "ADP", "from": "ADP", "to": "ADP", "of": "ADP", "for": "ADP",
	"is": "VERB", "are": "VERB", "was": "VERB", "were": "VERB", "be": "VERB", "been": "VERB", "being": "VERB",
	"has": "VERB", "have": "VERB", "had": "VERB",
	"not": "PART", "no": "DET",
	"induce": "VERB", "induces": "VERB", "induced": "VERB", "inducing": "VERB",
	"cause": "VERB", "causes": "VERB", "caused": "VERB", "causing": "VERB",
	"treat": "VERB", "treats": "VERB", "treated": "VERB", "treating": "VERB",
	"prevent": "VERB", "prevents": "VERB", "prevented": "VERB", "preventing": "VERB",
}
