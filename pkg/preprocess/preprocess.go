// Package preprocess implements pipeline stage 2 (spec.md §4.3): turning raw
// paper titles/abstracts into sentence-segmented, token-normalized text
// ready for the extractor stages.
package preprocess

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

var (
	citationRefRe = regexp.MustCompile(`\[\d+(?:[,\-–]\s*\d+)*\]|\(\s*(?:[A-Z][a-z]+\s+et al\.?,?\s*)?\d{4}[a-z]?\s*\)`)
	figureRefRe   = regexp.MustCompile(`(?i)\(?\s*(?:fig(?:ure)?|table)\.?\s*\d+[a-z]?\s*\)?`)
	urlRe         = regexp.MustCompile(`https?://\S+|www\.\S+`)
	sentenceEndRe = regexp.MustCompile(`(?:[.!?]+)(?:\s+|$)`)
	tokenRe       = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9\-]*`)
	abbreviations = map[string]bool{
		"fig": true, "figs": true, "al": true, "vs": true, "e.g": true,
		"i.e": true, "approx": true, "no": true, "dr": true, "mr": true, "mrs": true,
	}
)

var extraStopwords = map[string]bool{
	"fig": true, "et": true, "al": true, "vs": true,
}

// Process runs every stage-2 paper through Text, in input order, logging a
// summary and marking preprocess_failed per §4.3's failure semantics. A
// paper whose segmentation produces zero sentences is marked failed on the
// caller's papers slice (papers[i] is updated in place) and excluded from
// the returned slice, so NER and every later stage never sees it.
func Process(ctx context.Context, papers []model.Paper, logger *slog.Logger) []model.PreprocessedPaper {
	if logger == nil {
		logger = slog.Default()
	}

	out := make([]model.PreprocessedPaper, 0, len(papers))
	failed := 0
	for i := range papers {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		pp := Text(papers[i])
		if len(pp.Sentences) == 0 {
			papers[i].PreprocessFailed = true
			failed++
			continue
		}
		out = append(out, pp)
	}

	logger.Info("preprocess.complete", "papers", len(papers), "preprocess_failed", failed)
	return out
}

// Text runs the ordered operations of §4.3 over a single paper: citation/
// figure-reference stripping, URL removal, sentence segmentation,
// tokenization, lemmatization, POS tagging, and domain-stopword removal.
// The original text and offsets into it are retained on each sentence.
func Text(p model.Paper) model.PreprocessedPaper {
	original := strings.TrimSpace(p.Title + ". " + p.Abstract)

	cleaned := citationRefRe.ReplaceAllString(original, "")
	cleaned = figureRefRe.ReplaceAllString(cleaned, "")
	cleaned = urlRe.ReplaceAllString(cleaned, "")

	sentences := segment(original, cleaned)

	return model.PreprocessedPaper{
		PaperID:   p.Key(),
		Title:     p.Title,
		Original:  original,
		Sentences: sentences,
	}
}

// segment splits cleaned text into sentences, tracking each sentence's
// character offset range into the original (pre-cleaning) text so extractors
// can cite source spans. Offsets are approximate when cleaning removed text,
// since the cleaned string is shorter than the original; a best-effort
// byte-position search against original is used.
func segment(original, cleaned string) []model.Sentence {
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return nil
	}

	raw := splitSentences(cleaned)
	sentences := make([]model.Sentence, 0, len(raw))
	searchFrom := 0
	for i, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}

		tokens := tokenize(s)
		if len(tokens) == 0 {
			// Punctuation-only fragments (e.g. a bare "." left over from a
			// paper with no title or abstract) carry nothing for NER to
			// extract; they are not a real sentence.
			continue
		}

		from, to := locate(original, s, searchFrom)
		if to > searchFrom {
			searchFrom = to
		}

		lemmas := make([]string, len(tokens))
		pos := make([]string, len(tokens))
		for j, t := range tokens {
			lemmas[j] = lemmatize(t)
			pos[j] = tagPOS(t, j)
		}

		sentences = append(sentences, model.Sentence{
			Index:        i,
			Text:         s,
			Tokens:       removeStopwords(tokens),
			Lemmas:       lemmas,
			POS:          pos,
			OriginalFrom: from,
			OriginalTo:   to,
		})
	}
	return sentences
}

// splitSentences breaks text on sentence-ending punctuation, skipping known
// abbreviations that would otherwise produce a spurious boundary.
func splitSentences(text string) []string {
	matches := sentenceEndRe.FindAllStringIndex(text, -1)
	if matches == nil {
		return []string{text}
	}

	var out []string
	start := 0
	for _, m := range matches {
		candidate := text[start:m[0]]
		lastWord := lastWordLower(candidate)
		if abbreviations[lastWord] {
			continue
		}
		out = append(out, text[start:m[1]])
		start = m[1]
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

func lastWordLower(s string) string {
	s = strings.TrimSpace(s)
	idx := strings.LastIndexAny(s, " \t\n")
	if idx >= 0 {
		s = s[idx+1:]
	}
	return strings.ToLower(strings.Trim(s, ".,;:"))
}

// locate finds sentence s in original starting at or after searchFrom,
// returning its offset range. Falls back to [searchFrom, searchFrom] when
// cleaning removed enough text that an exact match can't be found.
func locate(original, s string, searchFrom int) (int, int) {
	if searchFrom > len(original) {
		searchFrom = len(original)
	}
	idx := strings.Index(original[searchFrom:], firstWords(s, 3))
	if idx < 0 {
		return searchFrom, searchFrom
	}
	from := searchFrom + idx
	to := from + len(s)
	if to > len(original) {
		to = len(original)
	}
	return from, to
}

func firstWords(s string, n int) string {
	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[:n]
	}
	return strings.Join(fields, " ")
}

func tokenize(s string) []string {
	return tokenRe.FindAllString(s, -1)
}

// removeStopwords filters standard English stopwords plus the domain
// augmentation ("fig", "et al", "vs") called out in §4.3.
func removeStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		lower := strings.ToLower(t)
		if stopwords[lower] || extraStopwords[lower] {
			continue
		}
		out = append(out, t)
	}
	return out
}
