package relation

import (
	"github.com/NimaFathima/astrobiomers/pkg/model"
)

// verbLemmaToType is the curated verb-lemma-to-relation-type mapping named
// in §4.5.
var verbLemmaToType = map[string]model.RelationType{
	"upregulate":   model.RelUpregulates,
	"induce":       model.RelUpregulates,
	"downregulate": model.RelDownregulates,
	"inhibit":      model.RelDownregulates,
	"suppress":     model.RelDownregulates,
	"cause":        model.RelCauses,
	"treat":        model.RelTreats,
	"ameliorate":   model.RelTreats,
	"prevent":      model.RelPrevents,
	"bind":         model.RelInteractsWith,
	"interact":     model.RelInteractsWith,
	"associate":    model.RelAssociatedWith,
}

const svoConfidence = 0.80

// extractSVO finds, for each verb token whose lemma is in verbLemmaToType,
// the nearest preceding mention (subject) and nearest following mention
// (object) in the same sentence, and emits a typed relation (§4.5 item 1).
func extractSVO(sm sentenceMentions) []model.Relation {
	var out []model.Relation
	for i, lemma := range sm.sentence.Lemmas {
		relType, ok := verbLemmaToType[lemma]
		if !ok {
			continue
		}
		if sm.sentence.POS[i] != "VERB" {
			continue
		}

		verbOffset := tokenOffset(sm.sentence, i)
		subject := nearestMentionBefore(sm.mentions, sm.sentence, verbOffset)
		object := nearestMentionAfter(sm.mentions, sm.sentence, verbOffset)
		if subject == nil || object == nil || subject.CanonicalName == object.CanonicalName {
			continue
		}

		out = append(out, model.Relation{
			PaperID:          subject.PaperID,
			SubjectCanonical: subject.CanonicalName,
			SubjectKind:      subject.Kind,
			Type:             relType,
			ObjectCanonical:  object.CanonicalName,
			ObjectKind:       object.Kind,
			Confidence:       svoConfidence,
			Evidence:         []string{sm.sentence.Text},
			Technique:        "dependency_svo",
		})
	}
	return out
}

// tokenOffset approximates a token's character offset within the sentence
// by summing prior token+separator lengths. Good enough for before/after
// ordering, which is all SVO attachment needs.
func tokenOffset(s model.Sentence, tokenIndex int) int {
	offset := 0
	for i := 0; i < tokenIndex && i < len(s.Tokens); i++ {
		offset += len(s.Tokens[i]) + 1
	}
	return offset
}

func nearestMentionBefore(mentions []model.Mention, sentence model.Sentence, offset int) *model.Mention {
	var best *model.Mention
	bestDist := -1
	for i := range mentions {
		m := &mentions[i]
		pos := mentionOffset(sentence, *m)
		if pos >= offset {
			continue
		}
		dist := offset - pos
		if best == nil || dist < bestDist {
			best = m
			bestDist = dist
		}
	}
	return best
}

func nearestMentionAfter(mentions []model.Mention, sentence model.Sentence, offset int) *model.Mention {
	var best *model.Mention
	bestDist := -1
	for i := range mentions {
		m := &mentions[i]
		pos := mentionOffset(sentence, *m)
		if pos < offset {
			continue
		}
		dist := pos - offset
		if best == nil || dist < bestDist {
			best = m
			bestDist = dist
		}
	}
	return best
}
