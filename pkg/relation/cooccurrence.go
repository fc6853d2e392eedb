package relation

import "github.com/NimaFathima/astrobiomers/pkg/model"

// extractCooccurrence emits ASSOCIATED_WITH at the configured ceiling for
// every mention pair sharing a sentence that no other technique already
// connected (§4.5 item 3). connected holds both orderings of already-linked
// canonical-name pairs.
func extractCooccurrence(sm sentenceMentions, connected map[string]bool, ceiling float64) []model.Relation {
	var out []model.Relation
	for i := 0; i < len(sm.mentions); i++ {
		for j := i + 1; j < len(sm.mentions); j++ {
			a, b := sm.mentions[i], sm.mentions[j]
			if a.CanonicalName == b.CanonicalName {
				continue
			}
			if connected[a.CanonicalName+"|"+b.CanonicalName] {
				continue
			}

			out = append(out, model.Relation{
				PaperID:          a.PaperID,
				SubjectCanonical: a.CanonicalName,
				SubjectKind:      a.Kind,
				Type:             model.RelAssociatedWith,
				ObjectCanonical:  b.CanonicalName,
				ObjectKind:       b.Kind,
				Confidence:       ceiling,
				Evidence:         []string{sm.sentence.Text},
				Technique:        "cooccurrence",
			})
		}
	}
	return out
}
