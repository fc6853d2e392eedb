package relation

import (
	"regexp"

	"github.com/NimaFathima/astrobiomers/pkg/model"
)

const patternConfidence = 0.82

// triggerPattern is one trigger-phrase template (§4.5 item 2): "X leads to
// Y", "X-induced Y", "Y caused by X". subjectFirst indicates whether the
// regex's first capture group is the subject (true) or the object (false).
type triggerPattern struct {
	re           *regexp.Regexp
	relType      model.RelationType
	subjectFirst bool
}

var triggerPatterns = []triggerPattern{
	{regexp.MustCompile(`(?i)leads? to`), model.RelCauses, true},
	{regexp.MustCompile(`(?i)results? in`), model.RelCauses, true},
	{regexp.MustCompile(`(?i)gives? rise to`), model.RelCauses, true},
	{regexp.MustCompile(`(?i)-induced`), model.RelUpregulates, true},
	{regexp.MustCompile(`(?i)caused by`), model.RelCauses, false},
	{regexp.MustCompile(`(?i)induced by`), model.RelUpregulates, false},
	{regexp.MustCompile(`(?i)associated with`), model.RelAssociatedWith, true},
	{regexp.MustCompile(`(?i)linked to`), model.RelAssociatedWith, true},
	{regexp.MustCompile(`(?i)part of`), model.RelPartOf, true},
	{regexp.MustCompile(`(?i)component of`), model.RelPartOf, true},
}

// extractPatternTemplates matches trigger phrases between the two mentions
// nearest the trigger on either side, in document order.
func extractPatternTemplates(sm sentenceMentions) []model.Relation {
	var out []model.Relation
	text := sm.sentence.Text

	for _, tp := range triggerPatterns {
		loc := tp.re.FindStringIndex(text)
		if loc == nil {
			continue
		}

		before := nearestMentionBefore(sm.mentions, sm.sentence, loc[0])
		after := nearestMentionAfter(sm.mentions, sm.sentence, loc[1])
		if before == nil || after == nil || before.CanonicalName == after.CanonicalName {
			continue
		}

		subject, object := before, after
		if !tp.subjectFirst {
			subject, object = after, before
		}

		out = append(out, model.Relation{
			PaperID:          subject.PaperID,
			SubjectCanonical: subject.CanonicalName,
			SubjectKind:      subject.Kind,
			Type:             tp.relType,
			ObjectCanonical:  object.CanonicalName,
			ObjectKind:       object.Kind,
			Confidence:       patternConfidence,
			Evidence:         []string{sm.sentence.Text},
			Technique:        "pattern_template",
		})
	}
	return out
}
