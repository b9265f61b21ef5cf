package formatter

import (
	"strings"

	"luxeprompt/internal/domain/jsoncfg"
)

// DalleQualityClause closes every natural-language prompt.
const DalleQualityClause = "High-end editorial photograph, photorealistic detail, luxury magazine color grading."

const dalleFacelessClause = "seen from behind, face not visible"

type dalle struct{}

func (dalle) Format(spec jsoncfg.PromptSpec) FormattedPrompt {
	var clauses []string
	clause := func(prefix, value, suffix string) {
		if value = strings.TrimSpace(value); value != "" {
			clauses = append(clauses, prefix+value+suffix)
		}
	}

	var who []string
	for _, v := range []string{spec.Identity, spec.Subject} {
		if v = strings.TrimSpace(v); v != "" {
			who = append(who, v)
		}
	}
	clause("A ", strings.Join(who, " "), "")
	if len(spec.Pose) > 0 {
		clause("in a ", spec.Pose[0], " pose")
	}
	clause("wearing ", spec.Clothing, "")
	clause("made of ", joinNonBlank(spec.Materials, " and "), "")
	clause("in a ", spec.Scene, "")
	clause("with ", spec.Lighting, " lighting")
	clause("conveying a ", spec.Mood, " mood")

	sentence := strings.Join(clauses, " ")
	if spec.Faceless {
		if sentence == "" {
			sentence = "Subject " + dalleFacelessClause
		} else {
			sentence += ", " + dalleFacelessClause
		}
	}

	positive := DalleQualityClause
	if sentence != "" {
		positive = sentence + ". " + DalleQualityClause
	}
	return FormattedPrompt{
		Positive: positive,
		Model:    jsoncfg.ModelDalle,
		Full:     positive,
	}
}

func joinNonBlank(values []string, sep string) string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return strings.Join(out, sep)
}
