package skills

import (
	"context"
	"fmt"
	"strings"
)

// DetectionXP is the fixed XP grant per detected skill.
const DetectionXP = 10

// Detection says a note exercised a skill.
type Detection struct {
	SkillID string
	XP      int
}

// Generator is the one gateway call the detector needs.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Detector infers which skills a note practiced. It asks the local model
// first and falls back to keyword matching when the model is unreachable
// or answers nothing usable.
type Detector struct {
	gw Generator
}

func NewDetector(gw Generator) *Detector {
	return &Detector{gw: gw}
}

// Detect returns the skills practiced in noteText, each worth DetectionXP.
// The AI path filters the model's answer against the known skill ids;
// tokens it invented are dropped without complaint, and the literal answer
// "none" means no skills. Any gateway failure routes to DetectFallback.
func (d *Detector) Detect(ctx context.Context, noteText string) []Detection {
	dets, _ := d.DetectVerbose(ctx, noteText)
	return dets
}

// DetectVerbose additionally reports whether the keyword fallback was
// used, so the UI can warn about degraded detection.
func (d *Detector) DetectVerbose(ctx context.Context, noteText string) ([]Detection, bool) {
	if d.gw == nil {
		return DetectFallback(noteText), true
	}

	resp, err := d.gw.Generate(ctx, detectionPrompt(noteText))
	if err != nil || strings.TrimSpace(resp) == "" {
		return DetectFallback(noteText), true
	}
	return ParseDetections(resp), false
}

func detectionPrompt(noteText string) string {
	var b strings.Builder
	b.WriteString("A learner wrote this note about what they studied today:\n\n")
	b.WriteString(noteText)
	b.WriteString("\n\nWhich of these skills did they practice?\n\n")
	for _, id := range SkillOrder {
		fmt.Fprintf(&b, "- %s: %s\n", id, skillDescriptions[id])
	}
	b.WriteString("\nAnswer with ONLY a comma-separated list of skill ids from the list above")
	b.WriteString(" (for example: python, api), or the single word none.")
	b.WriteString(" Be generous: if the note even loosely touches a skill, include it.")
	return b.String()
}

// ParseDetections applies the strict output contract to a raw model
// response: lowercase, split on commas, trim, keep only known skill ids.
// Unparseable text simply yields an empty set.
func ParseDetections(raw string) []Detection {
	valid := map[string]bool{}
	for _, id := range SkillOrder {
		valid[id] = true
	}

	hits := map[string]bool{}
	for _, tok := range strings.Split(strings.ToLower(raw), ",") {
		tok = strings.TrimSpace(tok)
		if valid[tok] {
			hits[tok] = true
		}
	}

	return toDetections(hits)
}

// DetectFallback is the deterministic keyword path: pure substring
// matching, no I/O, always succeeds. It is the only detection path a test
// can assert exact output for.
func DetectFallback(noteText string) []Detection {
	lower := strings.ToLower(noteText)
	hits := map[string]bool{}
	for _, id := range SkillOrder {
		for _, kw := range fallbackKeywords[id] {
			if strings.Contains(lower, kw) {
				hits[id] = true
				break
			}
		}
	}
	return toDetections(hits)
}

// toDetections orders hits by SkillOrder so output is stable.
func toDetections(hits map[string]bool) []Detection {
	var out []Detection
	for _, id := range SkillOrder {
		if hits[id] {
			out = append(out, Detection{SkillID: id, XP: DetectionXP})
		}
	}
	return out
}
