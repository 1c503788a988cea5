// Package report renders a run report as a markdown transparency
// document: every decision with its rationale and alternatives, every
// metric with its threshold and status, and the generated artifacts
// themselves.
package report

import (
	"fmt"
	"strings"

	"github.com/richinex/scribe/model"
)

// Markdown renders the full transparency report for a run.
func Markdown(r model.RunReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run Transparency Report\n\n")
	fmt.Fprintf(&b, "*Run %s, generated %s*\n\n", r.RunID, r.GeneratedAt.Format("2006-01-02 15:04:05 UTC"))

	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "**Decision**: %s\n\n", r.Decision)
	fmt.Fprintf(&b, "**Overall Confidence**: %.1f%%\n\n", r.OverallConfidence*100)
	fmt.Fprintf(&b, "**Estimated Cost**: $%.4f\n\n", r.TotalCostEstimate)

	fmt.Fprintf(&b, "## Quality Metrics\n\n")
	fmt.Fprintf(&b, "| Metric | Score | Threshold | Status |\n")
	fmt.Fprintf(&b, "|--------|-------|-----------|--------|\n")
	for _, m := range r.Metrics {
		fmt.Fprintf(&b, "| %s | %.2f | %.2f | %s |\n", m.Name, m.Score, m.Threshold, m.Status)
	}
	b.WriteString("\n")
	for _, m := range r.Metrics {
		if m.Status != model.StatusPass {
			fmt.Fprintf(&b, "- **%s** (%s): %s\n", m.Name, m.Status, m.Details)
		}
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Decision Log\n\n")
	for _, d := range r.DecisionLog {
		fmt.Fprintf(&b, "### %s\n\n", d.Component)
		fmt.Fprintf(&b, "**Decision**: %s\n\n", d.Decision)
		fmt.Fprintf(&b, "**Rationale**: %s\n\n", d.Rationale)
		if len(d.Alternatives) > 0 {
			fmt.Fprintf(&b, "**Alternatives considered**: %s\n\n", strings.Join(d.Alternatives, "; "))
		}
	}

	if len(r.RiskNotes) > 0 {
		fmt.Fprintf(&b, "## Risk Notes\n\n")
		for _, note := range r.RiskNotes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
		b.WriteString("\n")
	}

	writeArtifacts(&b, r)

	return b.String()
}

// writeArtifacts renders the generated outputs. They are always included,
// even for rejected runs; the gate annotates, it never suppresses.
func writeArtifacts(b *strings.Builder, r model.RunReport) {
	fmt.Fprintf(b, "## Generated Artifacts\n\n")

	for _, result := range r.Results {
		switch result.Kind {
		case model.KindRequirementAnalyzer:
			writeAnalysis(b, result.Payload.Requirements)
		case model.KindVoiceSynthesizer:
			writeEmail(b, result.Payload.Email)
		case model.KindIntroComposer:
			writeIntro(b, result.Payload.Intro)
		case model.KindMetaEvaluator:
			writeEvaluation(b, result.Payload.Evaluation)
		}
	}
}

func writeAnalysis(b *strings.Builder, a *model.RequirementAnalysis) {
	if a == nil {
		return
	}
	fmt.Fprintf(b, "### Requirement Analysis\n\n")
	if a.PositionTitle != "" {
		fmt.Fprintf(b, "**Position**: %s", a.PositionTitle)
		if a.Company != "" {
			fmt.Fprintf(b, " at %s", a.Company)
		}
		b.WriteString("\n\n")
	}
	for _, req := range a.KeyRequirements {
		fmt.Fprintf(b, "- [%s/%s] %s\n", req.Category, req.Importance, req.Requirement)
	}
	if len(a.HiddenRequirements) > 0 {
		fmt.Fprintf(b, "\n**Implicit needs**:\n")
		for _, h := range a.HiddenRequirements {
			fmt.Fprintf(b, "- %s\n", h)
		}
	}
	if len(a.RedFlags) > 0 {
		fmt.Fprintf(b, "\n**Red flags**:\n")
		for _, f := range a.RedFlags {
			fmt.Fprintf(b, "- %s\n", f)
		}
	}
	b.WriteString("\n")
}

func writeEmail(b *strings.Builder, e *model.VoiceEmail) {
	if e == nil {
		return
	}
	fmt.Fprintf(b, "### Outreach Email\n\n")
	fmt.Fprintf(b, "**Subject**: %s\n\n", e.Subject)
	fmt.Fprintf(b, "%s\n\n", e.Body)
}

func writeIntro(b *strings.Builder, i *model.PersonalIntro) {
	if i == nil {
		return
	}
	fmt.Fprintf(b, "### Personal Introduction\n\n")
	if i.Positioning != "" {
		fmt.Fprintf(b, "*%s*\n\n", i.Positioning)
	}
	for _, s := range i.Sections {
		fmt.Fprintf(b, "#### %s\n\n%s\n\n", s.Title, s.Content)
	}
	if i.CallToAction != "" {
		fmt.Fprintf(b, "%s\n\n", i.CallToAction)
	}
}

func writeEvaluation(b *strings.Builder, e *model.MetaEvaluation) {
	if e == nil {
		return
	}
	fmt.Fprintf(b, "### Evaluation\n\n")
	if len(e.Strengths) > 0 {
		fmt.Fprintf(b, "**Strengths**:\n")
		for _, s := range e.Strengths {
			fmt.Fprintf(b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(e.SuccessIndicators) > 0 {
		fmt.Fprintf(b, "**Success indicators**:\n")
		for _, s := range e.SuccessIndicators {
			fmt.Fprintf(b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	if len(e.Recommendations) > 0 {
		fmt.Fprintf(b, "**Recommendations**:\n")
		for i, rec := range e.Recommendations {
			fmt.Fprintf(b, "%d. %s\n", i+1, rec)
		}
		b.WriteString("\n")
	}
}
