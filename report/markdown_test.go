package report

import (
	"strings"
	"testing"
	"time"

	"github.com/richinex/scribe/model"
)

func sampleReport() model.RunReport {
	return model.RunReport{
		RunID:       "run-42",
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Results: []model.AgentResult{
			{
				Kind: model.KindRequirementAnalyzer,
				Payload: model.Payload{Requirements: &model.RequirementAnalysis{
					PositionTitle: "Engineer",
					Company:       "Acme",
					KeyRequirements: []model.Requirement{
						{Category: "technical", Requirement: "Go", Importance: model.ImportanceCritical},
					},
					RedFlags: []string{"vague scope"},
				}},
				Confidence: 0.9,
				Rationale:  "complete extraction",
			},
			{
				Kind: model.KindVoiceSynthesizer,
				Payload: model.Payload{Email: &model.VoiceEmail{
					Subject: "Worth a conversation",
					Body:    "The architecture ahead...",
				}},
				Confidence: 0.85,
				Rationale:  "aligned",
			},
		},
		Metrics: []model.QualityMetric{
			{Name: "voice_alignment", Score: 0.85, Threshold: 0.80, Status: model.StatusPass},
			{Name: "job_alignment", Score: 0.70, Threshold: 0.85, Status: model.StatusFail, Details: "low coverage"},
		},
		OverallConfidence: 0.78,
		Decision:          model.RunRejected,
		DecisionLog: []model.Decision{
			{Component: "quality_gate", Decision: "rejected", Rationale: "a metric failed", Alternatives: []string{"publish anyway"}},
		},
		RiskNotes:         []string{"metric job_alignment failed"},
		TotalCostEstimate: 0.1234,
	}
}

func TestMarkdownContainsCoreSections(t *testing.T) {
	md := Markdown(sampleReport())

	for _, want := range []string{
		"# Run Transparency Report",
		"run-42",
		"## Quality Metrics",
		"| voice_alignment | 0.85 | 0.80 | PASS |",
		"| job_alignment | 0.70 | 0.85 | FAIL |",
		"## Decision Log",
		"### quality_gate",
		"## Risk Notes",
		"## Generated Artifacts",
		"### Requirement Analysis",
		"### Outreach Email",
		"Worth a conversation",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestMarkdownSurfacesOutputOnRejection(t *testing.T) {
	r := sampleReport()
	md := Markdown(r)

	if !strings.Contains(md, string(model.RunRejected)) {
		t.Error("report must state the rejection")
	}
	// Rejection annotates, it never suppresses the artifacts.
	if !strings.Contains(md, "The architecture ahead") {
		t.Error("rejected run must still render its artifacts")
	}
}

func TestMarkdownSkipsNilPayloads(t *testing.T) {
	r := model.RunReport{
		RunID:   "run-empty",
		Results: []model.AgentResult{{Kind: model.KindIntroComposer}},
	}
	md := Markdown(r)
	if strings.Contains(md, "### Personal Introduction") {
		t.Error("nil payloads should not render artifact sections")
	}
}
