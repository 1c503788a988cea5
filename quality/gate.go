// Quality gate - threshold enforcement over a terminated pipeline run.
//
// The gate never suppresses output: failing metrics add risk notes and
// flip the decision, but the generated artifacts are always surfaced in
// the report. Silent degradation is disallowed; every breach carries a
// detail string explaining it.
package quality

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/richinex/scribe/model"
)

// Thresholds are the minimum acceptable scores per quality dimension.
type Thresholds struct {
	VoiceAlignment        float64
	JobAlignment          float64
	ContentQuality        float64
	Comprehensiveness     float64
	ProfessionalStandards float64
}

// DefaultThresholds returns the production thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		VoiceAlignment:        0.80,
		JobAlignment:          0.85,
		ContentQuality:        0.85,
		Comprehensiveness:     0.90,
		ProfessionalStandards: 0.88,
	}
}

// DefaultWarningMargin is how far below a threshold a score may land and
// still classify WARNING rather than FAIL.
const DefaultWarningMargin = 0.05

// Gate evaluates a terminated run against configured thresholds and
// assembles the final report.
type Gate struct {
	thresholds Thresholds
	margin     float64
	logger     zerolog.Logger
}

// NewGate creates a gate. A non-positive margin falls back to the default.
func NewGate(thresholds Thresholds, margin float64, logger zerolog.Logger) *Gate {
	if margin <= 0 {
		margin = DefaultWarningMargin
	}
	return &Gate{thresholds: thresholds, margin: margin, logger: logger}
}

// Evaluate scores the run and produces its terminal report. The report is
// complete even when every agent degraded; thresholds breached show up as
// WARNING/FAIL metrics with risk notes, never as missing entries.
func (g *Gate) Evaluate(rc *model.PipelineContext, totalCost float64) model.RunReport {
	metrics := g.metrics(rc)
	results := rc.Results()

	overall := OverallConfidence(metrics, results)
	decision := classifyRun(metrics)
	riskNotes := g.riskNotes(rc, metrics)

	g.logger.Info().
		Str("run_id", rc.RunID).
		Float64("overall_confidence", overall).
		Str("decision", string(decision)).
		Int("risk_notes", len(riskNotes)).
		Msg("quality gate evaluated run")

	return model.RunReport{
		RunID:             rc.RunID,
		GeneratedAt:       time.Now().UTC(),
		Results:           results,
		Metrics:           metrics,
		OverallConfidence: overall,
		Decision:          decision,
		DecisionLog:       decisionLog(rc, decision, overall),
		RiskNotes:         riskNotes,
		TotalCostEstimate: totalCost,
	}
}

// metrics derives the five quality metrics from agent confidences. Each
// score is the declared, reproducible confidence of the result it judges.
func (g *Gate) metrics(rc *model.PipelineContext) []model.QualityMetric {
	analyzer := confidenceOf(rc, model.KindRequirementAnalyzer)
	voice := confidenceOf(rc, model.KindVoiceSynthesizer)
	intro := confidenceOf(rc, model.KindIntroComposer)
	meta := confidenceOf(rc, model.KindMetaEvaluator)

	professional := (voice + intro) / 2

	specs := []struct {
		name      string
		score     float64
		threshold float64
		details   string
	}{
		{
			name:      "voice_alignment",
			score:     voice,
			threshold: g.thresholds.VoiceAlignment,
			details:   fmt.Sprintf("outreach email scored %.2f against the executive voice profile", voice),
		},
		{
			name:      "job_alignment",
			score:     analyzer,
			threshold: g.thresholds.JobAlignment,
			details:   fmt.Sprintf("requirement extraction completeness %.2f", analyzer),
		},
		{
			name:      "content_quality",
			score:     intro,
			threshold: g.thresholds.ContentQuality,
			details:   fmt.Sprintf("introduction relevance and authenticity %.2f", intro),
		},
		{
			name:      "comprehensiveness",
			score:     meta,
			threshold: g.thresholds.Comprehensiveness,
			details:   fmt.Sprintf("coverage of key areas across all artifacts %.2f", meta),
		},
		{
			name:      "professional_standards",
			score:     professional,
			threshold: g.thresholds.ProfessionalStandards,
			details:   fmt.Sprintf("mean of outward-facing artifact scores %.2f", professional),
		},
	}

	metrics := make([]model.QualityMetric, 0, len(specs))
	for _, s := range specs {
		metrics = append(metrics, model.QualityMetric{
			Name:      s.name,
			Score:     s.score,
			Threshold: s.threshold,
			Status:    model.ClassifyMetric(s.score, s.threshold, g.margin),
			Details:   s.details,
		})
	}
	return metrics
}

// OverallConfidence is the declared aggregation: 70% mean metric score,
// 30% mean agent confidence, clamped to [0,1]. Recomputed on every
// evaluation, never cached.
func OverallConfidence(metrics []model.QualityMetric, results []model.AgentResult) float64 {
	var metricSum float64
	for _, m := range metrics {
		metricSum += m.Score
	}
	avgMetric := 0.0
	if len(metrics) > 0 {
		avgMetric = metricSum / float64(len(metrics))
	}

	var confSum float64
	for _, r := range results {
		confSum += r.Confidence
	}
	avgConf := 0.0
	if len(results) > 0 {
		avgConf = confSum / float64(len(results))
	}

	overall := 0.7*avgMetric + 0.3*avgConf
	if overall > 1 {
		return 1
	}
	if overall < 0 {
		return 0
	}
	return overall
}

// classifyRun maps metric statuses onto a publishability decision:
// any FAIL rejects, any WARNING caveats, otherwise accepted.
func classifyRun(metrics []model.QualityMetric) model.RunDecision {
	decision := model.RunAccepted
	for _, m := range metrics {
		switch m.Status {
		case model.StatusFail:
			return model.RunRejected
		case model.StatusWarning:
			decision = model.RunAcceptedWithCaveats
		}
	}
	return decision
}

// riskNotes enumerates why the run is less trustworthy than it could be.
func (g *Gate) riskNotes(rc *model.PipelineContext, metrics []model.QualityMetric) []string {
	notes := []string{}

	for _, m := range metrics {
		switch m.Status {
		case model.StatusFail:
			notes = append(notes, fmt.Sprintf(
				"metric %s failed: %.2f below threshold %.2f (%s)",
				m.Name, m.Score, m.Threshold, m.Details))
		case model.StatusWarning:
			notes = append(notes, fmt.Sprintf(
				"metric %s in warning band: %.2f within %.2f of threshold %.2f",
				m.Name, m.Score, g.margin, m.Threshold))
		}
	}

	degraded := 0
	for _, r := range rc.Results() {
		if r.Confidence == 0 {
			degraded++
			notes = append(notes, fmt.Sprintf(
				"agent %s returned a degraded placeholder: %s", r.Kind, r.Rationale))
		}
	}
	if degraded > 1 {
		notes = append(notes, fmt.Sprintf(
			"%d of %d agents degraded; the run completed but its output needs manual review",
			degraded, len(rc.Results())))
	}

	// The evaluator's own risk assessment is carried through verbatim,
	// in stable key order.
	if r, ok := rc.Get(model.KindMetaEvaluator); ok && r.Payload.Evaluation != nil {
		risks := r.Payload.Evaluation.Risks
		names := make([]string, 0, len(risks))
		for name := range risks {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			notes = append(notes, fmt.Sprintf("%s: %s", name, risks[name]))
		}
	}

	return notes
}

// decisionLog collects each agent's decision record plus the gate's own.
func decisionLog(rc *model.PipelineContext, decision model.RunDecision, overall float64) []model.Decision {
	log := []model.Decision{}
	for _, r := range rc.Results() {
		log = append(log, model.Decision{
			Component:    r.Kind.String(),
			Decision:     fmt.Sprintf("produced %s result with confidence %.2f", r.Kind, r.Confidence),
			Rationale:    r.Rationale,
			Alternatives: r.Alternatives,
		})
	}
	log = append(log, model.Decision{
		Component: "quality_gate",
		Decision:  string(decision),
		Rationale: fmt.Sprintf("overall confidence %.2f from 70%% metric scores and 30%% agent confidences", overall),
		Alternatives: []string{
			"hard-fail on any warning",
			"publish unconditionally with annotations",
		},
	})
	return log
}

func confidenceOf(rc *model.PipelineContext, kind model.AgentKind) float64 {
	if r, ok := rc.Get(kind); ok {
		return r.Confidence
	}
	return 0
}
