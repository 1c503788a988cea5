package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/richinex/scribe/cache"
	"github.com/richinex/scribe/llm"
	"github.com/richinex/scribe/model"
)

// fakeCompleter returns a scripted response or error.
type fakeCompleter struct {
	text  string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	f.calls++
	if f.err != nil {
		return llm.Response{}, f.err
	}
	return llm.Response{Text: f.text, Model: "fake-model", CostEstimate: 0.02}, nil
}

func newTestCache(t *testing.T) *cache.Manager {
	t.Helper()
	m, err := cache.NewManager(time.Hour, nil, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create cache: %v", err)
	}
	return m
}

func testContext() *model.PipelineContext {
	return model.NewPipelineContext("run-test",
		model.JobPosting{Description: "Senior platform engineer at Acme. Go, Kubernetes, distributed systems."},
		model.CandidateProfile{
			Name:        "Alex",
			CurrentRole: "Staff engineer",
			Skills:      []string{"Go", "Kubernetes"},
			Achievements: []model.Achievement{
				{Summary: "scaled platform from 200K to 1M users", Metrics: "5x growth"},
			},
		},
	)
}

const analyzerJSON = `{
	"position_title": "Senior Platform Engineer",
	"company": "Acme",
	"key_requirements": [
		{"category": "technical", "requirement": "Go", "importance": "critical", "evidence_needed": "production Go systems"},
		{"category": "technical", "requirement": "Kubernetes", "importance": "critical", "evidence_needed": "cluster operations"},
		{"category": "experience", "requirement": "distributed systems", "importance": "important", "evidence_needed": "scale stories"},
		{"category": "soft_skills", "requirement": "mentoring", "importance": "preferred", "evidence_needed": "team growth"},
		{"category": "domain_knowledge", "requirement": "platform engineering", "importance": "important", "evidence_needed": "platform ownership"}
	],
	"hidden_requirements": ["on-call ownership", "cost awareness", "cross-team influence"],
	"company_culture_signals": ["fast-moving", "ownership culture", "remote-friendly"],
	"technical_stack": ["Go", "Kubernetes", "gRPC"],
	"experience_level": "senior",
	"red_flags": []
}`

func TestAgentRunSuccess(t *testing.T) {
	completer := &fakeCompleter{text: analyzerJSON}
	a := New(RequirementAnalyzer{}, completer, newTestCache(t), zerolog.Nop())

	result := a.Run(context.Background(), testContext())

	if result.Kind != model.KindRequirementAnalyzer {
		t.Errorf("wrong kind: %s", result.Kind)
	}
	if result.Payload.Requirements == nil {
		t.Fatal("expected parsed requirements payload")
	}
	if len(result.Payload.Requirements.KeyRequirements) != 5 {
		t.Errorf("expected 5 requirements, got %d", len(result.Payload.Requirements.KeyRequirements))
	}
	if result.Confidence <= 0.5 {
		t.Errorf("complete analysis should score high, got %f", result.Confidence)
	}
	if result.Rationale == "" {
		t.Error("result must carry a rationale")
	}
	if len(result.Alternatives) == 0 {
		t.Error("result must carry alternatives considered")
	}
	if result.CostEstimate != 0.02 {
		t.Errorf("expected cost estimate from response, got %f", result.CostEstimate)
	}
}

func TestAgentRunCachesByFingerprint(t *testing.T) {
	completer := &fakeCompleter{text: analyzerJSON}
	a := New(RequirementAnalyzer{}, completer, newTestCache(t), zerolog.Nop())

	rc := testContext()
	first := a.Run(context.Background(), rc)
	second := a.Run(context.Background(), rc)

	if completer.calls != 1 {
		t.Errorf("expected 1 completion for identical input, got %d", completer.calls)
	}
	if first.Confidence != second.Confidence {
		t.Error("cached result differs from original")
	}
}

func TestAgentRunDegradesOnExhaustion(t *testing.T) {
	completer := &fakeCompleter{err: &llm.ExhaustedError{}}
	a := New(RequirementAnalyzer{}, completer, newTestCache(t), zerolog.Nop())

	result := a.Run(context.Background(), testContext())

	if result.Confidence != 0 {
		t.Errorf("degraded result must have confidence 0, got %f", result.Confidence)
	}
	if result.Rationale == "" {
		t.Error("degraded result must carry a rationale")
	}
	if !strings.Contains(result.Rationale, "exhausted") {
		t.Errorf("rationale should name the failure, got %q", result.Rationale)
	}
	if result.Payload.Requirements == nil {
		t.Error("degraded result must carry a typed empty payload")
	}
}

func TestAgentRunDegradesOnParseFailure(t *testing.T) {
	completer := &fakeCompleter{text: "I'm sorry, I can't produce JSON today."}
	a := New(RequirementAnalyzer{}, completer, newTestCache(t), zerolog.Nop())

	result := a.Run(context.Background(), testContext())

	if result.Confidence != 0 {
		t.Errorf("parse failure must degrade to confidence 0, got %f", result.Confidence)
	}
	if !strings.Contains(result.Rationale, "parse") {
		t.Errorf("rationale should name the parse failure, got %q", result.Rationale)
	}
}

func TestAgentFailureNotCached(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("backend down")}
	cacheMgr := newTestCache(t)
	a := New(RequirementAnalyzer{}, completer, cacheMgr, zerolog.Nop())

	rc := testContext()
	_ = a.Run(context.Background(), rc)

	// Backend recovers; the same input must recompute, not replay the failure.
	completer.err = nil
	completer.text = analyzerJSON
	result := a.Run(context.Background(), rc)

	if result.Confidence == 0 {
		t.Error("recovered backend should produce a real result, failure was cached")
	}
	if completer.calls != 2 {
		t.Errorf("expected recompute after failure, calls=%d", completer.calls)
	}
}

func TestVoiceSynthesizerAssess(t *testing.T) {
	v := NewVoiceSynthesizer()
	payload := model.Payload{Email: &model.VoiceEmail{
		Subject: "Edge AI at Acme -- a conversation worth having",
		Body: `From a strategic perspective, your platform architecture work --
scaling the system from 200K to 1M users -- maps directly onto the
framework and deployment challenges ahead. First, the integration
surface will transform; second, the enterprise ecosystem will enable
the next evolution of the implementation.`,
		KeyPointsCovered:    []string{"scale", "architecture", "cost", "roadmap"},
		PersonalizationRefs: []string{"200K to 1M users"},
	}}

	assessment := v.Assess(payload, testContext())
	if assessment.Confidence < 0.75 {
		t.Errorf("well-aligned complete email scored %f, expected >= 0.75", assessment.Confidence)
	}
	if assessment.Rationale == "" {
		t.Error("assessment must carry a rationale")
	}
}

func TestVoiceSynthesizerAssessPenalizesOffVoice(t *testing.T) {
	v := NewVoiceSynthesizer()
	payload := model.Payload{Email: &model.VoiceEmail{
		Subject:          "hi",
		Body:             "Hey, saw your profile. Want to chat sometime?",
		KeyPointsCovered: []string{"greeting"},
	}}

	assessment := v.Assess(payload, testContext())
	if assessment.Confidence > 0.4 {
		t.Errorf("off-voice email scored %f, expected low", assessment.Confidence)
	}
}

func TestIntroComposerAssess(t *testing.T) {
	c := NewIntroComposer()
	payload := model.Payload{Intro: &model.PersonalIntro{
		Positioning: "platform engineer who scales systems",
		Sections: []model.IntroSection{
			{Title: "Scale", Content: "Honestly, the journey from 200K to 1M users was an incredible experience -- 5x growth.", Relevance: 0.9},
			{Title: "Craft", Content: "I genuinely love building the next vision and creating robust platforms.", Relevance: 0.85},
			{Title: "Impact", Content: "The story: we cut infrastructure cost 40% while creating future capacity.", Relevance: 0.8},
		},
		CallToAction: "Let's talk.",
	}}

	assessment := c.Assess(payload, testContext())
	if assessment.Confidence < 0.6 {
		t.Errorf("relevant authentic intro scored %f, expected >= 0.6", assessment.Confidence)
	}
}

func TestIntroComposerAssessPenalizesThinIntro(t *testing.T) {
	c := NewIntroComposer()
	full := model.Payload{Intro: &model.PersonalIntro{
		Sections: []model.IntroSection{
			{Title: "A", Content: "x", Relevance: 0.9},
			{Title: "B", Content: "y", Relevance: 0.9},
			{Title: "C", Content: "z", Relevance: 0.9},
		},
	}}
	thin := model.Payload{Intro: &model.PersonalIntro{
		Sections: []model.IntroSection{
			{Title: "A", Content: "x", Relevance: 0.9},
		},
	}}

	rc := testContext()
	if c.Assess(thin, rc).Confidence >= c.Assess(full, rc).Confidence {
		t.Error("one-section intro should score below a three-section intro at equal relevance")
	}
}

func TestMetaEvaluatorAssessTracksComprehensiveness(t *testing.T) {
	rc := testContext()
	rc.Put(model.AgentResult{
		Kind: model.KindRequirementAnalyzer,
		Payload: model.Payload{Requirements: &model.RequirementAnalysis{
			KeyRequirements: []model.Requirement{
				{Category: "technical"}, {Category: "technical"}, {Category: "experience"},
				{Category: "soft_skills"}, {Category: "domain_knowledge"},
			},
			HiddenRequirements: []string{"a", "b", "c"},
			CultureSignals:     []string{"x", "y", "z"},
		}},
		Confidence: 0.9,
		Rationale:  "r",
	})
	rc.Put(model.AgentResult{
		Kind: model.KindVoiceSynthesizer,
		Payload: model.Payload{Email: &model.VoiceEmail{
			KeyPointsCovered: []string{"1", "2", "3", "4"},
		}},
		Confidence: 0.9,
		Rationale:  "r",
	})
	rc.Put(model.AgentResult{
		Kind: model.KindIntroComposer,
		Payload: model.Payload{Intro: &model.PersonalIntro{
			Sections: []model.IntroSection{{}, {}, {}},
		}},
		Confidence: 0.95,
		Rationale:  "r",
	})

	assessment := MetaEvaluator{}.Assess(model.Payload{Evaluation: &model.MetaEvaluation{}}, rc)
	if assessment.Confidence != 1.0 {
		t.Errorf("fully comprehensive upstream should score 1.0, got %f", assessment.Confidence)
	}

	empty := model.NewPipelineContext("run-empty", model.JobPosting{Description: "x"}, model.CandidateProfile{Name: "a"})
	degraded := MetaEvaluator{}.Assess(model.Payload{Evaluation: &model.MetaEvaluation{}}, empty)
	if degraded.Confidence != 0 {
		t.Errorf("empty upstream should score 0, got %f", degraded.Confidence)
	}
}

func TestMetaEvaluatorParseInjectsSuccessIndicators(t *testing.T) {
	rc := testContext()
	reqs := make([]model.Requirement, 8)
	for i := range reqs {
		reqs[i] = model.Requirement{Category: "technical"}
	}
	rc.Put(model.AgentResult{
		Kind: model.KindRequirementAnalyzer,
		Payload: model.Payload{Requirements: &model.RequirementAnalysis{
			KeyRequirements: reqs,
		}},
		Confidence: 0.9,
		Rationale:  "r",
	})

	payload, err := MetaEvaluator{}.Parse(`{"strengths": ["solid"], "risk_assessment": {}, "improvement_recommendations": []}`, rc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Evaluation == nil {
		t.Fatal("expected evaluation payload")
	}
	if len(payload.Evaluation.SuccessIndicators) == 0 {
		t.Error("expected deterministic success indicators to be injected")
	}
}

func TestVariantFingerprintsIgnoreWhitespace(t *testing.T) {
	a := model.NewPipelineContext("r1", model.JobPosting{Description: "senior   engineer\n remote"}, model.CandidateProfile{Name: "Alex", Skills: []string{"Go"}})
	b := model.NewPipelineContext("r2", model.JobPosting{Description: "senior engineer remote"}, model.CandidateProfile{Name: "Alex", Skills: []string{"Go"}})

	fpA, err := cache.NewFingerprint(model.KindRequirementAnalyzer, RequirementAnalyzer{}.FingerprintPayload(a))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fpB, err := cache.NewFingerprint(model.KindRequirementAnalyzer, RequirementAnalyzer{}.FingerprintPayload(b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fpA != fpB {
		t.Error("whitespace-only differences should not split cache entries")
	}
}
