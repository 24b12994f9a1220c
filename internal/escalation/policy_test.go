package escalation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/servicesync-ai/servicesync/internal/models"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name             string
		confidence       int
		complexity       models.Complexity
		techSkill        models.SkillLevel
		wantDecision     string
		wantReasoning    string
		requiresApproval bool
	}{
		{
			name:             "high confidence routine repair proceeds",
			confidence:       90,
			complexity:       models.ComplexityLow,
			techSkill:        models.SkillJunior,
			wantDecision:     models.DecisionProceed,
			wantReasoning:    "High confidence, routine repair",
			requiresApproval: false,
		},
		{
			name:             "low confidence escalates regardless of complexity",
			confidence:       60,
			complexity:       models.ComplexityLow,
			techSkill:        models.SkillSenior,
			wantDecision:     models.DecisionEscalate,
			wantReasoning:    "Low confidence, need senior review",
			requiresApproval: true,
		},
		{
			name:             "high complexity escalates even with decent confidence",
			confidence:       75,
			complexity:       models.ComplexityHigh,
			techSkill:        models.SkillSenior,
			wantDecision:     models.DecisionEscalate,
			wantReasoning:    "High complexity, need senior approval",
			requiresApproval: true,
		},
		{
			name:             "medium complexity proceeds with guidance",
			confidence:       75,
			complexity:       models.ComplexityMedium,
			techSkill:        models.SkillJunior,
			wantDecision:     models.DecisionProceedWithGuidance,
			wantReasoning:    "Medium complexity, junior tech can handle with guidance",
			requiresApproval: false,
		},
		{
			name:             "confidence 85 low complexity is not high enough to proceed",
			confidence:       85,
			complexity:       models.ComplexityLow,
			techSkill:        models.SkillIntermediate,
			wantDecision:     models.DecisionProceedWithGuidance,
			wantReasoning:    "Medium complexity, intermediate tech can handle with guidance",
			requiresApproval: false,
		},
		{
			name:             "confidence 70 is not low confidence",
			confidence:       70,
			complexity:       models.ComplexityMedium,
			techSkill:        models.SkillSenior,
			wantDecision:     models.DecisionProceedWithGuidance,
			wantReasoning:    "Medium complexity, senior tech can handle with guidance",
			requiresApproval: false,
		},
		{
			name:             "failed diagnosis always escalates",
			confidence:       0,
			complexity:       models.ComplexityLow,
			techSkill:        models.SkillSenior,
			wantDecision:     models.DecisionEscalate,
			wantReasoning:    "Low confidence, need senior review",
			requiresApproval: true,
		},
		{
			name:             "confidence rule wins over complexity rule",
			confidence:       50,
			complexity:       models.ComplexityHigh,
			techSkill:        models.SkillJunior,
			wantDecision:     models.DecisionEscalate,
			wantReasoning:    "Low confidence, need senior review",
			requiresApproval: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.confidence, tt.complexity, tt.techSkill)
			assert.Equal(t, tt.wantDecision, got.Decision)
			assert.Equal(t, tt.wantReasoning, got.Reasoning)
			assert.Equal(t, tt.requiresApproval, got.RequiresApproval)
		})
	}
}

func TestDecide_ApprovalOnlyOnEscalate(t *testing.T) {
	for conf := 0; conf <= 100; conf += 5 {
		for _, cx := range []models.Complexity{models.ComplexityLow, models.ComplexityMedium, models.ComplexityHigh} {
			got := Decide(conf, cx, models.SkillIntermediate)
			assert.Equal(t, got.Decision == models.DecisionEscalate, got.RequiresApproval,
				"confidence=%d complexity=%s", conf, cx)
		}
	}
}
