// Package escalation decides whether a technician may proceed with a repair
// unsupervised or must get senior review first.
package escalation

import (
	"fmt"

	"github.com/servicesync-ai/servicesync/internal/models"
)

// Decide maps (confidence, complexity, technician skill) to an escalation
// decision. Pure function; the rule order is load-bearing and must not be
// rearranged: the confidence<70 rule is what forces a failed AI diagnosis
// (confidence 0) into senior review.
func Decide(confidence int, complexity models.Complexity, techSkill models.SkillLevel) models.EscalationDecision {
	if confidence > 85 && complexity == models.ComplexityLow {
		return models.EscalationDecision{
			Decision:         models.DecisionProceed,
			Reasoning:        "High confidence, routine repair",
			RequiresApproval: false,
		}
	}

	if confidence < 70 {
		return models.EscalationDecision{
			Decision:         models.DecisionEscalate,
			Reasoning:        "Low confidence, need senior review",
			RequiresApproval: true,
		}
	}

	if complexity == models.ComplexityHigh {
		return models.EscalationDecision{
			Decision:         models.DecisionEscalate,
			Reasoning:        "High complexity, need senior approval",
			RequiresApproval: true,
		}
	}

	return models.EscalationDecision{
		Decision:         models.DecisionProceedWithGuidance,
		Reasoning:        fmt.Sprintf("Medium complexity, %s tech can handle with guidance", techSkill),
		RequiresApproval: false,
	}
}
