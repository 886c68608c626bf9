package bridge

import (
	"fmt"

	"github.com/buildera-io/stratum/pkg/types"
)

// maxGapSuggestions bounds the gap-derived campaign suggestion list.
const maxGapSuggestions = 5

// variableDimensions maps a gap's classifying variable to the strategic
// dimension that addresses it. Unknown variables map to brand.
var variableDimensions = map[string]types.ImpactDimension{
	"positioning": types.ImpactBrand,
	"brand":       types.ImpactBrand,
	"visibility":  types.ImpactBrand,
	"channel":     types.ImpactAcquisition,
	"audience":    types.ImpactAcquisition,
	"authority":   types.ImpactAuthority,
	"trust":       types.ImpactAuthority,
	"offer":       types.ImpactOperations,
}

// DimensionForVariable resolves a gap variable to its strategic dimension.
func DimensionForVariable(variable string) types.ImpactDimension {
	if dim, ok := variableDimensions[variable]; ok {
		return dim
	}
	return types.ImpactBrand
}

// RecommendedDimension returns the best next strategic dimension to
// target. A critical active gap always wins: its variable's dimension is
// returned and the content-type hint is ignored. Otherwise the hint maps
// campaign→acquisition, automation→operations, anything else→brand.
func (b *Bridge) RecommendedDimension(contentType string) types.ImpactDimension {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, g := range b.activeGaps {
		if g.Urgency == types.UrgencyCritical {
			return DimensionForVariable(g.Variable)
		}
	}

	switch contentType {
	case "campaign":
		return types.ImpactAcquisition
	case "automation":
		return types.ImpactOperations
	default:
		return types.ImpactBrand
	}
}

// campaignTemplate is one variable's campaign suggestion, with a B2B-like
// and a consumer-facing variant.
type campaignTemplate struct {
	dimension   types.ImpactDimension
	b2bType     string
	b2bDesc     string
	b2cType     string
	b2cDesc     string
}

var campaignTemplates = map[string]campaignTemplate{
	"positioning": {
		dimension: types.ImpactBrand,
		b2bType:   "Thought Leadership",
		b2bDesc:   "Case-study series that clarifies your positioning for buying committees",
		b2cType:   "Brand Story",
		b2cDesc:   "Storytelling campaign that sharpens how customers perceive the brand",
	},
	"brand": {
		dimension: types.ImpactBrand,
		b2bType:   "Corporate Narrative",
		b2bDesc:   "Unified messaging push across decision-maker touchpoints",
		b2cType:   "Identity Refresh",
		b2cDesc:   "Visual and voice consistency push across customer touchpoints",
	},
	"visibility": {
		dimension: types.ImpactBrand,
		b2bType:   "Executive Visibility",
		b2bDesc:   "Founder-led content program targeting industry conversations",
		b2cType:   "Awareness Burst",
		b2cDesc:   "Short high-frequency campaign to lift unaided recall",
	},
	"channel": {
		dimension: types.ImpactAcquisition,
		b2bType:   "ABM Outreach",
		b2bDesc:   "Account-based sequence on the channel your buyers already use",
		b2cType:   "Channel Expansion",
		b2cDesc:   "Launch on one new acquisition channel with native-format content",
	},
	"audience": {
		dimension: types.ImpactAcquisition,
		b2bType:   "Lead Nurture",
		b2bDesc:   "Segmented nurture flow converting known contacts into pipeline",
		b2cType:   "Community Growth",
		b2cDesc:   "Audience-building series around the problems your product solves",
	},
	"authority": {
		dimension: types.ImpactAuthority,
		b2bType:   "Expert Webinar",
		b2bDesc:   "Webinar with named practitioners to anchor category authority",
		b2cType:   "Social Proof",
		b2cDesc:   "Creator collaborations that borrow established credibility",
	},
	"trust": {
		dimension: types.ImpactAuthority,
		b2bType:   "Customer Evidence",
		b2bDesc:   "Reference program surfacing measurable customer outcomes",
		b2cType:   "Testimonial Push",
		b2cDesc:   "Review and testimonial drive across purchase surfaces",
	},
	"offer": {
		dimension: types.ImpactOperations,
		b2bType:   "Offer Clarification",
		b2bDesc:   "Repackage the offer around the outcome buyers budget for",
		b2cType:   "Promo Sprint",
		b2cDesc:   "Time-boxed offer test to find the converting configuration",
	},
}

// GapCampaignSuggestions derives campaign recommendations from the first
// five active gaps, preserving their order. The list is memoized for the
// bridge's lifetime. Tone and copy branch on whether the business model is
// B2B-like.
func (b *Bridge) GapCampaignSuggestions() []types.CampaignSuggestion {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.suggestions != nil {
		return b.suggestions
	}

	isB2B := b.businessModel.IsB2B()
	tone := "cercano"
	if isB2B {
		tone = "profesional"
	}

	gaps := b.activeGaps
	if len(gaps) > maxGapSuggestions {
		gaps = gaps[:maxGapSuggestions]
	}

	out := make([]types.CampaignSuggestion, 0, len(gaps))
	for _, g := range gaps {
		s := types.CampaignSuggestion{GapKey: g.Key, SuggestedTone: tone}
		if tpl, ok := campaignTemplates[g.Variable]; ok {
			s.Dimension = tpl.dimension
			if isB2B {
				s.CampaignType, s.Description = tpl.b2bType, tpl.b2bDesc
			} else {
				s.CampaignType, s.Description = tpl.b2cType, tpl.b2cDesc
			}
		} else {
			s.CampaignType = "General Campaign"
			s.Dimension = types.ImpactBrand
			s.Description = fmt.Sprintf("Broad campaign addressing the %q gap", g.Title)
		}
		out = append(out, s)
	}

	b.suggestions = out
	return out
}

// AutopilotGateFor is the fixed stage→automation-permission mapping. It is
// the sole gate on unsupervised marketing automation and must cover every
// stage the classifier can return.
func AutopilotGateFor(stage types.Stage) types.AutopilotGate {
	switch stage {
	case types.StageGrowth:
		return types.AutopilotGate{
			Mode:     types.AutopilotSemiAuto,
			Features: []string{"suggestions", "partial_automation", "optimized_approvals"},
		}
	case types.StageConsolidated, types.StageScale:
		return types.AutopilotGate{
			Mode:     types.AutopilotAutonomousOptional,
			Features: []string{"all", "social_listening", "attribution"},
		}
	default:
		return types.AutopilotGate{
			Mode:     types.AutopilotSupervised,
			Features: []string{"suggestions"},
		}
	}
}

// AutopilotGate returns the automation permission level for the tenant's
// cached maturity stage.
func (b *Bridge) AutopilotGate() types.AutopilotGate {
	b.mu.Lock()
	defer b.mu.Unlock()
	return AutopilotGateFor(b.stage)
}
