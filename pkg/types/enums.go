// Package types defines the public domain types for the stratum strategic state engine.
package types

// Stage is the ordinal business-maturity classification of a tenant.
type Stage string

// Stage values, ordered from least to most mature.
const (
	StageEarly        Stage = "early"
	StageGrowth       Stage = "growth"
	StageConsolidated Stage = "consolidated"
	StageScale        Stage = "scale"
)

// Ordinal returns the stage's position in the maturity order (early=0 .. scale=3).
// Unknown stages sort below early.
func (s Stage) Ordinal() int {
	switch s {
	case StageEarly:
		return 0
	case StageGrowth:
		return 1
	case StageConsolidated:
		return 2
	case StageScale:
		return 3
	default:
		return -1
	}
}

// ScoreDimension is one of the four weighted scoring categories.
type ScoreDimension string

// ScoreDimension values enumerate the scoring categories tracked per cycle.
const (
	DimFoundation ScoreDimension = "foundation"
	DimPresence   ScoreDimension = "presence"
	DimExecution  ScoreDimension = "execution"
	DimGaps       ScoreDimension = "gaps"
)

// ScoreDimensions lists all scoring categories in canonical order.
var ScoreDimensions = []ScoreDimension{DimFoundation, DimPresence, DimExecution, DimGaps}

// ImpactDimension is the strategic dimension an impact event targets.
type ImpactDimension string

// ImpactDimension values enumerate the targetable strategic dimensions.
const (
	ImpactBrand       ImpactDimension = "brand"
	ImpactAcquisition ImpactDimension = "acquisition"
	ImpactOperations  ImpactDimension = "operations"
	ImpactAuthority   ImpactDimension = "authority"
)

// EventType classifies a marketing/product impact event.
type EventType string

// EventType values enumerate the impact events the bridge accepts.
const (
	EventPostPublished         EventType = "post_published"
	EventCampaignCreated       EventType = "campaign_created"
	EventAutomationActivated   EventType = "automation_activated"
	EventAutomationDeactivated EventType = "automation_deactivated"
	EventEngagementSpike       EventType = "engagement_spike"
	EventConversion            EventType = "conversion"
	EventApprovalCompleted     EventType = "approval_completed"
	EventOnboardingStep        EventType = "onboarding_step"
)

// OnboardingStep identifies a step of the guided onboarding flow.
type OnboardingStep string

// OnboardingStep values enumerate the onboarding steps that carry score impact.
const (
	StepConnectSocial     OnboardingStep = "connectSocial"
	StepCompleteBrand     OnboardingStep = "completeBrand"
	StepImportSocialData  OnboardingStep = "importSocialData"
	StepFirstPost         OnboardingStep = "firstPost"
	StepActivateAutopilot OnboardingStep = "activateAutopilot"
)

// RiskFlag names a systemic structural risk derived from a tenant's state.
type RiskFlag string

// RiskFlag values enumerate the derivable structural risks.
const (
	RiskCriticalGapAccumulation      RiskFlag = "critical_gap_accumulation"
	RiskStrategicFoundationCollapse  RiskFlag = "strategic_foundation_collapse"
	RiskStrategyExecutionDisconnect  RiskFlag = "strategy_execution_disconnect"
	RiskVisibilityBottleneck         RiskFlag = "visibility_bottleneck"
	RiskChronicGapStagnation         RiskFlag = "chronic_gap_stagnation"
)

// ImpactMagnitude classifies the absolute size of a score delta.
type ImpactMagnitude string

// ImpactMagnitude values, derived from |delta|.
const (
	MagnitudeNone   ImpactMagnitude = "none"
	MagnitudeLow    ImpactMagnitude = "low"
	MagnitudeMedium ImpactMagnitude = "medium"
	MagnitudeHigh   ImpactMagnitude = "high"
)

// MagnitudeFor derives the impact magnitude from a score delta:
// none if 0, low if |delta|<5, medium if |delta|<10, high otherwise.
func MagnitudeFor(delta float64) ImpactMagnitude {
	abs := delta
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs == 0:
		return MagnitudeNone
	case abs < 5:
		return MagnitudeLow
	case abs < 10:
		return MagnitudeMedium
	default:
		return MagnitudeHigh
	}
}

// Urgency is the severity level of a strategic gap.
type Urgency string

// Urgency values, from most to least severe.
const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// AutopilotMode describes how much marketing automation may run unsupervised.
type AutopilotMode string

// AutopilotMode values enumerate the automation permission levels.
const (
	AutopilotSupervised         AutopilotMode = "supervised"
	AutopilotSemiAuto           AutopilotMode = "semi_auto"
	AutopilotAutonomousOptional AutopilotMode = "autonomous_optional"
)

// BehaviorPattern labels a tenant's recent action pattern.
type BehaviorPattern string

// BehaviorPattern values enumerate the detectable action patterns.
const (
	PatternDormant        BehaviorPattern = "dormant"
	PatternBurstOperator  BehaviorPattern = "burst_operator"
	PatternGapCloser      BehaviorPattern = "gap_closer"
	PatternSteadyExecutor BehaviorPattern = "steady_executor"
	PatternExplorer       BehaviorPattern = "explorer"
)

// BusinessModel is the tenant's declared commercial model (free-form label).
type BusinessModel string

// IsB2B reports whether the model is B2B-like (B2B or B2B2C).
func (m BusinessModel) IsB2B() bool {
	return m == "B2B" || m == "B2B2C"
}

// Snapshot trigger reasons used by the engine. Free text is also accepted.
const (
	TriggerScheduledCycle = "scheduled_cycle"
	TriggerManualRecalc   = "manual_recalc"
)

// AlertLevel is the severity of a dispatched alert.
type AlertLevel string

// AlertLevel values.
const (
	AlertInfo    AlertLevel = "info"
	AlertWarning AlertLevel = "warning"
	AlertError   AlertLevel = "error"
)
