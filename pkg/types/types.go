package types

import "time"

// CategoryScores holds the four per-dimension scores, each bounded [0,100].
type CategoryScores struct {
	Foundation float64 `json:"foundation"`
	Presence   float64 `json:"presence"`
	Execution  float64 `json:"execution"`
	Gaps       float64 `json:"gaps"`
}

// Get returns the score for a dimension.
func (c CategoryScores) Get(dim ScoreDimension) float64 {
	switch dim {
	case DimFoundation:
		return c.Foundation
	case DimPresence:
		return c.Presence
	case DimExecution:
		return c.Execution
	case DimGaps:
		return c.Gaps
	default:
		return 0
	}
}

// Set assigns the score for a dimension.
func (c *CategoryScores) Set(dim ScoreDimension, v float64) {
	switch dim {
	case DimFoundation:
		c.Foundation = v
	case DimPresence:
		c.Presence = v
	case DimExecution:
		c.Execution = v
	case DimGaps:
		c.Gaps = v
	}
}

// ScoreHistoryEntry is one append-only row per scoring cycle per tenant.
type ScoreHistoryEntry struct {
	TenantID            string                     `json:"tenant_id"`
	Scores              CategoryScores             `json:"scores"`
	Composite           float64                    `json:"composite"`
	AdjustedWeights     map[ScoreDimension]float64 `json:"adjusted_weights"`
	WeeksBelowThreshold map[ScoreDimension]int     `json:"weeks_below_threshold"`
	ConsistencyBonus    float64                    `json:"consistency_bonus"`
	StagnationPenalty   float64                    `json:"stagnation_penalty"`
	CreatedAt           time.Time                  `json:"created_at"`
}

// MemoryEntry is one append-only row per attributed strategic event.
// ScoreBefore/ScoreAfter form a best-effort ledger: each entry's before
// should equal the previous entry's after (concurrent writers may violate
// this; see Bridge documentation).
type MemoryEntry struct {
	ID              string          `json:"id"`
	TenantID        string          `json:"tenant_id"`
	DecisionID      string          `json:"decision_id,omitempty"`
	GapID           string          `json:"gap_id,omitempty"`
	ActionType      string          `json:"action_type"`
	ActionKey       string          `json:"action_key,omitempty"`
	Description     string          `json:"description"`
	ScoreBefore     float64         `json:"sdi_before"`
	ScoreAfter      float64         `json:"sdi_after"`
	ScoreDelta      float64         `json:"score_delta"`
	Magnitude       ImpactMagnitude `json:"impact_magnitude"`
	Dimension       ImpactDimension `json:"dimension_impacted"`
	StageAtEvent    Stage           `json:"stage_at_event"`
	BusinessModel   BusinessModel   `json:"business_model,omitempty"`
	ContextSnapshot map[string]any  `json:"context_snapshot,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// GapRef is the active-gap summary embedded in a snapshot.
type GapRef struct {
	Key          string  `json:"key"`
	Title        string  `json:"title"`
	Urgency      Urgency `json:"urgency"`
	ImpactWeight float64 `json:"impact_weight"`
}

// ResolvedGapRef is the resolved-gap summary embedded in a snapshot.
type ResolvedGapRef struct {
	Key        string    `json:"key"`
	Title      string    `json:"title"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// Snapshot is an immutable versioned capture of a tenant's strategic state.
// Versions are strictly increasing per tenant (monotonic, not necessarily
// contiguous) and assigned atomically by the provider.
type Snapshot struct {
	TenantID       string           `json:"tenant_id"`
	Version        int64            `json:"version"`
	Stage          Stage            `json:"maturity_stage"`
	BusinessModel  BusinessModel    `json:"business_model,omitempty"`
	DNA            map[string]any   `json:"strategic_dna,omitempty"`
	ActiveGaps     []GapRef         `json:"active_gaps"`
	ResolvedGaps   []ResolvedGapRef `json:"resolved_gaps"`
	Risks          []RiskFlag       `json:"risks"`
	CapabilityIndex int             `json:"capability_index"`
	Composite      float64          `json:"composite"`
	Breakdown      CategoryScores   `json:"score_breakdown"`
	TriggerReason  string           `json:"trigger_reason"`
	TriggeredBy    string           `json:"triggered_by,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// Gap is an open or resolved strategic deficiency tracked per tenant.
// Consumed read-only by the engine; owned by the wider platform.
type Gap struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenant_id"`
	Key          string     `json:"key"`
	Title        string     `json:"title"`
	Variable     string     `json:"variable"`
	Urgency      Urgency    `json:"urgency"`
	ImpactWeight float64    `json:"impact_weight"`
	WeeksActive  int        `json:"weeks_active"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// Resolved reports whether the gap has been closed.
func (g Gap) Resolved() bool { return g.ResolvedAt != nil }

// ImpactEvent is the ephemeral ingestion payload for the bridge. It is not
// persisted as-is; it becomes an ImpactRecord and a MemoryEntry.
type ImpactEvent struct {
	TenantID  string          `json:"tenant_id"`
	Type      EventType       `json:"event_type"`
	Source    string          `json:"event_source"`
	SourceID  string          `json:"source_id,omitempty"`
	Dimension ImpactDimension `json:"dimension"`
	GapID     string          `json:"gap_id,omitempty"`
	Evidence  map[string]any  `json:"evidence,omitempty"`
}

// ImpactRecord is one row of the marketing impact ledger.
type ImpactRecord struct {
	ID              string                      `json:"id"`
	TenantID        string                      `json:"tenant_id"`
	EventType       EventType                   `json:"event_type"`
	Source          string                      `json:"event_source"`
	SourceID        string                      `json:"source_id,omitempty"`
	Dimension       ImpactDimension             `json:"dimension"`
	GapID           string                      `json:"gap_id,omitempty"`
	ScoreBefore     float64                     `json:"sdi_before"`
	ScoreAfter      float64                     `json:"sdi_after"`
	Delta           float64                     `json:"delta"`
	DimensionDelta  map[ImpactDimension]float64 `json:"dimension_delta"`
	SnapshotVersion int64                       `json:"snapshot_version"`
	Evidence        map[string]any              `json:"evidence,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
}

// ImpactPatch is the filtered partial update applied to a ledger row by
// the onboarding correction pass.
type ImpactPatch struct {
	ScoreBefore    float64                     `json:"sdi_before"`
	ScoreAfter     float64                     `json:"sdi_after"`
	Delta          float64                     `json:"delta"`
	DimensionDelta map[ImpactDimension]float64 `json:"dimension_delta"`
}

// ImpactSummary aggregates the tenant's recent impact ledger.
type ImpactSummary struct {
	TotalContribution float64                     `json:"total_sdi_contribution"`
	GapsReduced       int                         `json:"gaps_reduced"`
	DimensionTotals   map[ImpactDimension]float64 `json:"dimension_totals"`
	MostReinforced    ImpactDimension             `json:"most_reinforced"`
	Recent            []ImpactRecord              `json:"recent"`
}

// Recalibration is the output of a recalibration pass.
type Recalibration struct {
	AdjustedWeights     map[ScoreDimension]float64 `json:"adjusted_weights"`
	ConsistencyBonus    float64                    `json:"consistency_bonus"`
	StagnationPenalty   float64                    `json:"stagnation_penalty"`
	WeeksBelowThreshold map[ScoreDimension]int     `json:"weeks_below_threshold"`
}

// OperationalUsage carries the usage counters feeding the capability index.
type OperationalUsage struct {
	ActiveAgents      int `json:"active_agents"`
	TotalExecutions   int `json:"total_executions"`
	ConnectedChannels int `json:"connected_channels"`
}

// AutopilotGate describes the automation permission level for a stage.
type AutopilotGate struct {
	Mode     AutopilotMode `json:"mode"`
	Features []string      `json:"features"`
}

// CampaignSuggestion is a gap-derived campaign recommendation.
type CampaignSuggestion struct {
	GapKey        string          `json:"gap_key"`
	CampaignType  string          `json:"campaign_type"`
	Dimension     ImpactDimension `json:"dimension"`
	Description   string          `json:"description"`
	SuggestedTone string          `json:"suggested_tone"`
}

// CycleResult summarizes one scoring cycle.
type CycleResult struct {
	TenantID        string          `json:"tenant_id"`
	Stage           Stage           `json:"maturity_stage"`
	Composite       float64         `json:"composite"`
	Breakdown       CategoryScores  `json:"score_breakdown"`
	Recalibration   Recalibration   `json:"recalibration"`
	Risks           []RiskFlag      `json:"risks"`
	CapabilityIndex int             `json:"capability_index"`
	Pattern         BehaviorPattern `json:"pattern"`
	SnapshotVersion int64           `json:"snapshot_version"`
	CompletedAt     time.Time       `json:"completed_at"`
}

// TenantConfig registers a tenant (company) with the engine.
type TenantConfig struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	BusinessModel BusinessModel  `json:"business_model,omitempty"`
	Usage         OperationalUsage `json:"usage"`
	CreatedAt     time.Time      `json:"created_at"`
}

// Alert is a notification dispatched to configured sinks when a cycle
// raises structural risks or writes a snapshot.
type Alert struct {
	Level     AlertLevel `json:"level"`
	TenantID  string     `json:"tenant_id"`
	Risk      RiskFlag   `json:"risk,omitempty"`
	Message   string     `json:"message"`
	Timestamp time.Time  `json:"timestamp"`
}
