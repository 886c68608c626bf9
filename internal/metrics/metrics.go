// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	ImpactsRecorded    = expvar.NewInt("impacts_recorded")
	ImpactWriteErrors  = expvar.NewInt("impact_write_errors")
	OnboardingRecorded = expvar.NewInt("onboarding_recorded")
	CyclesTotal        = expvar.NewInt("cycles_total")
	CycleErrors        = expvar.NewInt("cycle_errors")
	SnapshotsWritten   = expvar.NewInt("snapshots_written")
	RisksRaised        = expvar.NewInt("risks_raised")
	AlertsDispatched   = expvar.NewInt("alerts_dispatched")
	AlertsFailed       = expvar.NewInt("alerts_failed")
	EventsIngested     = expvar.NewInt("events_ingested")
	EventsRejected     = expvar.NewInt("events_rejected")
)
