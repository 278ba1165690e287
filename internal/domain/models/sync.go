package models

import "time"

// SyncState is the phase the inventory sync coordinator is currently in.
type SyncState string

const (
	SyncStateIdle      SyncState = "idle"
	SyncStateFetching  SyncState = "fetching"
	SyncStateParsing   SyncState = "parsing"
	SyncStateReplacing SyncState = "replacing"
)

// SyncOutcome describes how the last finished pass ended.
type SyncOutcome string

const (
	SyncOutcomeNone    SyncOutcome = ""
	SyncOutcomeSuccess SyncOutcome = "success"
	SyncOutcomeFailed  SyncOutcome = "failed"
	// SyncOutcomeSkipped means the export could not be read and the catalog was left untouched.
	SyncOutcomeSkipped SyncOutcome = "skipped"
)

// SyncTrigger labels what started a pass.
type SyncTrigger string

const (
	SyncTriggerManual    SyncTrigger = "manual"
	SyncTriggerScheduled SyncTrigger = "scheduled"
)

// SyncResult is returned to callers of a completed pass. Skipped is set when the
// export could not be read and the catalog was left as it was.
type SyncResult struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Skipped bool `json:"skipped,omitempty"`
}

// SyncStatus is a point-in-time view of the coordinator.
type SyncStatus struct {
	State          SyncState   `json:"state"`
	LastTrigger    SyncTrigger `json:"lastTrigger,omitempty"`
	LastOutcome    SyncOutcome `json:"lastOutcome,omitempty"`
	LastCount      int         `json:"lastCount"`
	LastError      string      `json:"lastError,omitempty"`
	LastStartedAt  *time.Time  `json:"lastStartedAt,omitempty"`
	LastFinishedAt *time.Time  `json:"lastFinishedAt,omitempty"`
}
