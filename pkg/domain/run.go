package domain

import "time"

// RunStatus is the final state of a harvest run
type RunStatus string

// enum of run statuses
const (
	RunRunning RunStatus = "running"
	RunOK      RunStatus = "ok"
	RunPartial RunStatus = "partial"
	RunFailed  RunStatus = "failed"
)

// Run describes one harvest run
type Run struct {
	ID         string         `json:"id" db:"id"`
	StartedAt  time.Time      `json:"started_at" db:"started_at"`
	FinishedAt *time.Time     `json:"finished_at,omitempty" db:"finished_at"`
	Status     RunStatus      `json:"status" db:"status"`
	Accepted   int            `json:"accepted" db:"accepted"`
	New        int            `json:"new" db:"new_articles"`
	Duplicates int            `json:"duplicates" db:"duplicates"`
	Total      int            `json:"total" db:"total"`
	Error      string         `json:"error,omitempty" db:"error"`
	Sources    []SourceReport `json:"sources" db:"-"`
}

// SourceReport holds per-source counts of a run
type SourceReport struct {
	Source      string `json:"source" db:"source"`
	Found       int    `json:"found" db:"found"`
	Known       int    `json:"known" db:"known"`
	Validated   int    `json:"validated" db:"validated"`
	Processed   int    `json:"processed" db:"processed"`
	TooShort    int    `json:"too_short" db:"too_short"`
	WrongLang   int    `json:"wrong_language" db:"wrong_language"`
	LowRelevant int    `json:"low_relevance" db:"low_relevance"`
	Failed      int    `json:"failed" db:"failed"`
	Error       string `json:"error,omitempty" db:"error"`
}

// RunFilter selects runs from history
type RunFilter struct {
	Status RunStatus
	Since  time.Time
	Limit  int
}
