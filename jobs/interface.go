// Package jobs runs pipelines of processes against the module host and
// tracks their outcome. JobDefinition/JobTriggerType are parsed from the
// application document but threads/trigger carry no runtime semantics
// beyond "advisory" in this specification.
package jobs

import "time"

// JobTriggerType is how a job is started. Manual is the only variant the
// application document supports today.
type JobTriggerType string

// Manual is the only supported trigger.
const Manual JobTriggerType = "manual"

// JobDefinition is the declared shape of a job: which pipeline it runs,
// an advisory thread hint, and its trigger. threads is parsed and kept for
// forward compatibility but ascribed no semantics — pipelines run serially
// regardless of its value.
type JobDefinition struct {
	Pipeline string         `yaml:"pipeline"`
	Threads  uint32         `yaml:"threads"`
	Trigger  JobTriggerType `yaml:"trigger"`
}

// Status is a job instance's position in its Pending -> Running ->
// (Succeeded | Failed) state machine. Only the terminal transitions are
// observable to callers today (via RunJob's return value); Status and
// JobRecord exist so an embedding application has somewhere to look up what
// happened, without persisting anything across process restarts.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// JobRecord is the in-memory record of one job instance.
type JobRecord struct {
	ID        string
	Pipeline  string
	Status    Status
	StartedAt time.Time
	EndedAt   time.Time
	Err       error
}
