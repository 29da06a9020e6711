package scrapelog

import "time"

type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusPartial Status = "partial"
	StatusError   Status = "error"
)

func (s Status) Finished() bool {
	return s == StatusSuccess || s == StatusPartial || s == StatusError
}

type Trigger string

const (
	TriggerCron   Trigger = "cron"
	TriggerManual Trigger = "manual"
	TriggerCLI    Trigger = "cli"
)

// Entry is the persisted record of one scrape run.
type Entry struct {
	RunID          string
	Trigger        Trigger
	Mode           string
	Status         Status
	SeasonsUpdated int
	PlayersUpdated int
	MatchesUpdated int
	ErrorText      string
	Diagnostics    map[string]any
	StartedAt      time.Time
	FinishedAt     *time.Time
}
