package search

// EventKind identifies a progress notification from the coordinator.
type EventKind string

const (
	EventRoundStarted EventKind = "round_started"
	EventRepoChecked  EventKind = "repo_checked"
	EventRepoAccepted EventKind = "repo_accepted"
	EventScoring      EventKind = "scoring"
	EventDone         EventKind = "done"
)

// Event is a progress notification emitted while a search runs. Events are
// delivered synchronously from the coordinator's goroutine; sinks must not
// block.
type Event struct {
	Kind        EventKind
	Round       int
	TotalRounds int
	Keywords    []string
	Qualified   int
	Target      int
	Checked     int
	Skipped     int
	RepoID      string
}

func (c *Coordinator) emit(e Event) {
	if c.onProgress != nil {
		c.onProgress(e)
	}
}
