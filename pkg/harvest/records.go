package harvest

import "time"

// GatherError is a run-scoped failure record. Gather-level failures
// (catalog transport, malformed pages) attach to the run rather than to
// any single object.
type GatherError struct {
	ID        string
	RunID     string
	Message   string
	CreatedAt time.Time
}

// ObjectError is an object-scoped failure record. Stage names the
// pipeline stage that produced it, usually StageImport.
type ObjectError struct {
	ID        string
	ObjectID  string
	Message   string
	Stage     string
	CreatedAt time.Time
}
