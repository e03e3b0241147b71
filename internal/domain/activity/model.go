package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeEdit    ActivityType = "edit"
	TypeComment ActivityType = "comment"
)

// ActivityEntry is one review event recovered from the data tree. Edits are
// dated by the timestamp in their filename, comments by modification time.
type ActivityEntry struct {
	Project      string       `json:"project"`
	File         string       `json:"file"`
	Path         string       `json:"path"`
	ActivityType ActivityType `json:"type"`
	Timestamp    time.Time    `json:"timestamp"`
}
