package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeScanned      EventType = "node_scanned"
	EventThresholdReached EventType = "threshold_reached"
	EventBuildComplete    EventType = "build_complete"
	EventBuildFailed      EventType = "build_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// ScanEvent is emitted once per object popped from the work stack.
type ScanEvent struct {
	EventBase
	Ref        NodeRef `json:"ref"`
	Role       Role    `json:"role"`
	ChildCount int     `json:"child_count"`
	Pending    int     `json:"pending"` // work stack size after the push
}

// BuildEvent is emitted when a build finishes, successfully or not.
type BuildEvent struct {
	EventBase
	Root      NodeRef       `json:"root"`
	Nodes     int           `json:"nodes"`
	Elapsed   time.Duration `json:"elapsed"`
	Err       error         `json:"-"`
	Diagnosed bool          `json:"diagnosed,omitempty"`
}

// BuildHooks defines callbacks for builder observability.
type BuildHooks struct {
	OnNodeScanned      func(context.Context, *ScanEvent)
	OnThresholdReached func(context.Context, *ScanEvent)
	OnBuildComplete    func(context.Context, *BuildEvent)
	OnBuildFailed      func(context.Context, *BuildEvent)
}
