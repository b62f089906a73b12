package domain

import "time"

// Snapshot is one fully built tree plus the summary of the scan.
type Snapshot struct {
	Root         Node          `json:"root" yaml:"root"`
	Applications int           `json:"applications" yaml:"applications"`
	Nodes        int           `json:"nodes" yaml:"nodes"`
	Elapsed      time.Duration `json:"elapsed_ns" yaml:"elapsed"`
	TakenAt      time.Time     `json:"taken_at" yaml:"taken_at"`
}

// NewSnapshot summarises root. Applications is the root's direct child count.
func NewSnapshot(root Node, elapsed time.Duration, takenAt time.Time) *Snapshot {
	return &Snapshot{
		Root:         root,
		Applications: len(root.Children),
		Nodes:        root.Count(),
		Elapsed:      elapsed,
		TakenAt:      takenAt,
	}
}
