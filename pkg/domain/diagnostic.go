package domain

import "encoding/json"

// Diagnostic is the report produced for an object whose reported child count
// exceeds the build threshold.
type Diagnostic struct {
	Ref          NodeRef       `json:"ref"`
	Role         Role          `json:"role"`
	Name         string        `json:"name"`
	Description  string        `json:"description"`
	ChildCount   int           `json:"child_count"`
	Capabilities CapabilitySet `json:"capabilities"`

	// RefSize is the in-memory size of one child reference, in bytes.
	RefSize uint64 `json:"ref_size"`

	Application     NodeRef `json:"application"`
	ApplicationName string  `json:"application_name"`
	ApplicationRole Role    `json:"application_role"`
}

// EstimatedFootprint is the memory a full child reference list would take.
func (d *Diagnostic) EstimatedFootprint() uint64 {
	if d.ChildCount <= 0 {
		return 0
	}
	return d.RefSize * uint64(d.ChildCount)
}

// MarshalJSON adds the estimated footprint to the encoded report.
func (d Diagnostic) MarshalJSON() ([]byte, error) {
	type report Diagnostic
	return json.Marshal(struct {
		report
		EstimatedFootprint uint64 `json:"estimated_footprint"`
	}{report(d), d.EstimatedFootprint()})
}
