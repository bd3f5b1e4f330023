package connections

import "time"

// NodeKind is the closed set of record kinds a graph node can represent.
type NodeKind string

const (
	KindPatient          NodeKind = "patient"
	KindSession          NodeKind = "session"
	KindTask             NodeKind = "task"
	KindGuidance         NodeKind = "guidance"
	KindResearchNote     NodeKind = "research-note"
	KindResearchDocument NodeKind = "research-document"
	KindReceipt          NodeKind = "receipt"
	KindExternalLink     NodeKind = "external-link"
)

// Node priorities. Lower means closer to the center when rendered; the
// patient node is always the most central. A new kind must declare its
// priority here, never inline.
const (
	PriorityPatient           = 0
	PriorityUpcomingSession   = 10
	PriorityOpenTask          = 20
	PriorityActiveGuidance    = 30
	PriorityResearchNote      = 40
	PriorityPastSession       = 45
	PriorityCompletedGuidance = 50
	PriorityResearchDocument  = 50
	PriorityReceipt           = 65
	PriorityClosedTask        = 70
	PriorityExternalLink      = 80
)

// Node is one record projected into the graph. ID is the composite
// "<kind>:<sourceId>". Priority and SortValue are ranking hints for a
// renderer; the builder assigns no coordinates.
type Node struct {
	ID        string     `json:"id"`
	Kind      NodeKind   `json:"kind"`
	Label     string     `json:"label"`
	Meta      string     `json:"meta,omitempty"`
	Priority  int        `json:"priority"`
	SortValue *time.Time `json:"sort_value,omitempty"`
}

// Edge is a directed reference between two nodes.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Graph is the render-ready projection of a patient and its related
// records. It is built fresh on every request and never persisted.
type Graph struct {
	PatientNodeID string `json:"patient_node_id"`
	Nodes         []Node `json:"nodes"`
	Edges         []Edge `json:"edges"`
}
