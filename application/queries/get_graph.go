package queries

import "time"

// GetGraphQuery asks for the knowledge graph currently held by the store
type GetGraphQuery struct{}

// Validate validates the query
func (q GetGraphQuery) Validate() error {
	return nil
}

// Node sizes used by presentation clients: the topic in the centre is drawn
// larger than the surrounding terms.
const (
	QueryNodeSize = 20
	TermNodeSize  = 15
)

// GetGraphResult is the node-link view of the stored knowledge graph
type GetGraphResult struct {
	Query     string      `json:"query,omitempty"`
	RunID     string      `json:"run_id,omitempty"`
	WrittenAt *time.Time  `json:"written_at,omitempty"`
	Nodes     []GraphNode `json:"nodes"`
	Links     []GraphLink `json:"links"`
	Stats     GraphStats  `json:"stats"`
}

// GraphNode is a node in the visualization payload. IDs are prefixed with
// the node label so a term named like the topic stays a separate node.
type GraphNode struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
	Size  int    `json:"size"`
}

// NodeID builds the visualization id of a node
func NodeID(label, name string) string {
	return label + ":" + name
}

// GraphLink is a directed edge in the visualization payload
type GraphLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type"`
}

// GraphStats contains graph statistics
type GraphStats struct {
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}
