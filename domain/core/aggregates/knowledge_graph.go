package aggregates

import (
	"time"

	"econbot/domain/core/valueobjects"

	"github.com/google/uuid"
)

// Graph labels and relationship kinds shared by every store
const (
	LabelQuery   = "Query"
	LabelTerm    = "Term"
	RelRelatesTo = "RELATES_TO"
)

// GraphNode is one node of the knowledge graph, identified by label and name
type GraphNode struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// GraphEdge is a directed relationship between two named nodes
type GraphEdge struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// KnowledgeGraph is the star-shaped graph for one topic: a single Query node
// linked to each distinct Term node exactly once.
type KnowledgeGraph struct {
	runID     string
	query     GraphNode
	terms     []GraphNode
	writtenAt time.Time
}

// NewKnowledgeGraph builds the graph for a topic and its extracted terms.
// Terms are merged by name, so repeated terms produce one node and one edge.
func NewKnowledgeGraph(topic valueobjects.Topic, terms valueobjects.TermList) *KnowledgeGraph {
	distinct := terms.Distinct()
	nodes := make([]GraphNode, 0, len(distinct))
	for _, term := range distinct {
		nodes = append(nodes, GraphNode{Label: LabelTerm, Name: term})
	}

	return &KnowledgeGraph{
		runID:     uuid.New().String(),
		query:     GraphNode{Label: LabelQuery, Name: topic.String()},
		terms:     nodes,
		writtenAt: time.Now().UTC(),
	}
}

// RestoreKnowledgeGraph rebuilds a graph read back from a store
func RestoreKnowledgeGraph(runID, queryName string, termNames []string, writtenAt time.Time) *KnowledgeGraph {
	g := NewKnowledgeGraph(valueobjects.NewTopic(queryName), valueobjects.TermList(termNames))
	// Stored names are already trimmed; keep them verbatim
	g.query.Name = queryName
	if runID != "" {
		g.runID = runID
	}
	g.writtenAt = writtenAt
	return g
}

// RunID identifies the write that produced this graph
func (g *KnowledgeGraph) RunID() string {
	return g.runID
}

// Query returns the central query node
func (g *KnowledgeGraph) Query() GraphNode {
	return g.query
}

// Terms returns the term nodes in first-seen order
func (g *KnowledgeGraph) Terms() []GraphNode {
	out := make([]GraphNode, len(g.terms))
	copy(out, g.terms)
	return out
}

// TermNames returns the names of the term nodes
func (g *KnowledgeGraph) TermNames() []string {
	names := make([]string, 0, len(g.terms))
	for _, t := range g.terms {
		names = append(names, t.Name)
	}
	return names
}

// Nodes returns the query node followed by all term nodes
func (g *KnowledgeGraph) Nodes() []GraphNode {
	return append([]GraphNode{g.query}, g.Terms()...)
}

// Edges returns one RELATES_TO edge from the query node to each term
func (g *KnowledgeGraph) Edges() []GraphEdge {
	edges := make([]GraphEdge, 0, len(g.terms))
	for _, t := range g.terms {
		edges = append(edges, GraphEdge{
			Type:   RelRelatesTo,
			Source: g.query.Name,
			Target: t.Name,
		})
	}
	return edges
}

// WrittenAt is when the graph was built for writing
func (g *KnowledgeGraph) WrittenAt() time.Time {
	return g.writtenAt
}
