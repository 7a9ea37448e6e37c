package domain

import "math"

// DefaultKeyphraseTopK is the number of keyphrases extracted per document.
const DefaultKeyphraseTopK = 20

// DefaultSimilarityThreshold is the edge threshold of the concept graph.
const DefaultSimilarityThreshold = 0.5

// MaxKeyphraseTokens bounds the n-gram length of a keyphrase.
const MaxKeyphraseTokens = 3

// Keyphrase is a salient phrase with its salience score.
type Keyphrase struct {
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`
}

// ConceptNode is a keyphrase vertex.
type ConceptNode struct {
	// ID is the node's position in the keyphrase list.
	ID     int     `json:"id"`
	Phrase string  `json:"phrase"`
	Score  float64 `json:"score"`

	// Size is the rendered node size, round(Score * 100).
	Size int `json:"size"`
}

// ConceptEdge connects two nodes whose phrase embeddings are similar.
// Source is always less than Target.
type ConceptEdge struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Weight float64 `json:"weight"`
}

// ConceptGraph is an undirected weighted keyphrase similarity graph.
// It has no self-loops and is rebuilt from scratch per request.
type ConceptGraph struct {
	Nodes     []ConceptNode `json:"nodes"`
	Edges     []ConceptEdge `json:"edges"`
	Threshold float64       `json:"threshold"`
}

// NodeSize converts a salience score into a rendered node size.
func NodeSize(score float64) int {
	return int(math.Round(score * 100))
}

// HasEdge reports whether nodes a and b are connected.
func (g *ConceptGraph) HasEdge(a, b int) bool {
	if a > b {
		a, b = b, a
	}
	for _, e := range g.Edges {
		if e.Source == a && e.Target == b {
			return true
		}
	}
	return false
}

// NodeByPhrase returns the node for a phrase.
func (g *ConceptGraph) NodeByPhrase(phrase string) (ConceptNode, bool) {
	for _, n := range g.Nodes {
		if n.Phrase == phrase {
			return n, true
		}
	}
	return ConceptNode{}, false
}
