package tree

import (
	"strconv"
	"strings"
)

// Structure is a serializable description of a fitted tree.
type Structure struct {
	Algorithm Algorithm      `json:"algorithm"`
	Classes   []string       `json:"classes"`
	Features  []string       `json:"features"`
	Nodes     int            `json:"nodes"`
	Leaves    int            `json:"leaves"`
	Depth     int            `json:"depth"`
	Root      *StructureNode `json:"root"`
}

// StructureNode describes one node. IDs are assigned in depth-first pre-order starting at 0.
type StructureNode struct {
	ID           int             `json:"id"`
	Label        string          `json:"label"`
	Leaf         bool            `json:"leaf"`
	Feature      string          `json:"feature,omitempty"`
	Split        string          `json:"split,omitempty"`
	Prediction   string          `json:"prediction"`
	Samples      int             `json:"samples"`
	Distribution []ClassCount    `json:"distribution"`
	Impurity     float64         `json:"impurity"`
	Children     []StructureEdge `json:"children,omitempty"`
}

// StructureEdge links a node to a child. Key is the branch key used for routing and Label
// the human readable condition.
type StructureEdge struct {
	Key   string         `json:"key"`
	Label string         `json:"label"`
	Node  *StructureNode `json:"node"`
}

// TreeStructure returns the fitted tree as a Structure.
func (t *DecisionTree) TreeStructure() (*Structure, error) {
	if err := t.state.RequireFitted("TreeStructure"); err != nil {
		return nil, err
	}
	next := 0
	return &Structure{
		Algorithm: t.algorithm,
		Classes:   append([]string(nil), t.classes...),
		Features:  t.FeatureNames(),
		Nodes:     t.nodes,
		Leaves:    t.leaves,
		Depth:     t.depth,
		Root:      describe(t.root, &next),
	}, nil
}

func describe(n Node, next *int) *StructureNode {
	sn := &StructureNode{
		ID:           *next,
		Prediction:   n.MajorityLabel(),
		Samples:      n.SampleCount(),
		Distribution: append([]ClassCount(nil), n.ClassCounts()...),
	}
	*next++

	switch v := n.(type) {
	case *Leaf:
		sn.Leaf = true
		sn.Impurity = v.Impurity
		sn.Label = "class: " + v.Label
	case *Internal:
		sn.Feature = v.Feature
		sn.Split = v.Split.Kind.String()
		sn.Impurity = v.Impurity
		sn.Label = nodeLabel(v)
		for _, b := range v.Children {
			sn.Children = append(sn.Children, StructureEdge{
				Key:   b.Key,
				Label: v.Split.edgeLabel(b.Key),
				Node:  describe(b.Child, next),
			})
		}
	}
	return sn
}

func nodeLabel(n *Internal) string {
	if n.Split.Kind == SplitCategorical {
		return n.Feature
	}
	return n.Feature + " " + n.Split.String()
}

// Summary renders the node's statistics as "samples = N" followed by the non-zero class
// counts, one per line.
func (n *StructureNode) Summary() string {
	var sb strings.Builder
	sb.WriteString("samples = ")
	sb.WriteString(strconv.Itoa(n.Samples))
	for _, c := range n.Distribution {
		if c.Count == 0 {
			continue
		}
		sb.WriteString("\n")
		sb.WriteString(c.Class)
		sb.WriteString(": ")
		sb.WriteString(strconv.Itoa(c.Count))
	}
	return sb.String()
}

// Walk calls fn for every node in pre-order with its depth and the edge leading to it.
// The root is visited with a nil edge.
func (s *Structure) Walk(fn func(n *StructureNode, depth int, edge *StructureEdge)) {
	var walk func(n *StructureNode, depth int, edge *StructureEdge)
	walk = func(n *StructureNode, depth int, edge *StructureEdge) {
		fn(n, depth, edge)
		for i := range n.Children {
			walk(n.Children[i].Node, depth+1, &n.Children[i])
		}
	}
	if s.Root != nil {
		walk(s.Root, 0, nil)
	}
}
