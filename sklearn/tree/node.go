package tree

// Node is a vertex of a fitted tree: either a *Leaf or an *Internal.
type Node interface {
	// SampleCount is the number of training rows that reached the node.
	SampleCount() int
	// ClassCounts is the per-class training distribution, ordered as the tree's classes.
	ClassCounts() []ClassCount
	// MajorityLabel is the most frequent training label at the node.
	MajorityLabel() string

	node()
}

// ClassCount is the number of training rows of one class at a node.
type ClassCount struct {
	Class string `json:"class"`
	Count int    `json:"count"`
}

// Leaf predicts a fixed label.
type Leaf struct {
	Label    string
	Samples  int
	Counts   []ClassCount
	Impurity float64
}

func (l *Leaf) SampleCount() int          { return l.Samples }
func (l *Leaf) ClassCounts() []ClassCount { return l.Counts }
func (l *Leaf) MajorityLabel() string     { return l.Label }
func (*Leaf) node()                       {}

// Branch is an edge from an internal node to a child, identified by Key: a category value
// for multiway splits, KeyEqual or KeyNotEqual for binary categorical splits, KeyLessEqual
// or KeyGreater for continuous splits.
type Branch struct {
	Key   string
	Child Node
}

// Internal routes rows to its children according to Split applied to Feature.
type Internal struct {
	Feature  string
	Split    Split
	Samples  int
	Counts   []ClassCount
	Majority string
	Impurity float64
	Children []Branch

	index map[string]int
}

func newInternal(feature string, split Split, samples int, counts []ClassCount, majority string, impurity float64, children []Branch) *Internal {
	n := &Internal{
		Feature:  feature,
		Split:    split,
		Samples:  samples,
		Counts:   counts,
		Majority: majority,
		Impurity: impurity,
		Children: children,
		index:    make(map[string]int, len(children)),
	}
	for i, b := range children {
		n.index[b.Key] = i
	}
	return n
}

func (n *Internal) SampleCount() int          { return n.Samples }
func (n *Internal) ClassCounts() []ClassCount { return n.Counts }
func (n *Internal) MajorityLabel() string     { return n.Majority }
func (*Internal) node()                       {}

// Child returns the child under key.
func (n *Internal) Child(key string) (Node, bool) {
	i, ok := n.index[key]
	if !ok {
		return nil, false
	}
	return n.Children[i].Child, true
}
