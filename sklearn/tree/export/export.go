// Package export renders fitted tree structures as Graphviz DOT or indented text.
package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/awalterschulze/gographviz"

	"github.com/ctreelab/arbor/pkg/errors"
	"github.com/ctreelab/arbor/sklearn/tree"
)

const graphName = "G"

var leafColors = []string{"#f2c2a0", "#a0e6b8", "#d3a0e6"}

const (
	defaultLeafColor     = "#a0d1e6"
	defaultInternalColor = "lightgrey"
)

// DOTOption configures DOT.
type DOTOption func(*dotConfig)

type dotConfig struct {
	rankDir string
}

// WithRankDir sets the layout direction, "TB" (the default) or "LR".
func WithRankDir(dir string) DOTOption {
	return func(c *dotConfig) {
		c.rankDir = dir
	}
}

// DOT renders s as a directed Graphviz graph. Internal nodes are grey boxes, leaves are
// ellipses colored by predicted class, and edges carry the branch condition.
func DOT(s *tree.Structure, opts ...DOTOption) (string, error) {
	if s == nil || s.Root == nil {
		return "", errors.NewInvalidInputError("export.DOT", "structure has no root")
	}
	cfg := &dotConfig{rankDir: "TB"}
	for _, opt := range opts {
		opt(cfg)
	}

	classColor := make(map[string]string, len(s.Classes))
	for i, c := range s.Classes {
		if i < len(leafColors) {
			classColor[c] = leafColors[i]
		}
	}

	g := gographviz.NewGraph()
	if err := g.SetName(graphName); err != nil {
		return "", errors.Wrap(err, "naming graph")
	}
	if err := g.SetDir(true); err != nil {
		return "", errors.Wrap(err, "setting graph direction")
	}
	if err := g.AddAttr(graphName, string(gographviz.RankDir), cfg.rankDir); err != nil {
		return "", errors.Wrapf(err, "setting rankdir %q", cfg.rankDir)
	}

	var err error
	s.Walk(func(n *tree.StructureNode, _ int, edge *tree.StructureEdge) {
		if err != nil {
			return
		}
		attrs := map[string]string{
			string(gographviz.Label): strconv.Quote(n.Label + "\n" + n.Summary()),
			string(gographviz.Style): "filled",
		}
		if n.Leaf {
			color, ok := classColor[n.Prediction]
			if !ok {
				color = defaultLeafColor
			}
			attrs[string(gographviz.Shape)] = "ellipse"
			attrs[string(gographviz.FillColor)] = strconv.Quote(color)
		} else {
			attrs[string(gographviz.Shape)] = "box"
			attrs[string(gographviz.FillColor)] = defaultInternalColor
		}
		if err = g.AddNode(graphName, nodeName(n), attrs); err != nil {
			err = errors.Wrapf(err, "adding node %d", n.ID)
			return
		}
		for _, child := range n.Children {
			edgeAttrs := map[string]string{string(gographviz.Label): strconv.Quote(child.Label)}
			if err = g.AddEdge(nodeName(n), nodeName(child.Node), true, edgeAttrs); err != nil {
				err = errors.Wrapf(err, "adding edge %d -> %d", n.ID, child.Node.ID)
				return
			}
		}
	})
	if err != nil {
		return "", err
	}
	return g.String(), nil
}

func nodeName(n *tree.StructureNode) string {
	return "n" + strconv.Itoa(n.ID)
}

// Text renders s as an indented rule listing:
//
//	|--- Renda == Acima de $35k
//	|   |--- class: Baixo (12)
//	|--- Renda != Acima de $35k
//	...
//
// A tree whose root is a leaf renders as a single class line.
func Text(s *tree.Structure) string {
	if s == nil || s.Root == nil {
		return ""
	}
	var sb strings.Builder
	if s.Root.Leaf {
		writeLeaf(&sb, "", s.Root)
		return sb.String()
	}
	var write func(n *tree.StructureNode, indent string)
	write = func(n *tree.StructureNode, indent string) {
		for _, child := range n.Children {
			fmt.Fprintf(&sb, "%s|--- %s\n", indent, condition(n, child))
			if child.Node.Leaf {
				writeLeaf(&sb, indent+"|   ", child.Node)
				continue
			}
			write(child.Node, indent+"|   ")
		}
	}
	write(s.Root, "")
	return sb.String()
}

func condition(parent *tree.StructureNode, edge tree.StructureEdge) string {
	if parent.Split == "categorical" {
		return parent.Feature + " = " + edge.Label
	}
	return parent.Feature + " " + edge.Label
}

func writeLeaf(sb *strings.Builder, indent string, n *tree.StructureNode) {
	fmt.Fprintf(sb, "%s|--- class: %s (%d)\n", indent, n.Prediction, n.Samples)
}
