// Package arbor grows classification trees over mixed categorical and numeric tables
// with the ID3, C4.5 and CART algorithms, sharing one memoized impurity cache between
// them.
//
// arbor is meant for backend services and command line tooling that need small,
// explainable models: every fitted tree can be rendered as text, Graphviz DOT or JSON,
// and every prediction reports the rows that met a category no branch knows about.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/ctreelab/arbor/datasets"
//	    "github.com/ctreelab/arbor/sklearn/tree"
//	    "github.com/ctreelab/arbor/sklearn/tree/export"
//	)
//
//	func main() {
//	    ds := datasets.LoadCreditRisk()
//
//	    dt, err := tree.New("cart", tree.WithMaxDepth(5))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if err := dt.Fit(ds.Table, ds.Labels); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    s, _ := dt.TreeStructure()
//	    fmt.Print(export.Text(s))
//	}
//
// # Packages
//
//   - sklearn/tree: the tree builder, impurity cache, prediction and structure export
//   - sklearn/tree/export: text and Graphviz DOT rendering
//   - sklearn/model_selection: train/test splits and (stratified) k-fold
//   - metrics: accuracy, confusion matrix and per-class precision/recall/F1
//   - datasets: the bundled credit-risk dataset and a YAML dataset reader
//   - core/table: typed feature tables
//   - core/parallel: row-parallel prediction
//   - pkg/config, pkg/errors, pkg/log: configuration, error taxonomy and logging
//
// # scikit-learn Compatibility
//
// Purely numeric data held in gonum matrices can use the familiar estimator API:
//
//	clf := tree.NewDecisionTreeClassifier(tree.WithCriterion("gini"), tree.WithMaxDepth(3))
//	if err := clf.Fit(X, y); err != nil {
//	    log.Fatal(err)
//	}
//	proba, err := clf.PredictProba(XTest)
//
// # Command Line
//
// cmd/arbor grows, evaluates, exports and applies trees:
//
//	arbor fit --algorithm c4.5 --format dot --output tree.dot
//	arbor predict --input applicants.yaml
package arbor
