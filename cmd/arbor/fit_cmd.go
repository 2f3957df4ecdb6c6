package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ctreelab/arbor/datasets"
	"github.com/ctreelab/arbor/metrics"
	"github.com/ctreelab/arbor/pkg/config"
	"github.com/ctreelab/arbor/pkg/errors"
	"github.com/ctreelab/arbor/sklearn/model_selection"
	"github.com/ctreelab/arbor/sklearn/tree"
	"github.com/ctreelab/arbor/sklearn/tree/export"
)

const metricsNamespace = "arbor"

type fitCmdConfig struct {
	*rootCmdConfig
	dataInput   string
	output      string
	format      string
	rankDir     string
	algorithm   string
	maxDepth    int
	metricsFile string
}

func fitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	fc := &fitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Grow a tree from a dataset and evaluate it",
		Long: `Grow a tree from a YAML dataset (or the built-in credit-risk dataset), print it and
report its accuracy on a held-out test split together with impurity cache statistics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := fc.Validate(); err != nil {
				return err
			}
			cfg, err := fc.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("algorithm") {
				cfg.Algorithm = fc.algorithm
			}
			if cmd.Flags().Changed("max-depth") {
				cfg.MaxDepth = fc.maxDepth
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return fc.run(cmd, cfg)
		},
	}
	cmd.Flags().StringVarP(&fc.dataInput, "data", "d", "", "path to a YAML dataset with a target column (defaults to the built-in credit-risk dataset)")
	cmd.Flags().StringVarP(&fc.output, "output", "o", "", "path to a file to which the tree will be written (defaults to STDOUT)")
	cmd.Flags().StringVarP(&fc.format, "format", "f", "text", "tree output format: text, dot or json")
	cmd.Flags().StringVar(&fc.rankDir, "rankdir", "TB", "DOT layout direction: TB or LR")
	cmd.Flags().StringVarP(&fc.algorithm, "algorithm", "a", "", "id3, c45 or cart (overrides the configuration)")
	cmd.Flags().IntVar(&fc.maxDepth, "max-depth", 0, "maximum tree depth (overrides the configuration)")
	cmd.Flags().StringVar(&fc.metricsFile, "metrics-file", "", "path to a file to which fit and cache metrics are written in Prometheus text format")
	return cmd
}

func (fc *fitCmdConfig) Validate() error {
	switch fc.format {
	case "text", "dot", "json":
	default:
		return errors.NewConfigurationError("format", fc.format, "expected text, dot or json")
	}
	if fc.rankDir != "TB" && fc.rankDir != "LR" {
		return errors.NewConfigurationError("rankdir", fc.rankDir, "expected TB or LR")
	}
	return nil
}

func (fc *fitCmdConfig) run(cmd *cobra.Command, cfg *config.Config) error {
	ds, err := loadLabeledDataset(fc.dataInput)
	if err != nil {
		return err
	}
	train, test, err := holdOut(ds, cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	cache := tree.NewCache()
	reg.MustRegister(tree.NewCacheCollector(metricsNamespace, cache))
	opts := append(cfg.TreeOptions(),
		tree.WithCache(cache),
		tree.WithFitMetrics(tree.NewFitMetrics(reg, metricsNamespace)),
	)
	dt, err := tree.New(cfg.Algorithm, opts...)
	if err != nil {
		return err
	}
	if err := dt.Fit(train.Table, train.Labels); err != nil {
		return errors.Wrap(err, "growing the tree")
	}

	if err := fc.writeTree(cmd, dt); err != nil {
		return err
	}
	if err := evaluate(cmd.ErrOrStderr(), dt, test); err != nil {
		return err
	}
	if fc.metricsFile != "" {
		if err := prometheus.WriteToTextfile(fc.metricsFile, reg); err != nil {
			return errors.Wrapf(err, "writing metrics to %s", fc.metricsFile)
		}
	}
	return nil
}

func (fc *fitCmdConfig) writeTree(cmd *cobra.Command, dt *tree.DecisionTree) error {
	s, err := dt.TreeStructure()
	if err != nil {
		return err
	}
	var out []byte
	switch fc.format {
	case "dot":
		dot, err := export.DOT(s, export.WithRankDir(fc.rankDir))
		if err != nil {
			return err
		}
		out = []byte(dot)
	case "json":
		if out, err = json.MarshalIndent(s, "", "  "); err != nil {
			return errors.Wrap(err, "encoding tree")
		}
		out = append(out, '\n')
	default:
		out = []byte(export.Text(s))
	}
	return writeOutput(cmd.OutOrStdout(), fc.output, out)
}

// evaluate reports the held-out performance of dt and the cache activity of its fit.
func evaluate(w io.Writer, dt *tree.DecisionTree, test *datasets.Dataset) error {
	preds, report, err := dt.PredictWithReport(test.Table)
	if err != nil {
		return err
	}
	cr, err := metrics.ClassificationReport(test.Labels, preds)
	if err != nil {
		return err
	}
	fit := dt.LastFit()
	fmt.Fprintf(w, "\n%s: %d nodes, %d leaves, depth %d, trained on %d rows in %v\n",
		fit.Algorithm, fit.Nodes, fit.Leaves, fit.Depth, fit.Samples, fit.Duration)
	fmt.Fprintf(w, "accuracy on %d rows: %.3f (%d unseen-category fallbacks)\n\n",
		test.Table.Rows(), cr.Accuracy, len(report.Fallbacks))
	fmt.Fprint(w, cr.String())
	fmt.Fprintf(w, "\nimpurity cache: %d hits, %d misses, hit rate %.1f%%, %d entries\n",
		fit.Hits, fit.Misses, 100*fit.HitRate, dt.CacheStats().Entries)
	return nil
}

func loadLabeledDataset(path string) (*datasets.Dataset, error) {
	if path == "" {
		return datasets.LoadCreditRisk(), nil
	}
	ds, err := datasets.ReadYAMLFile(path)
	if err != nil {
		return nil, err
	}
	if ds.Labels == nil {
		return nil, errors.NewInvalidInputErrorf("fit", "dataset %s has no values for target %q", path, ds.Target)
	}
	return ds, nil
}

// holdOut splits ds per the configuration. A zero test size trains and evaluates on
// every row.
func holdOut(ds *datasets.Dataset, cfg *config.Config) (train, test *datasets.Dataset, err error) {
	if cfg.TestSize == 0 {
		return ds, ds, nil
	}
	split, err := model_selection.TrainTestSplit(ds.Labels, cfg.TestSize, cfg.Seed, cfg.Stratify)
	if err != nil {
		return nil, nil, err
	}
	if train, err = ds.Subset(split.Train); err != nil {
		return nil, nil, err
	}
	if test, err = ds.Subset(split.Test); err != nil {
		return nil, nil, err
	}
	return train, test, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}
