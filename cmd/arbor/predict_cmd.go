package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ctreelab/arbor/datasets"
	"github.com/ctreelab/arbor/pkg/errors"
	"github.com/ctreelab/arbor/sklearn/tree"
)

type predictCmdConfig struct {
	*rootCmdConfig
	dataInput string
	input     string
	output    string
	format    string
}

type predictionOutput struct {
	Predictions []string        `json:"predictions"`
	Fallbacks   []tree.Fallback `json:"fallbacks,omitempty"`
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	pc := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Grow a tree on a dataset and predict the rows of another",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pc.input == "" {
				return errors.NewConfigurationError("input", pc.input, "required flag was not set")
			}
			if pc.format != "text" && pc.format != "json" {
				return errors.NewConfigurationError("format", pc.format, "expected text or json")
			}
			cfg, err := pc.load(cmd)
			if err != nil {
				return err
			}
			train, err := loadLabeledDataset(pc.dataInput)
			if err != nil {
				return err
			}
			rows, err := datasets.ReadYAMLFile(pc.input)
			if err != nil {
				return err
			}

			dt, err := tree.New(cfg.Algorithm, cfg.TreeOptions()...)
			if err != nil {
				return err
			}
			if err := dt.Fit(train.Table, train.Labels); err != nil {
				return errors.Wrap(err, "growing the tree")
			}
			preds, report, err := dt.PredictWithReport(rows.Table)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), pc.output, pc.render(preds, report))
		},
	}
	cmd.Flags().StringVarP(&pc.dataInput, "data", "d", "", "path to a YAML training dataset (defaults to the built-in credit-risk dataset)")
	cmd.Flags().StringVarP(&pc.input, "input", "i", "", "path to a YAML dataset with the rows to predict (required)")
	cmd.Flags().StringVarP(&pc.output, "output", "o", "", "path to a file to which predictions will be written (defaults to STDOUT)")
	cmd.Flags().StringVarP(&pc.format, "format", "f", "text", "output format: text or json")
	return cmd
}

func (pc *predictCmdConfig) render(preds []string, report tree.PredictReport) []byte {
	if pc.format == "json" {
		out, _ := json.MarshalIndent(predictionOutput{Predictions: preds, Fallbacks: report.Fallbacks}, "", "  ")
		return append(out, '\n')
	}
	fallback := make(map[int]tree.Fallback, len(report.Fallbacks))
	for _, fb := range report.Fallbacks {
		fallback[fb.Row] = fb
	}
	var sb strings.Builder
	for i, p := range preds {
		fmt.Fprintf(&sb, "%d\t%s", i, p)
		if fb, ok := fallback[i]; ok {
			fmt.Fprintf(&sb, "\t(unseen %s=%q)", fb.Feature, fb.Value)
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}
