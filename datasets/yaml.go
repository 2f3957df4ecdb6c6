package datasets

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ctreelab/arbor/core/table"
	"github.com/ctreelab/arbor/pkg/errors"
)

// Dataset is a feature table with optional labels.
type Dataset struct {
	Name   string
	Target string
	Table  *table.Table
	// Labels is nil when the document has no target values, as for prediction inputs.
	Labels []string
}

// Subset returns the rows of d at the given indices, in that order.
func (d *Dataset) Subset(rows []int) (*Dataset, error) {
	tbl, err := d.Table.Select(rows)
	if err != nil {
		return nil, err
	}
	sub := &Dataset{Name: d.Name, Target: d.Target, Table: tbl}
	if d.Labels != nil {
		sub.Labels = make([]string, len(rows))
		for i, r := range rows {
			sub.Labels[i] = d.Labels[r]
		}
	}
	return sub, nil
}

type featureDoc struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type datasetDoc struct {
	Name     string                   `yaml:"name"`
	Target   string                   `yaml:"target"`
	Features []featureDoc             `yaml:"features"`
	Rows     []map[string]interface{} `yaml:"rows"`
}

// ReadYAML parses a dataset document:
//
//	name: weather
//	target: play
//	features:
//	  - {name: outlook, kind: categorical}
//	  - {name: humidity, kind: numeric}
//	rows:
//	  - {outlook: sunny, humidity: 85, play: "no"}
//
// Feature order in the document is the column order of the table. The target value may
// be omitted from every row, in which case Labels is nil.
func ReadYAML(data []byte) (*Dataset, error) {
	const op = "datasets.ReadYAML"

	var doc datasetDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing dataset yaml")
	}
	if len(doc.Features) == 0 {
		return nil, errors.NewInvalidInputError(op, "document declares no features")
	}

	columns := make([]table.Column, len(doc.Features))
	for j, f := range doc.Features {
		switch strings.ToLower(f.Kind) {
		case "numeric", "continuous":
			values := make([]float64, len(doc.Rows))
			for i, row := range doc.Rows {
				v, err := numericValue(row[f.Name])
				if err != nil {
					return nil, errors.NewInvalidInputErrorf(op, "row %d feature %q: %v", i, f.Name, err)
				}
				values[i] = v
			}
			columns[j] = table.NumericColumn(f.Name, values)
		case "categorical", "discrete", "":
			values := make([]string, len(doc.Rows))
			for i, row := range doc.Rows {
				v, ok := row[f.Name]
				if !ok || v == nil {
					return nil, errors.NewInvalidInputErrorf(op, "row %d has no value for feature %q", i, f.Name)
				}
				values[i] = fmt.Sprint(v)
			}
			columns[j] = table.CategoricalColumn(f.Name, values)
		default:
			return nil, errors.NewInvalidInputErrorf(op, "feature %q has unknown kind %q", f.Name, f.Kind)
		}
	}
	tbl, err := table.New(columns...)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Name: doc.Name, Target: doc.Target, Table: tbl}
	if doc.Target == "" {
		return ds, nil
	}
	present := 0
	for _, row := range doc.Rows {
		if _, ok := row[doc.Target]; ok {
			present++
		}
	}
	switch present {
	case 0:
	case len(doc.Rows):
		ds.Labels = make([]string, len(doc.Rows))
		for i, row := range doc.Rows {
			ds.Labels[i] = fmt.Sprint(row[doc.Target])
		}
	default:
		return nil, errors.NewInvalidInputErrorf(op, "target %q is set on %d of %d rows", doc.Target, present, len(doc.Rows))
	}
	return ds, nil
}

// ReadYAMLFile reads and parses the dataset document at path.
func ReadYAMLFile(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading dataset file %s", path)
	}
	ds, err := ReadYAML(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing dataset file %s", path)
	}
	return ds, nil
}

func numericValue(v interface{}) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	case nil:
		return 0, errors.New("missing value")
	default:
		return 0, errors.Newf("value %v of type %T is not numeric", v, v)
	}
}
