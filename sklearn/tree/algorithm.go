package tree

import (
	"strings"

	"github.com/ctreelab/arbor/pkg/errors"
)

// Algorithm selects the splitting criterion and the feature handling of a tree.
type Algorithm int

const (
	// AlgorithmAgnostic marks cache entries shared by every algorithm. It is not a valid
	// algorithm for growing a tree.
	AlgorithmAgnostic Algorithm = iota
	// ID3 scores multiway splits by information gain and treats numeric values as categories.
	ID3
	// C45 scores splits by gain ratio and thresholds numeric features.
	C45
	// CART scores binary splits by Gini reduction and thresholds numeric features.
	CART
)

var algorithms = []Algorithm{AlgorithmAgnostic, ID3, C45, CART}

func (a Algorithm) String() string {
	switch a {
	case AlgorithmAgnostic:
		return "agnostic"
	case ID3:
		return "id3"
	case C45:
		return "c4.5"
	case CART:
		return "cart"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseAlgorithm resolves "id3", "c45", "c4.5" or "cart", ignoring case.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id3":
		return ID3, nil
	case "c45", "c4.5":
		return C45, nil
	case "cart":
		return CART, nil
	default:
		return AlgorithmAgnostic, errors.NewConfigurationErrorWithHint(
			"algorithm", name, "unknown algorithm", "use one of id3, c45 or cart")
	}
}

// impurityKind is the node impurity measure the algorithm reduces.
func (a Algorithm) impurityKind() Kind {
	if a == CART {
		return KindGini
	}
	return KindEntropy
}

// thresholdsNumeric reports whether numeric features are split on a threshold instead of
// being treated as categorical values.
func (a Algorithm) thresholdsNumeric() bool {
	return a == C45 || a == CART
}

// bisectsCategorical reports whether categorical features are split into one value
// against all others instead of one branch per value.
func (a Algorithm) bisectsCategorical() bool {
	return a == CART
}
