package tree

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
)

// Kind identifies the metric stored under a cache key.
type Kind int

const (
	KindEntropy Kind = iota + 1
	KindGini
	KindSplitInfo
)

func (k Kind) String() string {
	switch k {
	case KindEntropy:
		return "entropy"
	case KindGini:
		return "gini"
	case KindSplitInfo:
		return "split_info"
	default:
		return "unknown"
	}
}

// SubsetHash is the SHA-256 digest of an ordered label sequence.
type SubsetHash [sha256.Size]byte

// HashLabels hashes labels in order. Each label is prefixed with its length, so no two
// different sequences share an encoding.
func HashLabels(labels []string) SubsetHash {
	h := sha256.New()
	var prefix [binary.MaxVarintLen64]byte
	for _, label := range labels {
		n := binary.PutUvarint(prefix[:], uint64(len(label)))
		h.Write(prefix[:n])
		h.Write([]byte(label))
	}
	var sum SubsetHash
	copy(sum[:], h.Sum(nil))
	return sum
}

// Key identifies one memoized computation. Keys are comparable and used directly as map
// keys; two keys are equal only if every field is.
type Key struct {
	Subset     SubsetHash
	Feature    string
	HasFeature bool
	Kind       Kind
	Algorithm  Algorithm
}

// NewKey returns the key for computing kind over labels under algorithm.
func NewKey(labels []string, kind Kind, algorithm Algorithm) Key {
	return Key{Subset: HashLabels(labels), Kind: kind, Algorithm: algorithm}
}

// WithFeature returns a copy of k scoped to a feature.
func (k Key) WithFeature(feature string) Key {
	k.Feature = feature
	k.HasFeature = true
	return k
}

// splitInfoKey keys the split information of a partition by its branch sizes.
func splitInfoKey(sizes []int, feature string, algorithm Algorithm) Key {
	encoded := make([]string, len(sizes))
	for i, n := range sizes {
		encoded[i] = strconv.Itoa(n)
	}
	return NewKey(encoded, KindSplitInfo, algorithm).WithFeature(feature)
}
