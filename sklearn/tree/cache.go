package tree

// Cache memoizes impurity computations across the nodes of a tree and, when injected with
// WithCache, across trees. It keeps one partition per Algorithm, including a shared
// partition for AlgorithmAgnostic keys.
//
// A Cache is not safe for concurrent use. Trees sharing a cache must not be fitted
// concurrently.
type Cache struct {
	partitions map[Algorithm]*partition
}

type partition struct {
	entries map[Key]float64
	hits    int64
	misses  int64
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	c := &Cache{partitions: make(map[Algorithm]*partition, len(algorithms))}
	for _, a := range algorithms {
		c.partitions[a] = &partition{entries: make(map[Key]float64)}
	}
	return c
}

func (c *Cache) partitionFor(a Algorithm) *partition {
	p, ok := c.partitions[a]
	if !ok {
		p = &partition{entries: make(map[Key]float64)}
		c.partitions[a] = p
	}
	return p
}

// Get returns the value stored under key. Every call counts as a hit or a miss in the
// partition of key.Algorithm.
func (c *Cache) Get(key Key) (float64, bool) {
	p := c.partitionFor(key.Algorithm)
	v, ok := p.entries[key]
	if ok {
		p.hits++
	} else {
		p.misses++
	}
	return v, ok
}

// Put stores value under key, replacing any previous value.
func (c *Cache) Put(key Key, value float64) {
	c.partitionFor(key.Algorithm).entries[key] = value
}

// Len returns the number of stored entries across all partitions.
func (c *Cache) Len() int {
	n := 0
	for _, p := range c.partitions {
		n += len(p.entries)
	}
	return n
}

// Reset drops every entry and zeroes the counters.
func (c *Cache) Reset() {
	for _, p := range c.partitions {
		p.entries = make(map[Key]float64)
		p.hits = 0
		p.misses = 0
	}
}

// Impurity returns the impurity of labels under kind, computing it on a miss. Empty label
// sets have impurity 0 and are not stored.
func (c *Cache) Impurity(labels []string, kind Kind, algorithm Algorithm) float64 {
	if len(labels) == 0 {
		return 0
	}
	key := NewKey(labels, kind, algorithm)
	if v, ok := c.Get(key); ok {
		return v
	}
	var v float64
	switch kind {
	case KindGini:
		v = Gini(countLabels(labels))
	default:
		v = Entropy(countLabels(labels))
	}
	c.Put(key, v)
	return v
}

// Entropy returns the cached entropy of labels.
func (c *Cache) Entropy(labels []string, algorithm Algorithm) float64 {
	return c.Impurity(labels, KindEntropy, algorithm)
}

// Gini returns the cached Gini impurity of labels.
func (c *Cache) Gini(labels []string, algorithm Algorithm) float64 {
	return c.Impurity(labels, KindGini, algorithm)
}

// SplitInformation returns the entropy of the branch-size proportions of a partition of
// feature. Empty branches are ignored.
func (c *Cache) SplitInformation(sizes []int, feature string, algorithm Algorithm) float64 {
	nonEmpty := make([]int, 0, len(sizes))
	for _, n := range sizes {
		if n > 0 {
			nonEmpty = append(nonEmpty, n)
		}
	}
	if len(nonEmpty) == 0 {
		return 0
	}
	key := splitInfoKey(nonEmpty, feature, algorithm)
	if v, ok := c.Get(key); ok {
		return v
	}
	v := Entropy(nonEmpty)
	c.Put(key, v)
	return v
}

// PartitionStats are the counters of one cache partition.
type PartitionStats struct {
	Algorithm Algorithm `json:"algorithm"`
	Hits      int64     `json:"hits"`
	Misses    int64     `json:"misses"`
	Entries   int       `json:"entries"`
}

// CacheStats is a snapshot of cache activity.
type CacheStats struct {
	Partitions []PartitionStats `json:"partitions"`
	Hits       int64            `json:"hits"`
	Misses     int64            `json:"misses"`
	Entries    int              `json:"entries"`
}

// Lookups returns Hits + Misses.
func (s CacheStats) Lookups() int64 { return s.Hits + s.Misses }

// HitRate returns the fraction of lookups that were hits, or 0 before any lookup.
func (s CacheStats) HitRate() float64 {
	if s.Lookups() == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Lookups())
}

// Stats returns a snapshot of the counters. Partitions are listed in Algorithm order.
func (c *Cache) Stats() CacheStats {
	var s CacheStats
	for _, a := range algorithms {
		p := c.partitionFor(a)
		s.Partitions = append(s.Partitions, PartitionStats{
			Algorithm: a,
			Hits:      p.hits,
			Misses:    p.misses,
			Entries:   len(p.entries),
		})
		s.Hits += p.hits
		s.Misses += p.misses
		s.Entries += len(p.entries)
	}
	return s
}

// delta returns the activity between an earlier snapshot and s.
func (s CacheStats) delta(before CacheStats) (hits, misses int64, rate float64) {
	hits = s.Hits - before.Hits
	misses = s.Misses - before.Misses
	if hits+misses > 0 {
		rate = float64(hits) / float64(hits+misses)
	}
	return hits, misses, rate
}
