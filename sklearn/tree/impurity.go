package tree

import "math"

// Entropy returns the Shannon entropy in bits of a class-count distribution. Zero counts
// are skipped, and an empty distribution has entropy 0.
func Entropy(counts []int) float64 {
	n := total(counts)
	if n == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		h -= p * math.Log2(p)
	}
	return h
}

// Gini returns the Gini impurity 1 - sum(p^2) of a class-count distribution.
func Gini(counts []int) float64 {
	n := total(counts)
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func total(counts []int) int {
	n := 0
	for _, c := range counts {
		n += c
	}
	return n
}

// countLabels returns the count of each distinct label in first-seen order.
func countLabels(labels []string) []int {
	index := make(map[string]int)
	var counts []int
	for _, l := range labels {
		i, ok := index[l]
		if !ok {
			i = len(counts)
			index[l] = i
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return counts
}

// majority returns the most frequent label. Ties go to the label seen first.
func majority(labels []string) string {
	index := make(map[string]int)
	var order []string
	var counts []int
	for _, l := range labels {
		i, ok := index[l]
		if !ok {
			i = len(order)
			index[l] = i
			order = append(order, l)
			counts = append(counts, 0)
		}
		counts[i]++
	}
	best := -1
	for i, c := range counts {
		if best < 0 || c > counts[best] {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return order[best]
}

// isPure reports whether all labels are identical.
func isPure(labels []string) bool {
	if len(labels) == 0 {
		return true
	}
	for _, l := range labels[1:] {
		if l != labels[0] {
			return false
		}
	}
	return true
}
