// Package search drives multi-round repository discovery: keyword
// combinations derived from a skill profile probe an external search
// collaborator, candidates are qualified through a metrics collaborator,
// and qualified repositories are scored and ranked.
package search

// Combinations derives the ordered keyword subsets used to probe the
// search collaborator. One broad query wastes yield and one narrow query
// under-covers, so the sequence starts with the full skill set (truncated
// to maxSize) and then walks all combinations of size minSize..maxSize in
// natural enumeration order, preserving the input's relative order inside
// each combination. When minSize is 1 every individual skill is appended
// as a singleton at the end.
//
// Output order is deterministic for identical input. Duplicate subsets
// across the sequence are acceptable: the coordinator deduplicates by
// result repo id, not by query.
func Combinations(skills []string, minSize, maxSize int) [][]string {
	if len(skills) == 0 || minSize < 1 || maxSize < minSize {
		return nil
	}

	var combos [][]string

	// Broadest useful query first.
	if len(skills) >= minSize {
		head := skills
		if len(head) > maxSize {
			head = head[:maxSize]
		}
		combos = append(combos, clone(head))
	}

	lo := minSize
	if lo > len(skills) {
		lo = len(skills)
	}
	hi := maxSize
	if hi > len(skills) {
		hi = len(skills)
	}
	for size := lo; size <= hi; size++ {
		combos = append(combos, combinationsOfSize(skills, size)...)
	}

	if minSize == 1 {
		for _, s := range skills {
			combos = append(combos, []string{s})
		}
	}

	return combos
}

// combinationsOfSize enumerates all k-subsets of items in lexicographic
// index order, each preserving the original relative order.
func combinationsOfSize(items []string, k int) [][]string {
	if k <= 0 || k > len(items) {
		return nil
	}

	var out [][]string
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	for {
		combo := make([]string, k)
		for i, j := range idx {
			combo[i] = items[j]
		}
		out = append(out, combo)

		// Advance to the next index tuple.
		i := k - 1
		for i >= 0 && idx[i] == len(items)-k+i {
			i--
		}
		if i < 0 {
			break
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}

	return out
}

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
