package vdom

// patchStableChildren patches each child by positional index only: identity
// and order are producer-guaranteed. A length change breaks that guarantee
// and degrades to the full children diff.
func (w *walk) patchStableChildren(old, n *VNode, force bool) {
	if len(old.Children) != len(n.Children) {
		w.violation(structureError(ErrBlockMisaligned,
			"stable fragment length changed: %d -> %d", len(old.Children), len(n.Children)))
		w.fullDiffChildren(old, n, force)
		return
	}
	for i := range n.Children {
		w.patch(old.Children[i], n.Children[i], n.Ref, nil, force)
	}
}

// patchUnkeyedChildren patches the common-length prefix positionally, then
// mounts or removes the length difference at the tail.
func (w *walk) patchUnkeyedChildren(old, next []*VNode, parent Ref, force bool) {
	common := len(old)
	if len(next) < common {
		common = len(next)
	}
	for i := 0; i < common; i++ {
		w.patch(old[i], next[i], parent, nil, force)
	}
	for i := common; i < len(next); i++ {
		w.mount(next[i], parent, nil)
	}
	for i := common; i < len(old); i++ {
		w.unmount(old[i])
	}
}

// patchKeyedChildren reconciles keyed children with minimal target moves:
// sync matching prefix and suffix, match the middle through a key map, then
// place the middle back to front, moving only nodes outside the longest
// increasing run of matched old indices.
func (w *walk) patchKeyedChildren(old, next []*VNode, parent Ref, force bool) {
	i := 0
	e1 := len(old) - 1
	e2 := len(next) - 1

	// Sync from the start.
	for i <= e1 && i <= e2 && sameNode(old[i], next[i]) {
		w.patch(old[i], next[i], parent, nil, force)
		i++
	}
	// Sync from the end.
	for e1 >= i && e2 >= i && sameNode(old[e1], next[e2]) {
		w.patch(old[e1], next[e2], parent, nil, force)
		e1--
		e2--
	}

	if i > e1 {
		// Old side exhausted: mount the remaining new children before
		// the first synced suffix node.
		anchor := anchorAfter(next, e2)
		for ; i <= e2; i++ {
			w.mount(next[i], parent, anchor)
		}
		return
	}
	if i > e2 {
		// New side exhausted: remove the stale middle.
		for ; i <= e1; i++ {
			w.unmount(old[i])
		}
		return
	}

	// Unknown middle. Map new keys to positions, patch matched pairs and
	// drop unmatched old children. Patching first resolves every matched
	// child's ref, so the placement pass can anchor on it.
	keyToNew := make(map[string]int, e2-i+1)
	for j := i; j <= e2; j++ {
		if next[j].Key != "" {
			keyToNew[next[j].Key] = j
		}
	}

	matchedOld := make([]int, e2-i+1)
	for j := range matchedOld {
		matchedOld[j] = -1
	}
	for j := i; j <= e1; j++ {
		o := old[j]
		nj, ok := keyToNew[o.Key]
		if ok && sameNode(o, next[nj]) && matchedOld[nj-i] == -1 {
			matchedOld[nj-i] = j
			w.patch(o, next[nj], parent, nil, force)
		} else {
			w.unmount(o)
		}
	}

	// Place the middle back to front so next[j+1].Ref is always resolved
	// when mounting or moving at j. Matched children whose old indices sit
	// on the longest increasing subsequence keep their relative order and
	// never move.
	stable := longestIncreasing(matchedOld)
	s := len(stable) - 1
	for j := e2; j >= i; j-- {
		child := next[j]
		anchor := anchorAfter(next, j)
		if matchedOld[j-i] < 0 {
			w.mount(child, parent, anchor)
			continue
		}
		if s >= 0 && stable[s] == j-i {
			s--
			continue
		}
		w.rc.r.Insert(child.Ref, parent, anchor)
	}
}

// longestIncreasing returns, in ascending order, the indices of a longest
// strictly increasing subsequence of the non-negative values in seq.
// Negative entries mark unmatched positions and are skipped.
func longestIncreasing(seq []int) []int {
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for j, v := range seq {
		if v < 0 {
			continue
		}
		if len(tails) == 0 || seq[tails[len(tails)-1]] < v {
			if len(tails) > 0 {
				prev[j] = tails[len(tails)-1]
			} else {
				prev[j] = -1
			}
			tails = append(tails, j)
			continue
		}
		lo, hi := 0, len(tails)-1
		for lo < hi {
			mid := (lo + hi) / 2
			if seq[tails[mid]] < v {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		if seq[tails[lo]] > v {
			if lo > 0 {
				prev[j] = tails[lo-1]
			} else {
				prev[j] = -1
			}
			tails[lo] = j
		}
	}
	if len(tails) == 0 {
		return tails
	}
	u := tails[len(tails)-1]
	for k := len(tails) - 1; k >= 0; k-- {
		tails[k] = u
		u = prev[u]
	}
	return tails
}

// anchorAfter returns the first already-placed sibling ref after position j,
// or nil to append.
func anchorAfter(next []*VNode, j int) Ref {
	for k := j + 1; k < len(next); k++ {
		if next[k].Ref != nil {
			return next[k].Ref
		}
	}
	return nil
}

// fullDiffChildren is the hint-free children comparison: key presence alone
// decides between the keyed and positional strategies.
func (w *walk) fullDiffChildren(old, n *VNode, force bool) {
	if hasKeys(old.Children) || hasKeys(n.Children) {
		w.patchKeyedChildren(old.Children, n.Children, n.Ref, force)
	} else {
		w.patchUnkeyedChildren(old.Children, n.Children, n.Ref, force)
	}
}

// hasKeys returns true if any child carries a key.
func hasKeys(children []*VNode) bool {
	for _, child := range children {
		if child != nil && child.Key != "" {
			return true
		}
	}
	return false
}
