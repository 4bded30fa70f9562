// Package diff computes incremental update plans between two snapshots of a
// list, keyed by stable item identity.
package diff

import "sort"

// Op describes one item in a Plan. From is the index in the previous list
// and To the index in the next list; -1 means "not present".
type Op[K comparable] struct {
	Key  K
	From int
	To   int
}

// Plan is the set of render instructions turning previous into next.
//
// Removed is ordered by previous index; every other slice is ordered by next
// index. An item that moved and changed appears in both Moved and Changed.
type Plan[K comparable] struct {
	Removed   []Op[K]
	Inserted  []Op[K]
	Changed   []Op[K]
	Moved     []Op[K]
	Unchanged []Op[K]
}

// Empty reports whether the plan requires no UI update.
func (p Plan[K]) Empty() bool {
	return len(p.Removed) == 0 && len(p.Inserted) == 0 && len(p.Changed) == 0 && len(p.Moved) == 0
}

// Diff compares previous and next. Items are the same when key matches and
// unchanged when equal also holds.
//
// Moves are reported for retained items that fall outside the longest run of
// items whose relative order is preserved, so pure shifts caused by inserts
// or removals are not moves. When a key occurs more than once in a list only
// the first occurrence is matched; later duplicates are reported as inserts
// or removals.
func Diff[T any, K comparable](previous, next []T, key func(T) K, equal func(a, b T) bool) Plan[K] {
	var plan Plan[K]

	oldIndex := make(map[K]int, len(previous))
	for i, it := range previous {
		k := key(it)
		if _, dup := oldIndex[k]; !dup {
			oldIndex[k] = i
		}
	}

	matchedOld := make([]bool, len(previous))
	type pair struct{ from, to int }
	pairs := make([]pair, 0, len(next))

	for j, it := range next {
		k := key(it)
		i, ok := oldIndex[k]
		if !ok || matchedOld[i] {
			plan.Inserted = append(plan.Inserted, Op[K]{Key: k, From: -1, To: j})
			continue
		}
		matchedOld[i] = true
		pairs = append(pairs, pair{from: i, to: j})
	}

	for i, it := range previous {
		if !matchedOld[i] {
			plan.Removed = append(plan.Removed, Op[K]{Key: key(it), From: i, To: -1})
		}
	}

	froms := make([]int, len(pairs))
	for n, p := range pairs {
		froms[n] = p.from
	}
	stay := longestIncreasing(froms)

	for n, p := range pairs {
		op := Op[K]{Key: key(next[p.to]), From: p.from, To: p.to}
		same := equal(previous[p.from], next[p.to])
		if !stay[n] {
			plan.Moved = append(plan.Moved, op)
		}
		if !same {
			plan.Changed = append(plan.Changed, op)
		} else if stay[n] {
			plan.Unchanged = append(plan.Unchanged, op)
		}
	}

	return plan
}

// longestIncreasing marks the members of one longest strictly increasing
// subsequence of seq. Among equal-length candidates the one ending at the
// smallest values wins, which keeps the result deterministic.
func longestIncreasing(seq []int) []bool {
	member := make([]bool, len(seq))
	if len(seq) == 0 {
		return member
	}

	// tails[l] is the index into seq of the smallest tail of an increasing
	// subsequence of length l+1.
	tails := make([]int, 0, len(seq))
	prev := make([]int, len(seq))
	for i, v := range seq {
		l := sort.Search(len(tails), func(n int) bool { return seq[tails[n]] >= v })
		if l > 0 {
			prev[i] = tails[l-1]
		} else {
			prev[i] = -1
		}
		if l == len(tails) {
			tails = append(tails, i)
		} else {
			tails[l] = i
		}
	}

	for i := tails[len(tails)-1]; i >= 0; i = prev[i] {
		member[i] = true
	}
	return member
}
