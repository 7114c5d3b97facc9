// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// IterSeq2Concat chains key/value sequences in order.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// IterSeq2Sorted yields seq in ascending key order.
// When a key repeats, the last value seen wins.
func IterSeq2Sorted[K cmp.Ordered, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		pairs := maps.Collect(seq)
		for _, key := range slices.Sorted(maps.Keys(pairs)) {
			if !yield(key, pairs[key]) {
				return
			}
		}
	}
}
