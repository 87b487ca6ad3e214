// Package stats implements constant-memory, single-pass accumulators for
// mean, variance, and extrema over unbounded value streams.
//
// Every accumulator holds only sufficient statistics (count, sum, sum of
// squares) and supports two mutations:
//
//   - Update(x) folds one value in at O(1) time and space and returns the
//     newly recomputed statistic.
//   - Merge(other) combines two accumulators built over disjoint data
//     partitions into one equivalent to an accumulator driven over the
//     union. Merge is exact, field-wise additive, associative and
//     commutative, with the zero value as identity.
//
// The merge property is what makes these accumulators usable as map-reduce
// partials: each worker folds its partition independently, and the
// coordinator merges the results in any order.
//
// Accumulators are not safe for concurrent use. The intended model is one
// accumulator per goroutine, merged after the goroutines are done; see the
// reduce package.
package stats
