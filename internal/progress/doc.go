// Package progress holds the learning-progress rules shared by every dashboard:
// submission lifecycle, quiz attempt resolution, per-enrollment percentages,
// score averages and cohort completion rates.
//
// Every function is a pure computation over the snapshot it receives. Callers
// load the snapshot from the store and may cache or persist the results; the
// same snapshot always produces the same output.
package progress
