// Package question holds the question model and the approximate-match
// reconciliation used to merge freshly fetched lines into the collection.
//
// Two lines are treated as the same question when their edit distance is
// below Threshold. The first entry (in collection order) under the threshold
// wins, not the closest one.
package question
