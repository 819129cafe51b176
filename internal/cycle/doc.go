// Package cycle runs one question-of-the-day cycle: load state, fetch the
// source, reconcile, maybe deliver one question, save state.
//
// Every failure aborts the cycle and is returned as an *Error whose Kind
// names the failing step.
package cycle
