// Package scheduler computes tick times and drives the cycle loop.
//
// A schedule is either a cron expression (robfig/cron) or a fixed interval.
// The loop runs one job at a time: the next trigger is computed only after
// the previous run returned, so runs never overlap.
package scheduler
