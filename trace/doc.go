// Package trace defines the in-memory data model for multi-sweep
// electrophysiology recordings.
//
// A Series holds an ordered set of named sweeps. Each sweep carries a
// monotonically increasing time axis and one or more named channels of equal
// length. Import packages (abf, prairieview) produce a Series; the analysis
// packages (epoch, measure/...) consume it read-only.
package trace
