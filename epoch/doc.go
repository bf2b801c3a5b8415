// Package epoch segments multi-sweep recordings into fixed-size, possibly
// overlapping windows and summarizes each window with a per-epoch statistic.
//
// Segment cuts every sweep of a trace.Series into epochs of Window samples
// advancing by Step samples. Hist, KDE, and Pgram run one statistic over a
// chosen channel of every epoch and assemble the results into a single flat
// Table keyed by (sweep, epoch, position).
//
// The pipeline is a single-pass, stateless transform: it either returns a
// fully assembled table or an error, never a partial result.
package epoch
