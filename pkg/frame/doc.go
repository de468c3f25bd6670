// Package frame computes the yield frame: the finish rectangle of one copy,
// the printable (safe) rectangle inset by the resolved margins, and the data
// the drawing layer needs to fit content into it.
//
// Finish size comes from the payload geometry in millimeters when both
// dimensions are positive. Otherwise the frame is auto-sized from the
// content bounds and downstream resizing is skipped.
//
// [Calculate] never clamps. Margins larger than the finish size produce a
// negative printable size; use [Frame.Check] to turn that into an error.
package frame
