// Package grid computes N-Up layouts: how many copies of a finish size fit
// on a sheet, where each copy goes, which design it shows and how it is
// rotated.
//
// # Capacity
//
// Along one axis of usable length U, cells of size S separated by spacing G
// fit C times where C·S + (C-1)·G ≤ U, which gives
//
//	C = floor((U + G) / (S + G))
//
// Columns and rows are computed independently. If either is zero the layout
// is empty, which is the only failure signal of this package.
//
// # Centering
//
// The grid footprint C·S + (C-1)·G is centered inside the usable area, which
// is the sheet minus the per-edge gripper.
//
// # Variant distribution
//
// With V variants and R rows, every variant first receives floor(R/V)
// consecutive rows (the main body). Rows left over at the bottom form the
// footer, where the variant cycles by column (c mod V). When V exceeds R the
// whole grid is footer.
//
// # Head-to-head
//
// When enabled, odd rows are rotated 180 degrees, independent of variants.
//
// All coordinates are page units with Y increasing upward. Placement
// coordinates are cell centers.
package grid
