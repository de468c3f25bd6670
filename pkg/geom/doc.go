// Package geom provides the axis-aligned geometry primitives shared by the
// imposition engine.
//
// Coordinates follow the host page model: X grows to the right and Y grows
// upward, so a rectangle's Top is numerically greater than its Bottom. All
// values are page units (points) unless a type says otherwise.
//
// # Rectangles
//
// [Rect] stores the four edges directly and serializes as the host's
// four-element array:
//
//	[left, top, right, bottom]
//
// Width and height are derived (Right-Left, Top-Bottom) and are never stored,
// so a rectangle cannot disagree with itself.
//
// # Content bounds
//
// [Bounds] is the preflight shape used when finish size is detected from the
// artwork rather than entered by the user: a top-left anchor plus extents.
// [Union] aggregates several item rectangles into one.
package geom
