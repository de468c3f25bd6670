// Package units converts between millimeters and page units (points).
//
// All user-facing inputs (finish size, margins, sheet size, gripper) are
// entered in millimeters. Geometry handed to the host drawing layer is in
// points, where 72 points make one inch and therefore one millimeter is
// 72 / 25.4 ≈ 2.834645 points.
package units

import "github.com/matzehuels/impose/pkg/geom"

// PointsPerMM is the number of page units (points) in one millimeter.
// The value is truncated to six decimals to match the host application.
const PointsPerMM = 2.834645

// MMToPt converts millimeters to points.
func MMToPt(mm float64) float64 {
	return mm * PointsPerMM
}

// PtToMM converts points to millimeters.
func PtToMM(pt float64) float64 {
	return pt / PointsPerMM
}

// SizeToPt converts a size in millimeters to points.
func SizeToPt(s geom.Size) geom.Size {
	return geom.Size{W: MMToPt(s.W), H: MMToPt(s.H)}
}

// SizeToMM converts a size in points to millimeters.
func SizeToMM(s geom.Size) geom.Size {
	return geom.Size{W: PtToMM(s.W), H: PtToMM(s.H)}
}
