// Package margin defines margin rules and resolves them into four edge
// margins.
//
// # Classifications
//
// Every [Rule] carries a [Classification]:
//
//   - [Baseline]: minimum safety clearance
//   - [Structural]: minimum structural clearance, for example a spine
//   - [Additive]: extra clearance stacked on top of the base
//   - [Absolute]: a hard override for the edge
//
// # Resolution
//
// [Resolve] treats each edge independently. The largest Baseline or
// Structural value forms the base; the two tiers are never summed. All
// Additive values are added to the base. The first Absolute rule in list
// order replaces the result entirely. An edge with no rules resolves to 0.
//
//	m := margin.Resolve([]margin.Rule{
//	    {ID: "safe", Edge: margin.Top, Value: 5, Type: margin.Baseline},
//	    {ID: "bleed", Edge: margin.Top, Value: 2, Type: margin.Additive},
//	})
//	// m.Top == 7
//
// Values are millimeters. Resolution never fails and never mutates its input.
package margin
