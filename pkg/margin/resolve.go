package margin

import (
	"fmt"

	"github.com/samber/lo"
)

// Resolve reduces rules into four edge margins. It never fails: an edge with
// no matching rules resolves to 0.
func Resolve(rules []Rule) Margins {
	var m Margins
	for _, e := range Edges() {
		m = m.With(e, resolveEdge(rules, e).Final)
	}
	return m
}

// EdgeReport is the breakdown of how one edge was resolved.
type EdgeReport struct {
	Edge Edge `json:"edge"`
	// Base is the largest Baseline or Structural value, and BaseRule the
	// rule that supplied it.
	Base     float64 `json:"base"`
	BaseRule string  `json:"baseRule,omitempty"`
	Additive float64 `json:"additive"`
	// Override is set when an Absolute rule decided the edge.
	Override     *float64 `json:"override,omitempty"`
	OverrideRule string   `json:"overrideRule,omitempty"`
	Final        float64  `json:"final"`
	// Inert lists rules on this edge that did not affect Final.
	Inert []string `json:"inert,omitempty"`
}

// Explain returns a per-edge breakdown of [Resolve], in edge order.
func Explain(rules []Rule) []EdgeReport {
	return lo.Map(Edges(), func(e Edge, _ int) EdgeReport {
		return resolveEdge(rules, e)
	})
}

func (r EdgeReport) String() string {
	if r.Override != nil {
		return fmt.Sprintf("%s: %g (absolute %s)", r.Edge, r.Final, r.OverrideRule)
	}
	return fmt.Sprintf("%s: %g (base %g + additive %g)", r.Edge, r.Final, r.Base, r.Additive)
}

func resolveEdge(rules []Rule, e Edge) EdgeReport {
	rep := EdgeReport{Edge: e}
	onEdge := lo.Filter(rules, func(r Rule, _ int) bool { return r.Edge == e })

	var contributing []string
	for _, r := range onEdge {
		switch r.Type {
		case Baseline, Structural:
			if r.Value > rep.Base {
				rep.Base = r.Value
				rep.BaseRule = r.ID
			}
		case Additive:
			rep.Additive += r.Value
			contributing = append(contributing, r.ID)
		case Absolute:
			if rep.Override == nil {
				v := r.Value
				rep.Override = &v
				rep.OverrideRule = r.ID
			}
		}
		// Rules of any other classification contribute nothing and are
		// reported as inert.
	}

	if rep.Override != nil {
		rep.Final = *rep.Override
		contributing = []string{rep.OverrideRule}
	} else {
		rep.Final = rep.Base + rep.Additive
		if rep.BaseRule != "" {
			contributing = append(contributing, rep.BaseRule)
		}
	}

	rep.Inert = lo.FilterMap(onEdge, func(r Rule, _ int) (string, bool) {
		return r.ID, !lo.Contains(contributing, r.ID)
	})
	return rep
}
