package margin_test

import (
	"fmt"

	"github.com/matzehuels/impose/pkg/margin"
)

func ExampleResolve() {
	m := margin.Resolve([]margin.Rule{
		{ID: "safe", Edge: margin.Top, Value: 3, Type: margin.Baseline},
		{ID: "spine", Edge: margin.Top, Value: 7, Type: margin.Structural},
		{ID: "bleed", Edge: margin.Top, Value: 1, Type: margin.Additive},
		{ID: "gutter", Edge: margin.Left, Value: 4, Type: margin.Baseline},
		{ID: "fixed", Edge: margin.Left, Value: 2, Type: margin.Absolute},
	})
	fmt.Println(m)
	// Output: top=8 bottom=0 left=2 right=0
}

func ExampleExplain() {
	rules := []margin.Rule{
		{ID: "safe", Edge: margin.Bottom, Value: 5, Type: margin.Baseline},
		{ID: "extra", Edge: margin.Bottom, Value: 2, Type: margin.Additive},
	}
	for _, r := range margin.Explain(rules) {
		fmt.Println(r)
	}
	// Output:
	// top: 0 (base 0 + additive 0)
	// bottom: 7 (base 5 + additive 2)
	// left: 0 (base 0 + additive 0)
	// right: 0 (base 0 + additive 0)
}
