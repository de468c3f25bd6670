package frame

import (
	"github.com/matzehuels/impose/pkg/errors"
	"github.com/matzehuels/impose/pkg/geom"
)

// ContentBounds aggregates the visible bounds of the selected items into
// the content bounds used for auto-sizing.
func ContentBounds(items ...geom.Rect) (geom.Bounds, error) {
	u, ok := geom.Union(items...)
	if !ok {
		return geom.Bounds{}, errors.New(errors.ErrCodeInvalidInput, "no content selected")
	}
	return geom.BoundsOf(u), nil
}
