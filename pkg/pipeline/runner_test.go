package pipeline

import (
	"context"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/impose/pkg/cache"
	"github.com/matzehuels/impose/pkg/errors"
	"github.com/matzehuels/impose/pkg/frame"
	"github.com/matzehuels/impose/pkg/geom"
	"github.com/matzehuels/impose/pkg/values"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

func businessCardRequest() Request {
	return Request{
		SchemaID: "standard_imposition",
		Payload: frame.Payload{
			Geometry:  frame.Geometry{Finish: geom.Size{W: 90, H: 54}},
			RawValues: values.Values{"safe_top": 3, "row_safe_draw_border": true},
		},
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	defer r.Close()

	res, err := r.Execute(context.Background(), businessCardRequest())
	require.NoError(t, err)

	assert.Equal(t, 1, res.Stats.RuleCount)
	assert.True(t, res.Flags.NUp)
	assert.True(t, res.Flags.DrawMarks)
	assert.Equal(t, ModeNUp, res.Layout.Mode)
	// 320x480mm sheet, 90x54mm cards.
	assert.Equal(t, 3, res.Layout.Cols)
	assert.Equal(t, 8, res.Layout.Rows)
	assert.Equal(t, 24, res.Stats.Copies)
	assert.NotEmpty(t, res.Layout.Marks)
	assert.Nil(t, res.Fit, "no content means no fit")

	// Guide and dashed border for safe_top.
	require.Len(t, res.Layout.YieldGuides.Lines, 2)
	assert.Equal(t, "Border_safe_top", res.Layout.YieldGuides.Lines[1].Name)
}

func TestRunnerExecuteCaches(t *testing.T) {
	ctx := context.Background()
	mem := cache.NewMemoryCache()
	r := NewRunner(mem, nil, quietLogger())

	first, err := r.Execute(ctx, businessCardRequest())
	require.NoError(t, err)
	assert.False(t, first.CacheInfo.FrameHit)
	assert.False(t, first.CacheInfo.LayoutHit)
	assert.Equal(t, 2, mem.Len())

	second, err := r.Execute(ctx, businessCardRequest())
	require.NoError(t, err)
	assert.True(t, second.CacheInfo.FrameHit)
	assert.True(t, second.CacheInfo.LayoutHit)
	assert.Equal(t, first.Frame.Finish, second.Frame.Finish)
	assert.Equal(t, first.Layout.Placements, second.Layout.Placements)

	req := businessCardRequest()
	req.Refresh = true
	third, err := r.Execute(ctx, req)
	require.NoError(t, err)
	assert.False(t, third.CacheInfo.FrameHit)
	assert.False(t, third.CacheInfo.LayoutHit)
}

func TestRunnerExecuteWithContent(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	req := businessCardRequest()
	req.Content = []geom.Rect{geom.RectFromTopLeft(0, 0, 100, 50)}

	res, err := r.Execute(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res.Fit)
	assert.False(t, res.Fit.Skipped)
	assert.Equal(t, res.Fit.ScaleX, res.Fit.ScaleY)
	assert.Equal(t, geom.Bounds{Left: 0, Top: 0, Width: 100, Height: 50}, res.Content)
}

func TestRunnerExecuteErrors(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())

	_, err := r.Execute(context.Background(), Request{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	req := businessCardRequest()
	req.Payload.Geometry.Finish = geom.Size{W: 500, H: 54}
	_, err = r.Execute(context.Background(), req)
	assert.True(t, errors.Is(err, errors.ErrCodeLayoutDoesNotFit))
}

func TestRunnerCompileRules(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(cache.NewMemoryCache(), nil, quietLogger())

	rules, hit, err := r.CompileRulesWithCacheInfo(ctx, nil, values.Values{"safe_top": 3})
	require.NoError(t, err)
	assert.False(t, hit)
	require.Len(t, rules, 1)
	assert.Equal(t, "safe_top", rules[0].ID)

	again, hit, err := r.CompileRulesWithCacheInfo(ctx, nil, values.Values{"safe_top": 3})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, rules, again)
}
