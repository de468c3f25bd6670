package cli

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/impose/pkg/observability"
	"github.com/matzehuels/impose/pkg/pipeline"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func quietSpinner(ctx context.Context, msg string) (*Spinner, *syncBuffer) {
	out := &syncBuffer{}
	s := newSpinnerWithContext(ctx, msg)
	s.out = out
	return s, out
}

func TestSpinnerRendersMessage(t *testing.T) {
	s, out := quietSpinner(context.Background(), "Compiling margin rules...")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	if !strings.Contains(out.String(), "Compiling margin rules...") {
		t.Errorf("output %q lacks the message", out.String())
	}
	if s.Cancelled() {
		t.Error("Stop does not count as cancellation")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	s, _ := quietSpinner(ctx, "Tiling copies across the sheet...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after the context deadline")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Resolving yield frame...")
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerSetMessageClearsWiderText(t *testing.T) {
	s, out := quietSpinner(context.Background(), stageNUp)
	s.SetMessage(stageFrame)

	if got := s.Message(); got != stageFrame {
		t.Errorf("Message() = %q, want %q", got, stageFrame)
	}
	if !strings.Contains(out.String(), "\r"+strings.Repeat(" ", len(stageNUp)+4)) {
		t.Error("a shorter message should blank the wider one first")
	}
}

// recordingHooks captures the pipeline events forwarded to it.
type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
}

func (r *recordingHooks) OnFrameStart(_ context.Context, schemaID string) {
	r.events = append(r.events, "frame:"+schemaID)
}

func (r *recordingHooks) OnLayoutStart(_ context.Context, mode string) {
	r.events = append(r.events, "layout:"+mode)
}

func TestSpinnerFollowsStages(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetPipelineHooks(rec)
	t.Cleanup(observability.Reset)

	s, _ := quietSpinner(context.Background(), "Compiling margin rules...")
	restore := followStages(s)

	ctx := context.Background()
	steps := []struct {
		emit func()
		want string
	}{
		{func() { observability.Pipeline().OnFrameStart(ctx, "standard_imposition") }, stageFrame},
		{func() { observability.Pipeline().OnLayoutStart(ctx, pipeline.ModeNUp) }, stageNUp},
		{func() { observability.Pipeline().OnLayoutStart(ctx, pipeline.ModeSingle) }, stageSingle},
	}
	for _, step := range steps {
		step.emit()
		if got := s.Message(); got != step.want {
			t.Errorf("Message() = %q, want %q", got, step.want)
		}
	}

	restore()
	if observability.Pipeline() != observability.PipelineHooks(rec) {
		t.Error("restore should reinstate the previous hooks")
	}
	want := []string{"frame:standard_imposition", "layout:n-up", "layout:single"}
	if !slices.Equal(rec.events, want) {
		t.Errorf("forwarded events = %v, want %v", rec.events, want)
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Computing layout...")
	s.Start()
	s.StopWithSuccess("Imposed 24 copies")

	s, _ = quietSpinner(context.Background(), "Computing layout...")
	s.Start()
	s.StopWithError("Layout failed")
}
