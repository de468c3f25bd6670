package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/impose/pkg/observability"
	"github.com/matzehuels/impose/pkg/pipeline"
)

// Stage messages shown while an imposition runs.
const (
	stageFrame  = "Resolving yield frame..."
	stageNUp    = "Tiling copies across the sheet..."
	stageSingle = "Anchoring a single copy..."
)

// Spinner shows progress on stderr while a pipeline stage runs. Its message
// can change between stages; it stops when its context is cancelled.
type Spinner struct {
	out     io.Writer
	message string
	widest  int
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	once    sync.Once
	mu      sync.Mutex
}

// newSpinnerWithContext creates a spinner that stops when ctx is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:     os.Stderr,
		message: message,
		widest:  len(message),
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(s.frames[i%len(s.frames)]), StyleDim.Render(s.message))
				s.mu.Unlock()
			}
		}
	}()
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(message) < s.widest {
		// Pad over the remains of a longer message.
		fmt.Fprintf(s.out, "\r%s", strings.Repeat(" ", s.widest+4))
	}
	s.message = message
	s.widest = max(s.widest, len(message))
}

// Message returns the current text.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop stops the spinner and clears the line. It is safe to call more than
// once.
func (s *Spinner) Stop() {
	s.cancel()
	s.once.Do(func() { close(s.done) })
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.widest+4))
}

// StopWithSuccess stops the spinner and prints a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and prints an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context was cancelled.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// =============================================================================
// Stage Hooks
// =============================================================================

// spinnerHooks moves a spinner through the pipeline stages and forwards
// every event to the hooks that were registered before it.
type spinnerHooks struct {
	spinner *Spinner
	next    observability.PipelineHooks
}

func (h spinnerHooks) OnFrameStart(ctx context.Context, schemaID string) {
	h.spinner.SetMessage(stageFrame)
	h.next.OnFrameStart(ctx, schemaID)
}

func (h spinnerHooks) OnFrameComplete(ctx context.Context, schemaID string, ruleCount int, d time.Duration, err error) {
	h.next.OnFrameComplete(ctx, schemaID, ruleCount, d, err)
}

func (h spinnerHooks) OnLayoutStart(ctx context.Context, mode string) {
	if mode == pipeline.ModeNUp {
		h.spinner.SetMessage(stageNUp)
	} else {
		h.spinner.SetMessage(stageSingle)
	}
	h.next.OnLayoutStart(ctx, mode)
}

func (h spinnerHooks) OnLayoutComplete(ctx context.Context, mode string, placements int, d time.Duration, err error) {
	h.next.OnLayoutComplete(ctx, mode, placements, d, err)
}

// followStages registers hooks that drive s for the duration of one run.
// The returned func restores the previous hooks.
func followStages(s *Spinner) (restore func()) {
	prev := observability.Pipeline()
	observability.SetPipelineHooks(spinnerHooks{spinner: s, next: prev})
	return func() { observability.SetPipelineHooks(prev) }
}
