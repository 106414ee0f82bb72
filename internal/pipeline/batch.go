package pipeline

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/industriverse/industriverse-sub012/domain/core"
	"github.com/industriverse/industriverse-sub012/domain/physics"
	"github.com/industriverse/industriverse-sub012/internal"
)

// BatchItem is the outcome for one frame of a batch. Exactly one of
// Assessment and Error is set.
type BatchItem struct {
	FrameID    string      `json:"frame_id"`
	Assessment *Assessment `json:"assessment,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// BatchReport summarizes a batch run. Items keep the order of the input frames.
type BatchReport struct {
	BatchID   core.BatchID                   `json:"batch_id"`
	StartedAt core.Timestamp                 `json:"started_at"`
	Duration  time.Duration                  `json:"duration_ns"`
	Items     []BatchItem                    `json:"items"`
	Assessed  int                            `json:"assessed"`
	Failed    int                            `json:"failed"`
	Responses map[physics.ResponseAction]int `json:"responses"`
}

// Runner assesses many frames with a bounded number of workers
type Runner struct {
	pipeline *Pipeline
	workers  int
	logger   *internal.Logger
}

// NewRunner creates a runner; workers below 1 fall back to GOMAXPROCS
func NewRunner(p *Pipeline, workers int, logger *internal.Logger) *Runner {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		pipeline: p,
		workers:  workers,
		logger:   logger.With("Batch"),
	}
}

// Workers returns the concurrency limit
func (r *Runner) Workers() int {
	return r.workers
}

// ProcessBatch assesses every frame. A frame that fails extraction is
// recorded in its item and never aborts its siblings. Cancelling ctx stops
// scheduling; frames not yet started carry the context error and the
// partial report is returned together with ctx.Err().
func (r *Runner) ProcessBatch(ctx context.Context, frames []physics.TelemetryFrame) (*BatchReport, error) {
	start := core.Now()
	report := &BatchReport{
		BatchID:   core.NewBatchID(),
		StartedAt: start,
		Items:     make([]BatchItem, len(frames)),
		Responses: make(map[physics.ResponseAction]int),
	}
	r.logger.Info("batch %s: assessing %d frames with %d workers", report.BatchID, len(frames), r.workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	scheduled := 0
	for i := range frames {
		if gctx.Err() != nil {
			break
		}
		frame := frames[i]
		if frame.ID.IsEmpty() {
			frame.ID = core.NewFrameID()
		}
		item := &report.Items[i]
		item.FrameID = frame.ID.String()
		scheduled++

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				item.Error = err.Error()
				return nil
			}
			assessment, err := r.pipeline.Assess(frame)
			if err != nil {
				item.Error = err.Error()
				return nil
			}
			item.Assessment = &assessment
			return nil
		})
	}
	// workers never return errors, so Wait only synchronizes
	_ = g.Wait()

	ctxErr := ctx.Err()
	for i := scheduled; i < len(frames); i++ {
		item := &report.Items[i]
		item.FrameID = frames[i].ID.String()
		item.Error = ctxErr.Error()
	}

	for _, item := range report.Items {
		if item.Assessment == nil {
			report.Failed++
			continue
		}
		report.Assessed++
		report.Responses[item.Assessment.Fusion.Response]++
	}
	report.Duration = core.Now().Sub(start)

	r.logger.Info("batch %s: %d assessed, %d failed in %s", report.BatchID, report.Assessed, report.Failed, report.Duration)
	return report, ctxErr
}
