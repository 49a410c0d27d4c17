package cron

import (
	"context"
	"fmt"

	"github.com/discfound/discfound-backend/pkg/logger"
)

const (
	linkSweepBatchSize   = 50
	linkSweepMaxAttempts = 5
)

type linkTaskProcessor interface {
	ProcessPendingTasks(ctx context.Context, batchSize, maxAttempts int) (int, error)
}

type LinkTaskSweepJobParams struct {
	Logger      *logger.Logger
	Linker      linkTaskProcessor
	BatchSize   int
	MaxAttempts int
}

// NewLinkTaskSweepJob retries pending identity link tasks that the Pub/Sub
// consumer could not resolve inline.
func NewLinkTaskSweepJob(params LinkTaskSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Linker == nil {
		return nil, fmt.Errorf("linker service required")
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = linkSweepBatchSize
	}
	maxAttempts := params.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = linkSweepMaxAttempts
	}
	return &linkTaskSweepJob{
		logg:        params.Logger,
		linker:      params.Linker,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
	}, nil
}

type linkTaskSweepJob struct {
	logg        *logger.Logger
	linker      linkTaskProcessor
	batchSize   int
	maxAttempts int
}

func (j *linkTaskSweepJob) Name() string { return "link-task-sweep" }

func (j *linkTaskSweepJob) Run(ctx context.Context) error {
	processed, err := j.linker.ProcessPendingTasks(ctx, j.batchSize, j.maxAttempts)
	if err != nil {
		return fmt.Errorf("link task sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"tasks_processed": processed,
		"batch_size":      j.batchSize,
		"max_attempts":    j.maxAttempts,
	})
	j.logg.Info(logCtx, "link task sweep complete")
	return nil
}
