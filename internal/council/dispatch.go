package council

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/clinsight/diagteam/internal/analysis"
)

// Dispatch runs every task concurrently and blocks until all have finished.
// Each goroutine writes only its own result slot; the label-keyed map is
// built after the join, so downstream consumers see either every submitted
// label or nothing.
//
// Failure policy is fail-fast-abort-all: the first task error cancels the
// shared context and fails the whole batch. A positive timeout bounds each
// task individually; a task that exceeds it fails the batch like any other
// task error. There is no richer cancellation surface; callers cancel via
// ctx.
func Dispatch(ctx context.Context, az analysis.Analyzer, tasks []Task, timeout time.Duration) (map[Role]string, error) {
	seen := make(map[Role]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.Role]; dup {
			return nil, fmt.Errorf("duplicate task label %q", t.Role)
		}
		seen[t.Role] = struct{}{}
	}

	g, ctx := errgroup.WithContext(ctx)
	summaries := make([]string, len(tasks))
	for i, task := range tasks {
		g.Go(func() error {
			runCtx := ctx
			if timeout > 0 {
				var cancel context.CancelFunc
				runCtx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}
			started := time.Now()
			summary, err := task.Run(runCtx, az)
			if err != nil {
				log.Printf("diagteam task_failed role=%s elapsed_ms=%d err=%q", task.Role, time.Since(started).Milliseconds(), err.Error())
				return fmt.Errorf("task %s: %w", task.Role, err)
			}
			log.Printf("diagteam task_done role=%s elapsed_ms=%d summary_chars=%d", task.Role, time.Since(started).Milliseconds(), len(summary))
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[Role]string, len(tasks))
	for i, t := range tasks {
		out[t.Role] = summaries[i]
	}
	return out, nil
}
