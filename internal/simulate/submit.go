package simulate

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"djboard/pkg/logger"
)

// Worker pool constants.
const (
	workerChannelMultiplier = 2
	progressChunk           = 200
)

// createProfiles registers every fan and DJ and returns their ids in plan
// order, so task indices resolve to ids.
func createProfiles(ctx context.Context, client *apiClient, p *plan, stats *Stats) ([]string, []string, error) {
	logger.Get().Info(ctx, "creating profiles",
		logger.Int("fans", len(p.fanNames)),
		logger.Int("djs", len(p.djNames)))

	fans := make([]string, len(p.fanNames))
	for i, name := range p.fanNames {
		id, err := client.createProfile(ctx, name, false)
		if err != nil {
			return nil, nil, err
		}
		fans[i] = id
	}

	djs := make([]string, len(p.djNames))
	for i, name := range p.djNames {
		id, err := client.createProfile(ctx, name, true)
		if err != nil {
			return nil, nil, err
		}
		djs[i] = id
	}

	stats.ProfilesCreated = len(fans) + len(djs)
	return fans, djs, nil
}

// submitTips drives every planned tip through record then settle or
// decline, spread across the worker pool.
func submitTips(ctx context.Context, config *Config, client *apiClient, p *plan, fans []string, stats *Stats) error {
	logger.Get().Info(ctx, "submitting tips",
		logger.Int("tips", len(p.tips)),
		logger.Int("workers", config.Workers))

	var settled, declined, failed, done int64

	taskChan := make(chan tipTask, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for task := range taskChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if err := runTipTask(ctx, client, p, fans, task); err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "tip task failed", logger.Error(err))
					}
				} else if task.decline {
					atomic.AddInt64(&declined, 1)
				} else {
					atomic.AddInt64(&settled, 1)
				}

				if n := atomic.AddInt64(&done, 1); n%progressChunk == 0 {
					fmt.Printf("\rtips: %d/%d (settled: %d, declined: %d, failed: %d)",
						n, len(p.tips),
						atomic.LoadInt64(&settled),
						atomic.LoadInt64(&declined),
						atomic.LoadInt64(&failed))
				}
			}
		}()
	}

	go func() {
		defer close(taskChan)
		for _, task := range p.tips {
			select {
			case <-ctx.Done():
				return
			case taskChan <- task:
			}
		}
	}()

	wg.Wait()
	if atomic.LoadInt64(&done) >= progressChunk {
		fmt.Println()
	}

	stats.TipsSettled = int(atomic.LoadInt64(&settled))
	stats.TipsDeclined = int(atomic.LoadInt64(&declined))
	stats.TipsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "tip submission completed",
		logger.Int("settled", stats.TipsSettled),
		logger.Int("declined", stats.TipsDeclined),
		logger.Int("failed", stats.TipsFailed))

	if stats.TipsFailed > 0 {
		return fmt.Errorf("%d of %d tip tasks failed", stats.TipsFailed, len(p.tips))
	}
	return nil
}

// runTipTask executes one planned tip end to end.
func runTipTask(ctx context.Context, client *apiClient, p *plan, fans []string, task tipTask) error {
	id, err := client.recordTip(ctx, fans[task.fan], p.djNames[task.dj], task.amount)
	if err != nil {
		return err
	}
	if task.decline {
		return client.declineTip(ctx, id)
	}
	return client.settleTip(ctx, id)
}

// submitRatings records every planned rating across the worker pool.
func submitRatings(ctx context.Context, config *Config, client *apiClient, p *plan, fans []string, stats *Stats) error {
	logger.Get().Info(ctx, "submitting ratings",
		logger.Int("ratings", len(p.ratings)),
		logger.Int("workers", config.Workers))

	var recorded, failed, done int64

	taskChan := make(chan ratingTask, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for task := range taskChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				if err := client.recordRating(ctx, fans[task.fan], p.djNames[task.dj], task.stars); err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "rating task failed", logger.Error(err))
					}
				} else {
					atomic.AddInt64(&recorded, 1)
				}

				if n := atomic.AddInt64(&done, 1); n%progressChunk == 0 {
					fmt.Printf("\rratings: %d/%d (recorded: %d, failed: %d)",
						n, len(p.ratings),
						atomic.LoadInt64(&recorded),
						atomic.LoadInt64(&failed))
				}
			}
		}()
	}

	go func() {
		defer close(taskChan)
		for _, task := range p.ratings {
			select {
			case <-ctx.Done():
				return
			case taskChan <- task:
			}
		}
	}()

	wg.Wait()
	if atomic.LoadInt64(&done) >= progressChunk {
		fmt.Println()
	}

	stats.RatingsRecorded = int(atomic.LoadInt64(&recorded))
	stats.RatingsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "rating submission completed",
		logger.Int("recorded", stats.RatingsRecorded),
		logger.Int("failed", stats.RatingsFailed))

	if stats.RatingsFailed > 0 {
		return fmt.Errorf("%d of %d rating tasks failed", stats.RatingsFailed, len(p.ratings))
	}
	return nil
}
