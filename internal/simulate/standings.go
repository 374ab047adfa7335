package simulate

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"

	"djboard/pkg/logger"
)

// checkStandings fetches the standing of every DJ with planned activity
// concurrently and verifies each entry against the plan. It returns the
// number of mismatches; the error covers transport failures only.
func checkStandings(ctx context.Context, config *Config, client *apiClient, djs []string, want map[int]expectation, stats *Stats) (int, error) {
	active := make([]int, 0, len(want))
	for dj := range want {
		active = append(active, dj)
	}
	sort.Ints(active)

	logger.Get().Info(ctx, "checking standings",
		logger.Int("djs", len(active)),
		logger.Int("workers", config.Workers))

	var checked, failed, mismatched int64

	indexChan := make(chan int, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for dj := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				st, err := client.standing(ctx, djs[dj])
				if err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Warn(ctx, "standing fetch failed", logger.Error(err))
					continue
				}
				atomic.AddInt64(&checked, 1)

				msgs := diffEntry(st.Entry, djs[dj], want[dj])
				if st.Rank < 1 || st.Rank > len(active) {
					msgs = append(msgs, "rank out of range")
				}
				for _, msg := range msgs {
					atomic.AddInt64(&mismatched, 1)
					logger.Get().Warn(ctx, "standing mismatch",
						logger.String("dj", djs[dj]),
						logger.String("detail", msg))
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for _, dj := range active {
			select {
			case <-ctx.Done():
				return
			case indexChan <- dj:
			}
		}
	}()

	wg.Wait()

	stats.StandingsChecked = int(atomic.LoadInt64(&checked))

	logger.Get().Info(ctx, "standing checks completed",
		logger.Int("checked", stats.StandingsChecked),
		logger.Int("failed", int(atomic.LoadInt64(&failed))),
		logger.Int("mismatches", int(atomic.LoadInt64(&mismatched))))

	// A standing that could not be fetched is a mismatch too: the DJ has
	// planned activity, so the route must answer.
	return int(atomic.LoadInt64(&mismatched) + atomic.LoadInt64(&failed)), nil
}
