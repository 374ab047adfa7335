package simulate

import (
	"context"
	"fmt"
	"math/rand"

	"djboard/pkg/logger"
)

// Workload shape constants.
const (
	maxTipAmount = 500
	maxStars     = 5
	declineEvery = 5
)

// tipTask is one planned tip: record it, then settle or decline it.
type tipTask struct {
	fan     int
	dj      int
	amount  uint64
	decline bool
}

// ratingTask is one planned rating.
type ratingTask struct {
	fan   int
	dj    int
	stars uint8
}

// plan is the full deterministic workload for one run. Profiles are
// referenced by index; ids are learned at creation time.
type plan struct {
	fanNames []string
	djNames  []string
	tips     []tipTask
	ratings  []ratingTask
}

// newPlan builds the workload from the seed. Equal seeds and counts always
// produce equal plans, which is what makes verification exact.
func newPlan(ctx context.Context, config *Config) *plan {
	logger.Get().Info(ctx, "planning workload",
		logger.Int("fans", config.Fans),
		logger.Int("djs", config.DJs),
		logger.Int("tips", config.Tips),
		logger.Int("ratings", config.Ratings),
		logger.Any("seed", config.Seed))

	r := rand.New(rand.NewSource(config.Seed)) //nolint:gosec // reproducibility matters here, not randomness quality

	p := &plan{
		fanNames: make([]string, config.Fans),
		djNames:  make([]string, config.DJs),
		tips:     make([]tipTask, config.Tips),
		ratings:  make([]ratingTask, config.Ratings),
	}

	for i := range p.fanNames {
		p.fanNames[i] = fmt.Sprintf("sim-fan-%04d", i+1)
	}
	for i := range p.djNames {
		p.djNames[i] = fmt.Sprintf("sim-dj-%04d", i+1)
	}

	// Every declineEvery-th tip is declined instead of settled, so the run
	// also proves declined amounts never reach the board.
	for i := range p.tips {
		p.tips[i] = tipTask{
			fan:     r.Intn(config.Fans),
			dj:      r.Intn(config.DJs),
			amount:  uint64(1 + r.Intn(maxTipAmount)),
			decline: i%declineEvery == declineEvery-1,
		}
	}
	for i := range p.ratings {
		p.ratings[i] = ratingTask{
			fan:   r.Intn(config.Fans),
			dj:    r.Intn(config.DJs),
			stars: uint8(1 + r.Intn(maxStars)),
		}
	}

	return p
}

// expectation is the aggregate one DJ must show once the workload lands.
type expectation struct {
	tips    uint64
	ratings uint64
	points  uint64
}

// expected folds the plan into per-DJ aggregates keyed by DJ index.
// Declined tips contribute nothing. DJs absent from the map must not
// appear on the board at all.
func (p *plan) expected() map[int]expectation {
	out := make(map[int]expectation)
	for _, t := range p.tips {
		if t.decline {
			continue
		}
		e := out[t.dj]
		e.tips += t.amount
		out[t.dj] = e
	}
	for _, r := range p.ratings {
		e := out[r.dj]
		e.ratings++
		e.points += uint64(r.stars)
		out[r.dj] = e
	}
	return out
}
