// Package audit recomputes leaderboard aggregates from the source tables
// and reports drift against the live board. It reads, compares, and logs;
// it never repairs.
package audit

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"djboard/internal/domain/board"
	"djboard/internal/domain/model"
	"djboard/pkg/logger"
	"djboard/pkg/metrics"
)

// defaultSchedule runs a pass every ten minutes, at second zero.
const defaultSchedule = "0 */10 * * * *"

// Source is the read surface the auditor reconciles. The service implements
// it; nothing behind it is ever mutated by a pass.
type Source interface {
	ListTips(ctx context.Context) []model.Tip
	ListRatings(ctx context.Context) []model.Rating
	BoardSnapshot(ctx context.Context) map[string]board.Entry
}

// Drift names one aggregate field on one DJ's entry that disagrees with the
// value recomputed from the tables.
type Drift struct {
	DJID  string
	Field string
	Want  uint64
	Got   uint64
}

// Report summarizes a single audit pass.
type Report struct {
	StartedAt time.Time
	Duration  time.Duration
	Checked   int
	Drifts    []Drift
}

// Clean reports whether the pass found no drift.
func (r Report) Clean() bool {
	return len(r.Drifts) == 0
}

// Auditor periodically recomputes per-DJ aggregates from the tip and rating
// tables and compares them with a board snapshot.
type Auditor struct {
	mu sync.Mutex

	source   Source
	schedule string
	logger   logger.Logger

	cron    *cron.Cron
	started bool
}

// New constructs an Auditor reading from source. Nothing runs until Start.
func New(source Source, opts ...Option) *Auditor {
	if source == nil {
		panic("source is nil")
	}

	a := &Auditor{
		source:   source,
		schedule: defaultSchedule,
		logger:   logger.Get(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start schedules the periodic pass. The schedule is a six-field cron
// expression with a seconds column.
func (a *Auditor) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started {
		return nil
	}

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc(a.schedule, a.run); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrBadSchedule, a.schedule, err)
	}
	c.Start()

	a.cron = c
	a.started = true
	a.logger.Info(ctx, "audit scheduled", logger.String("schedule", a.schedule))
	return nil
}

// Stop halts the schedule and waits for a running pass to finish, bounded
// by ctx.
func (a *Auditor) Stop(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started {
		return
	}

	done := a.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}

	a.started = false
	a.logger.Info(ctx, "audit stopped")
}

// run adapts RunOnce to the cron callback shape.
func (a *Auditor) run() {
	ctx := context.Background()
	if _, err := a.RunOnce(ctx); err != nil {
		a.logger.Error(ctx, "audit pass failed", logger.Error(err))
	}
}

// expected holds the aggregates recomputed from the tables for one DJ.
type expected struct {
	tips    uint64
	ratings uint64
	points  uint64
}

// RunOnce executes a single audit pass: recompute settled-tip sums and
// rating counts and points per DJ, snapshot the board, and diff the two.
// Every drifting field is logged at WARN. The pass holds no lock across
// the table reads and the snapshot, so activity racing the pass can show
// up as transient drift; a clean follow-up pass clears it.
func (a *Auditor) RunOnce(ctx context.Context) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	start := time.Now()
	rep := Report{StartedAt: start.UTC()}

	want := make(map[string]expected)
	for _, t := range a.source.ListTips(ctx) {
		if t.Status != model.TipCompleted {
			continue
		}
		e := want[t.DJID]
		e.tips += t.Amount
		want[t.DJID] = e
	}
	for _, r := range a.source.ListRatings(ctx) {
		e := want[r.DJID]
		e.ratings++
		e.points += uint64(r.Stars)
		want[r.DJID] = e
	}

	snap := a.source.BoardSnapshot(ctx)

	ids := make(map[string]struct{}, len(want)+len(snap))
	for id := range want {
		ids[id] = struct{}{}
	}
	for id := range snap {
		ids[id] = struct{}{}
	}
	rep.Checked = len(ids)

	// Absent map lookups yield zero values on both sides, so a missing
	// entry and an orphaned entry both surface as plain field drift.
	for id := range ids {
		w := want[id]
		e := snap[id]
		if e.TotalTips != w.tips {
			rep.Drifts = append(rep.Drifts, Drift{DJID: id, Field: "total_tips", Want: w.tips, Got: e.TotalTips})
		}
		if e.TotalRatings != w.ratings {
			rep.Drifts = append(rep.Drifts, Drift{DJID: id, Field: "total_ratings", Want: w.ratings, Got: e.TotalRatings})
		}
		if e.TotalRatingPoints != w.points {
			rep.Drifts = append(rep.Drifts, Drift{DJID: id, Field: "rating_points", Want: w.points, Got: e.TotalRatingPoints})
		}
	}
	sort.Slice(rep.Drifts, func(i, j int) bool {
		if rep.Drifts[i].DJID != rep.Drifts[j].DJID {
			return rep.Drifts[i].DJID < rep.Drifts[j].DJID
		}
		return rep.Drifts[i].Field < rep.Drifts[j].Field
	})

	for _, d := range rep.Drifts {
		a.logger.Warn(ctx, "aggregate drift detected",
			logger.String("dj", d.DJID),
			logger.String("field", d.Field),
			logger.Uint64("want", d.Want),
			logger.Uint64("got", d.Got),
		)
	}

	rep.Duration = time.Since(start)
	metrics.RecordAuditRun()
	metrics.RecordAuditDuration(float64(rep.Duration.Nanoseconds()) / 1e6)
	metrics.UpdateAuditDriftEntries(len(rep.Drifts))
	metrics.UpdateAuditLastUnix(float64(time.Now().Unix()))

	if rep.Clean() {
		a.logger.Debug(ctx, "audit pass clean", logger.Int("checked", rep.Checked))
	} else {
		a.logger.Warn(ctx, "audit pass found drift",
			logger.Int("checked", rep.Checked),
			logger.Int("drifts", len(rep.Drifts)),
		)
	}
	return rep, nil
}
