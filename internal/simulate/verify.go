package simulate

import (
	"context"
	"fmt"
	"math"

	"djboard/pkg/logger"
)

// Verification tolerances. Averages are compared to a billionth of a star;
// ordering tolerates average gaps under one micro-star, because ranking
// quantizes averages at that resolution.
const (
	avgTolerance  = 1e-9
	avgOrderSlack = 1e-6
)

// diffEntry compares one wire entry against the planned aggregates and
// returns a description per disagreeing field. Averages assume the precise
// aggregation mode, not the legacy truncating one.
func diffEntry(e boardEntry, djID string, exp expectation) []string {
	var msgs []string
	if e.DJID != djID {
		msgs = append(msgs, fmt.Sprintf("dj id %s, want %s", e.DJID, djID))
	}
	if e.TotalTips != exp.tips {
		msgs = append(msgs, fmt.Sprintf("total tips %d, want %d", e.TotalTips, exp.tips))
	}
	if e.TotalRatings != exp.ratings {
		msgs = append(msgs, fmt.Sprintf("total ratings %d, want %d", e.TotalRatings, exp.ratings))
	}
	if e.TotalRatingPoints != exp.points {
		msgs = append(msgs, fmt.Sprintf("rating points %d, want %d", e.TotalRatingPoints, exp.points))
	}

	wantAvg := 0.0
	if exp.ratings > 0 {
		wantAvg = float64(exp.points) / float64(exp.ratings)
	}
	if math.Abs(e.AvgRating-wantAvg) > avgTolerance {
		msgs = append(msgs, fmt.Sprintf("average rating %v, want %v", e.AvgRating, wantAvg))
	}
	return msgs
}

// orderedBefore reports whether entry a may legally precede entry b:
// settled tips descending, then average rating descending, then DJ id
// ascending on full ties.
func orderedBefore(a, b boardEntry) bool {
	if a.TotalTips != b.TotalTips {
		return a.TotalTips > b.TotalTips
	}
	if a.AvgRating == b.AvgRating {
		return a.DJID < b.DJID
	}
	return a.AvgRating > b.AvgRating-avgOrderSlack
}

// verifyLeaderboard fetches the full board and the top slice and checks
// membership, per-entry totals, ordering, and the prefix relation. It
// returns the number of mismatches; the error covers transport failures.
func verifyLeaderboard(ctx context.Context, config *Config, client *apiClient, djs []string, want map[int]expectation, stats *Stats) (int, error) {
	logger.Get().Info(ctx, "verifying leaderboard")

	items, err := client.leaderboard(ctx)
	if err != nil {
		return 0, err
	}
	stats.BoardEntries = len(items)

	wantByID := make(map[string]expectation, len(want))
	for dj, exp := range want {
		wantByID[djs[dj]] = exp
	}

	mismatches := 0
	report := func(msg string, fields ...logger.Field) {
		mismatches++
		logger.Get().Warn(ctx, msg, fields...)
	}

	if len(items) != len(wantByID) {
		report("board size mismatch",
			logger.Int("got", len(items)),
			logger.Int("want", len(wantByID)))
	}

	seen := make(map[string]bool, len(items))
	for _, e := range items {
		if seen[e.DJID] {
			report("duplicate board entry", logger.String("dj", e.DJID))
			continue
		}
		seen[e.DJID] = true

		exp, ok := wantByID[e.DJID]
		if !ok {
			report("unplanned board entry", logger.String("dj", e.DJID))
			continue
		}
		for _, msg := range diffEntry(e, e.DJID, exp) {
			report("board entry mismatch",
				logger.String("dj", e.DJID),
				logger.String("detail", msg))
		}
	}

	for i := 1; i < len(items); i++ {
		if !orderedBefore(items[i-1], items[i]) {
			report("board out of order",
				logger.Int("position", i),
				logger.String("dj", items[i].DJID))
		}
	}

	topItems, err := client.top(ctx, config.TopN)
	if err != nil {
		return mismatches, err
	}

	wantTop := config.TopN
	if wantTop > len(items) {
		wantTop = len(items)
	}
	if len(topItems) != wantTop {
		report("top slice size mismatch",
			logger.Int("got", len(topItems)),
			logger.Int("want", wantTop))
	} else {
		for i, e := range topItems {
			if e.DJID != items[i].DJID {
				report("top slice diverges from board prefix",
					logger.Int("position", i),
					logger.String("got", e.DJID),
					logger.String("want", items[i].DJID))
			}
		}
	}

	logger.Get().Info(ctx, "leaderboard verification completed",
		logger.Int("entries", len(items)),
		logger.Int("mismatches", mismatches))
	return mismatches, nil
}
