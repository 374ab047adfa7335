// Package simulate drives a running djboard instance with a planned
// concurrent workload and verifies the leaderboard it ends up with.
package simulate

import (
	"context"
	"fmt"
	"time"

	"djboard/pkg/logger"
)

// Run executes the complete simulation: health check, profile creation,
// concurrent tips and ratings, then verification of standings, the full
// board, and the top slice. A returned error means the run cannot be
// trusted or the service disagreed with the plan.
func Run(ctx context.Context, config *Config) error {
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.TopN < 1 {
		config.TopN = 1
	}

	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting djboard simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	client := newAPIClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := client.health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}
	logger.Get().Info(ctx, "service is healthy")

	// Step 2: Plan the workload
	p := newPlan(ctx, config)
	want := p.expected()

	// Step 3: Create profiles
	fans, djs, err := createProfiles(ctx, client, p, stats)
	if err != nil {
		return fmt.Errorf("profile creation failed: %w", err)
	}

	// Step 4: Submit tips concurrently
	if err := submitTips(ctx, config, client, p, fans, stats); err != nil {
		return fmt.Errorf("tip submission failed: %w", err)
	}

	// Step 5: Submit ratings concurrently
	if err := submitRatings(ctx, config, client, p, fans, stats); err != nil {
		return fmt.Errorf("rating submission failed: %w", err)
	}

	// Settlement is synchronous in the service, so verification can start
	// as soon as submission returns.

	// Step 6: Check per-DJ standings
	standingMismatches, err := checkStandings(ctx, config, client, djs, want, stats)
	if err != nil {
		return fmt.Errorf("standing checks failed: %w", err)
	}

	// Step 7: Verify the full board and the top slice
	boardMismatches, err := verifyLeaderboard(ctx, config, client, djs, want, stats)
	if err != nil {
		return fmt.Errorf("leaderboard verification failed: %w", err)
	}

	stats.Mismatches = standingMismatches + boardMismatches
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	if stats.Mismatches > 0 {
		return fmt.Errorf("verification found %d mismatches", stats.Mismatches)
	}
	logger.Get().Info(ctx, "simulation completed successfully")
	return nil
}

// displayFinalStats prints the final simulation statistics.
func displayFinalStats(stats *Stats) {
	var tasksPerSecond float64
	tasks := stats.TipsSettled + stats.TipsDeclined + stats.RatingsRecorded
	if stats.Duration > 0 {
		tasksPerSecond = float64(tasks) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("profilesCreated", stats.ProfilesCreated),
		logger.Int("tipsSettled", stats.TipsSettled),
		logger.Int("tipsDeclined", stats.TipsDeclined),
		logger.Int("tipsFailed", stats.TipsFailed),
		logger.Int("ratingsRecorded", stats.RatingsRecorded),
		logger.Int("ratingsFailed", stats.RatingsFailed),
		logger.Int("standingsChecked", stats.StandingsChecked),
		logger.Int("boardEntries", stats.BoardEntries),
		logger.Int("mismatches", stats.Mismatches),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("tasksPerSecond", tasksPerSecond))
}
